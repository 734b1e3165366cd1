package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"nfextract/internal/domain"
	"nfextract/internal/service"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// pagination reads offset/limit query params with the usual defaults.
func pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

// rejectedFile is an upload turned away before extraction.
type rejectedFile struct {
	name string
	err  error
}

// readUploads collects the files[] parts of a multipart form. Files without
// an .xml extension are rejected individually; a file larger than maxBytes
// is read up to maxBytes+1 so the batch limit check still sees it.
func readUploads(c *gin.Context, maxBytes int64) ([]service.BatchFile, []rejectedFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, fmt.Errorf("reading multipart form: %w", err)
	}
	headers := form.File["files[]"]
	if len(headers) == 0 {
		headers = form.File["files"]
	}

	var (
		files    []service.BatchFile
		rejected []rejectedFile
	)
	for _, fh := range headers {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
		if _, ok := domain.AllowedExtensions[ext]; !ok {
			rejected = append(rejected, rejectedFile{name: fh.Filename, err: domain.ErrUnsupportedFileType})
			continue
		}
		raw, err := readPart(fh, maxBytes)
		if err != nil {
			rejected = append(rejected, rejectedFile{name: fh.Filename, err: err})
			continue
		}
		files = append(files, service.BatchFile{Name: fh.Filename, Raw: raw})
	}
	return files, rejected, nil
}

func readPart(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", fh.Filename, err)
	}
	defer func() { _ = f.Close() }()
	return readLimited(f, maxBytes)
}

// readLimited reads at most maxBytes+1 bytes, enough for callers to tell an
// oversized file apart.
func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	return io.ReadAll(r)
}

// readBody reads a raw request body bounded by maxBytes.
func readBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	body := c.Request.Body
	if maxBytes > 0 {
		body = http.MaxBytesReader(c.Writer, body, maxBytes)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.ErrFileTooLarge
		}
		return nil, err
	}
	return raw, nil
}
