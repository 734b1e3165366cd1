package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"nfextract/internal/csvexport"
	"nfextract/internal/domain"
)

const fullKey = "35240111222333000181550010000001231123456780"

var fixture = filepath.Join("..", "extractor", "testdata", "nfeproc_full.xml")

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeDir(t *testing.T, files map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	return dir
}

func readFixture(t *testing.T) []byte {
	t.Helper()
	raw, err := os.ReadFile(fixture)
	require.NoError(t, err)
	return raw
}

func TestExtract_Text(t *testing.T) {
	out, _, err := execute(t, "extract", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "nfeproc_full.xml")
	assert.Contains(t, out, fullKey)
	assert.Contains(t, out, "itens=3")
}

func TestExtract_JSONWithBarcode(t *testing.T) {
	png := filepath.Join(t.TempDir(), "barcode.png")
	out, _, err := execute(t, "extract", fixture, "--output", "json", "--barcode-out", png)
	require.NoError(t, err)

	var got ExtractOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, fullKey, got.Record.Chave)
	require.NotNil(t, got.Validation)
	assert.Empty(t, got.Warning)

	data, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestExtract_Errors(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		_, _, err := execute(t, "extract", filepath.Join(t.TempDir(), "nope.xml"))
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("malformed", func(t *testing.T) {
		dir := writeDir(t, map[string][]byte{"bad.xml": []byte("<nfeProc><NFe>")})
		_, _, err := execute(t, "extract", filepath.Join(dir, "bad.xml"))
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
	})

	t.Run("invalid_output", func(t *testing.T) {
		_, _, err := execute(t, "extract", fixture, "--output", "yaml")
		require.Error(t, err)
	})
}

func TestBatch_CollectsEveryFailure(t *testing.T) {
	dir := writeDir(t, map[string][]byte{
		"a.xml":     readFixture(t),
		"bad.xml":   []byte("<nfeProc"),
		"html.xml":  []byte("<html><body/></html>"),
		"notes.txt": []byte("ignored"),
	})

	out, _, err := execute(t, "batch", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Len(t, multierr.Errors(errorsOf(err)), 2)
	assert.Contains(t, err.Error(), "2 of 3 files failed")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "OK\ta.xml"))
	assert.True(t, strings.HasPrefix(lines[1], "ERR\tbad.xml\textraction\t"))
	assert.True(t, strings.HasPrefix(lines[2], "ERR\thtml.xml\textraction\t"))
}

func errorsOf(err error) error {
	if exitErr, ok := err.(*ExitError); ok {
		return exitErr.Err
	}
	return err
}

func TestBatch_JSON(t *testing.T) {
	dir := writeDir(t, map[string][]byte{"a.xml": readFixture(t)})

	out, _, err := execute(t, "batch", dir, "-o", "json")
	require.NoError(t, err)

	var items []BatchItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, fullKey, items[0].AccessKey)
	assert.Empty(t, items[0].Error)
}

func TestBatch_JSONReportsErrorKind(t *testing.T) {
	dir := writeDir(t, map[string][]byte{"bad.xml": []byte("<nfeProc")})

	out, _, err := execute(t, "batch", dir, "-o", "json")
	require.Error(t, err)

	var items []BatchItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, KindExtraction, items[0].ErrorKind)
	assert.NotEmpty(t, items[0].Error)
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"malformed", fmt.Errorf("extracting a.xml: %w", &domain.MalformedInputError{Err: errors.New("eof")}), KindExtraction},
		{"structure", &domain.StructureError{Root: "html"}, KindExtraction},
		{"missing_key", &domain.MissingAccessKeyError{}, KindExtraction},
		{"artifact", &domain.ArtifactGenerationError{Artifact: "barcode", Err: errors.New("boom")}, KindArtifact},
		{"too_large", fmt.Errorf("a.xml: %w", domain.ErrFileTooLarge), KindOther},
		{"cancelled", context.Canceled, KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorKind(tt.err))
		})
	}
}

func TestBatch_EmptyDir(t *testing.T) {
	_, _, err := execute(t, "batch", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExport_CSV(t *testing.T) {
	dir := writeDir(t, map[string][]byte{
		"a.xml":   readFixture(t),
		"bad.xml": []byte("<x"),
	})
	outDir := t.TempDir()

	out, stderr, err := execute(t, "export", dir, "--model", "products", "--out-dir", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "3 rows")
	assert.Contains(t, stderr, "skipped bad.xml")

	matches, err := filepath.Glob(filepath.Join(outDir, "relatorio_products_*.csv"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, csvexport.BOM))
	assert.Equal(t, 4, strings.Count(string(data), "\n"))
}

func TestExport_XLSX(t *testing.T) {
	dir := writeDir(t, map[string][]byte{"a.xml": readFixture(t)})
	outDir := t.TempDir()

	_, _, err := execute(t, "export", dir, "--format", "xlsx", "--out-dir", outDir)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(outDir, "relatorio_parties_*.xlsx"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestExport_UnknownModel(t *testing.T) {
	dir := writeDir(t, map[string][]byte{"a.xml": readFixture(t)})
	_, _, err := execute(t, "export", dir, "--model", "ledger", "--out-dir", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
