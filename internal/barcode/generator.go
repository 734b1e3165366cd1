// Package barcode renders the access key as a Code 128 PNG image.
package barcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"

	"nfextract/internal/domain"
	"nfextract/internal/port"
)

const artifactName = "barcode"

// Default image size in pixels.
const (
	DefaultWidth  = 600
	DefaultHeight = 80
)

type generator struct {
	width  int
	height int
}

// NewGenerator returns a Code 128 port.ArtifactGenerator. Non-positive sizes
// fall back to the defaults.
func NewGenerator(width, height int) port.ArtifactGenerator {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &generator{width: width, height: height}
}

func (g *generator) ContentType() string { return "image/png" }

// Generate encodes accessKey. Every failure is an *domain.ArtifactGenerationError.
func (g *generator) Generate(ctx context.Context, accessKey string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.ArtifactGenerationError{Artifact: artifactName, Err: err}
	}
	if accessKey == "" {
		return nil, &domain.ArtifactGenerationError{Artifact: artifactName, Err: errors.New("empty access key")}
	}

	code, err := code128.Encode(accessKey)
	if err != nil {
		return nil, &domain.ArtifactGenerationError{Artifact: artifactName, Err: fmt.Errorf("encoding code128: %w", err)}
	}
	scaled, err := barcode.Scale(code, g.width, g.height)
	if err != nil {
		return nil, &domain.ArtifactGenerationError{Artifact: artifactName, Err: fmt.Errorf("scaling: %w", err)}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, &domain.ArtifactGenerationError{Artifact: artifactName, Err: fmt.Errorf("encoding png: %w", err)}
	}
	return buf.Bytes(), nil
}
