package port

import "context"

// ArtifactGenerator derives a binary artifact (the barcode image) from an
// access key.
type ArtifactGenerator interface {
	Generate(ctx context.Context, accessKey string) ([]byte, error)
	ContentType() string
}
