package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nfextract/internal/config"
)

func TestArchiveKeys(t *testing.T) {
	key := "35240111222333000181550010000001231123456780"
	assert.Equal(t, "nfe/"+key+".xml", XMLKey(key))
	assert.Equal(t, "nfe/"+key+".png", BarcodeKey(key))
}

func TestNewS3Client_CustomEndpoint(t *testing.T) {
	store, err := NewS3Client(&config.S3Config{
		Region:    "sa-east-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)
	c, ok := store.(*s3Client)
	require.True(t, ok)
	assert.True(t, c.client.Options().UsePathStyle)
	assert.Equal(t, "http://localhost:9000", *c.client.Options().BaseEndpoint)
}
