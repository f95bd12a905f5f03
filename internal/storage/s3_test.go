package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/equine-practice/internal/config"
)

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(&config.Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestS3Store_URL(t *testing.T) {
	s, err := NewS3Store(&config.Config{S3Bucket: "photos", S3Region: "ap-southeast-2"})
	require.NoError(t, err)
	assert.Equal(t, "https://photos.s3.ap-southeast-2.amazonaws.com/a.webp", s.URL("a.webp"))

	s, err = NewS3Store(&config.Config{
		S3Bucket:   "photos",
		S3Region:   "us-east-1",
		S3Endpoint: "http://localhost:9000/",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/photos/a.webp", s.URL("a.webp"))
}

func TestHorsePhotoKey(t *testing.T) {
	assert.Equal(t, "practices/3/horses/7.webp", HorsePhotoKey(3, 7))
}
