package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/blog-platform-api/internal/config"
	"github.com/stretchr/testify/require"
)

func testConfig() config.StorageConfig {
	return config.StorageConfig{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		Bucket:          "avatars",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
		UsePathStyle:    true,
		PresignTTL:      10 * time.Minute,
	}
}

func TestPresignPut(t *testing.T) {
	p, err := NewPresigner(context.Background(), testConfig())
	require.NoError(t, err)

	uploadURL, publicURL, expiresAt, err := p.PresignPut(context.Background(), "avatars/7/abc.png", "image/png")
	require.NoError(t, err)

	u, err := url.Parse(uploadURL)
	require.NoError(t, err)
	require.Equal(t, "localhost:9000", u.Host)
	require.True(t, strings.HasPrefix(u.Path, "/avatars/avatars/7/abc.png"), u.Path)
	require.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	require.Equal(t, "600", u.Query().Get("X-Amz-Expires"))

	require.Equal(t, "http://localhost:9000/avatars/avatars/7/abc.png", publicURL)
	require.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 5*time.Second)
}

func TestPublicBase(t *testing.T) {
	cfg := testConfig()
	cfg.PublicBaseURL = "https://cdn.example.com"
	require.Equal(t, "https://cdn.example.com", publicBase(cfg))

	cfg = testConfig()
	cfg.Endpoint = ""
	require.Equal(t, "https://avatars.s3.us-east-1.amazonaws.com", publicBase(cfg))
}

func TestEscapeKey(t *testing.T) {
	require.Equal(t, "avatars/7/my%20photo.png", escapeKey("avatars/7/my photo.png"))
}
