package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/blog-platform-api/internal/config"
)

// Presigner issues presigned PUT URLs against an S3-compatible bucket
type Presigner struct {
	client     *s3.PresignClient
	bucket     string
	publicBase string
	ttl        time.Duration
}

// NewPresigner builds a Presigner from cfg. Static credentials are used when
// an access key is configured, otherwise the default AWS chain applies.
func NewPresigner(ctx context.Context, cfg config.StorageConfig) (*Presigner, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &Presigner{
		client:     s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		publicBase: publicBase(cfg),
		ttl:        cfg.PresignTTL,
	}, nil
}

// PresignPut returns a URL the client can PUT the object to, the URL the
// object will be readable at afterwards, and when the upload URL expires.
func (p *Presigner) PresignPut(ctx context.Context, key, contentType string) (string, string, time.Time, error) {
	req, err := p.client.PresignPutObject(ctx,
		&s3.PutObjectInput{
			Bucket:      aws.String(p.bucket),
			Key:         aws.String(key),
			ContentType: aws.String(contentType),
		},
		s3.WithPresignExpires(p.ttl),
	)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to presign upload: %w", err)
	}

	return req.URL, p.publicBase + "/" + escapeKey(key), time.Now().Add(p.ttl), nil
}

func publicBase(cfg config.StorageConfig) string {
	switch {
	case cfg.PublicBaseURL != "":
		return cfg.PublicBaseURL
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
