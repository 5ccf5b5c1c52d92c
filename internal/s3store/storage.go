package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	conf "github.com/trunov/thumbd/internal/config"
)

// S3 is the pipeline's only contact point with blob storage: existence
// check, download, upload. Keys are opaque strings.
type S3 struct {
	Bucket     string
	Region     string
	RequireSSE bool

	S3Client *s3.Client
	Uploader *manager.Uploader
}

func New(ctx context.Context, cfg *conf.S3Config) (*S3, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretKey, "",
		)),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{
		Bucket:     cfg.BucketName,
		Region:     cfg.Region,
		RequireSSE: cfg.RequireSSE,
		S3Client:   client,
		Uploader:   manager.NewUploader(client),
	}, nil
}

// Exists reports whether an object is present under key. A missing
// object is not an error; any other transport failure is.
func (s *S3) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.S3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, fmt.Errorf("head %q: %w", key, err)
	}
	return true, nil
}

func (s *S3) Download(ctx context.Context, key string) ([]byte, string, error) {
	out, err := s.S3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to download %q: %w", key, err)
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return nil, "", fmt.Errorf("failed to read body for %q: %w", key, err)
	}

	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return buf.Bytes(), contentType, nil
}

// Upload overwrites any existing object at key. Server-side encryption
// is a deployment toggle, not a per-call decision.
func (s *S3) Upload(ctx context.Context, key, contentType string, payload []byte) error {
	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	}
	if s.RequireSSE {
		in.ServerSideEncryption = types.ServerSideEncryptionAes256
	}

	if _, err := s.Uploader.Upload(ctx, in); err != nil {
		return fmt.Errorf("failed to upload %q: %w", key, err)
	}
	return nil
}
