package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/kshitij/vidtube/internal/config"
)

type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Store(ctx context.Context, cfg *config.Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true // MinIO
		}
	})

	baseURL := cfg.MediaBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.S3Endpoint, "/"), cfg.S3Bucket)
	}

	return &S3Store{
		client:  client,
		bucket:  cfg.S3Bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// objectKey buckets uploads by date so the store stays browsable.
func objectKey(folder, filename string) string {
	d := time.Now()
	return fmt.Sprintf("%s/%d/%02d/%v%s", folder, d.Year(), d.Month(), uuid.New(), path.Ext(filename))
}

func (s *S3Store) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (*Asset, error) {
	key := objectKey(folder, filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, err
	}

	return &Asset{
		URL: fmt.Sprintf("%s/%s", s.baseURL, key),
		Key: key,
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
