package artifact

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config configures the connection to an S3-compatible object store.
type S3Config struct {
	// Endpoint overrides the AWS endpoint, e.g. "http://127.0.0.1:9000" for MinIO.
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3Client connects to the object store described by cfg.
func NewS3Client(cfg S3Config) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	return s3.NewFromConfig(aws.Config{Region: region}, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		if cfg.AccessKey != "" {
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		}
	})
}

// S3Store reads artifacts from a bucket, below an optional key prefix.
type S3Store struct {
	downloader *manager.Downloader
	bucket     string
	prefix     string
}

// NewS3Store creates an S3Store.
func NewS3Store(client manager.DownloadAPIClient, bucket, prefix string) *S3Store {
	return &S3Store{
		downloader: manager.NewDownloader(client),
		bucket:     bucket,
		prefix:     prefix,
	}
}

// Fetch downloads the object prefix/key.
func (s *S3Store) Fetch(ctx context.Context, key string) ([]byte, error) {
	objectKey := s.objectKey(key)
	buffer := manager.NewWriteAtBuffer([]byte{})
	_, err := s.downloader.Download(ctx, buffer, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download s3://%s/%s: %w", s.bucket, objectKey, err)
	}
	return buffer.Bytes(), nil
}

func (s *S3Store) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}
