package objectstore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store implements Store on an S3 bucket. Uploads go through the transfer
// manager so large artifacts stream in parts.
type S3Store struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

var _ Store = (*S3Store)(nil)

// NewS3Store creates an S3Store writing under bucket/prefix.
func NewS3Store(client *s3.Client, bucket, prefix string) *S3Store {
	return &S3Store{
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   prefix,
	}
}

func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, size int64) (string, error) {
	fullKey := key
	if s.prefix != "" {
		fullKey = s.prefix + "/" + key
	}

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(fullKey),
		Body:          r,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", fullKey, err)
	}

	return fmt.Sprintf("s3://%s/%s", s.bucket, fullKey), nil
}
