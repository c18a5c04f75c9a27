package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/cltl/micro-portraits/pkg/loader"
)

// S3DocumentLoader is a DocumentLoader implementation that loads parsed
// documents from an S3 bucket. FilePath of a DocumentFile is the object
// key.
type S3DocumentLoader struct {
	bucket string
	client *s3.Client
	cache  *loader.Cache
}

// NewS3DocumentLoaderWithClient creates a new S3DocumentLoader using an
// existing s3.Client.
func NewS3DocumentLoaderWithClient(bucket string, client *s3.Client) *S3DocumentLoader {
	return &S3DocumentLoader{
		bucket: bucket,
		client: client,
		cache:  loader.NewCache(),
	}
}

// NewS3DocumentLoaderParams defines the configuration parameters for
// creating a new S3DocumentLoader.
//
// Endpoint allows overriding the S3 endpoint (useful for S3-compatible
// storage like MinIO). AccessKey and SecretKey provide static
// credentials.
type NewS3DocumentLoaderParams struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3DocumentLoader creates a new S3DocumentLoader with a client built
// from params.
func NewS3DocumentLoader(ctx context.Context, params NewS3DocumentLoaderParams) (*S3DocumentLoader, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(params.Region),
		config.WithBaseEndpoint(params.Endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			params.AccessKey,
			params.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return NewS3DocumentLoaderWithClient(params.Bucket, client), nil
}

// GetFileBytes retrieves the object named by file.FilePath. Results are
// cached.
func (l *S3DocumentLoader) GetFileBytes(ctx context.Context, file loader.DocumentFile) ([]byte, error) {
	return l.cache.Load(loader.CacheKey(file), func() ([]byte, error) {
		out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(l.bucket),
			Key:    aws.String(file.FilePath),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get object %s: %w", file.FilePath, err)
		}
		defer out.Body.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, out.Body); err != nil {
			return nil, fmt.Errorf("failed to read object %s: %w", file.FilePath, err)
		}
		return buf.Bytes(), nil
	})
}

// Forget drops the cached content of file.
func (l *S3DocumentLoader) Forget(file loader.DocumentFile) {
	l.cache.Forget(loader.CacheKey(file))
}
