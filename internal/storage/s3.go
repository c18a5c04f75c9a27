// Package storage keeps uploaded source documents in S3 compatible object
// storage, next to where the worker loads them from.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cltl/micro-portraits/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// DocumentPrefix is the key prefix of uploaded documents.
const DocumentPrefix = "documents"

// NewS3Client builds a path-style client for cfg. Static credentials are
// used when an access key is configured, the default chain otherwise.
func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, awsconfig.WithBaseEndpoint(cfg.Endpoint))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	}), nil
}

// DocumentKey returns the object key of an uploaded document. The
// extension of name is kept so the format can be resolved from the key.
func DocumentKey(documentID, name string) string {
	ext := strings.ToLower(path.Ext(name))
	if strings.HasSuffix(strings.ToLower(name), ".naf.xml") {
		ext = ".naf.xml"
	}
	return fmt.Sprintf("%s/%s%s", DocumentPrefix, documentID, ext)
}

// Bucket wraps a client bound to one bucket.
type Bucket struct {
	Client         *s3.Client
	Name           string
	PublicEndpoint string
}

func NewBucket(client *s3.Client, cfg config.S3Config) *Bucket {
	return &Bucket{Client: client, Name: cfg.Bucket, PublicEndpoint: cfg.PublicEndpoint}
}

// PutFile stores body under key.
func (b *Bucket) PutFile(ctx context.Context, key string, body io.Reader) error {
	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := b.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.Name),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return nil
}

// FindDocument returns the key of the uploaded document with id, or ""
// when none exists.
func (b *Bucket) FindDocument(ctx context.Context, documentID string) (string, error) {
	keys, err := b.ListFilesWithPrefix(ctx, DocumentPrefix+"/"+documentID+".")
	if err != nil {
		return "", err
	}
	if len(keys) == 0 {
		return "", nil
	}
	return keys[0], nil
}

// DeleteDocument removes every object stored for the document.
func (b *Bucket) DeleteDocument(ctx context.Context, documentID string) error {
	keys, err := b.ListFilesWithPrefix(ctx, DocumentPrefix+"/"+documentID+".")
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, k := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(k)})
	}
	_, err = b.Client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(b.Name),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", documentID, err)
	}
	return nil
}

func (b *Bucket) ListFilesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(b.Name),
		Prefix: aws.String(prefix),
	}

	for {
		out, err := b.Client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix %s: %w", prefix, err)
		}
		for _, obj := range out.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		input.ContinuationToken = out.NextContinuationToken
	}

	return keys, nil
}

// DownloadLink presigns a GET for key. When a public endpoint is
// configured the signature is computed for that host, and a path prefix
// on it is prepended to the signed URL.
func (b *Bucket) DownloadLink(ctx context.Context, key string, expires time.Duration) (string, error) {
	client := b.Client
	prefix := ""
	if b.PublicEndpoint != "" {
		public, err := url.Parse(b.PublicEndpoint)
		if err != nil || public.Scheme == "" || public.Host == "" {
			return "", fmt.Errorf("invalid public endpoint: %s", b.PublicEndpoint)
		}
		prefix = strings.TrimSuffix(public.Path, "/")
		base := b.Client.Options()
		client = s3.NewFromConfig(aws.Config{
			Region:      base.Region,
			Credentials: base.Credentials,
			HTTPClient:  base.HTTPClient,
		}, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(public.Scheme + "://" + public.Host)
			o.UsePathStyle = true
		})
	}

	out, err := s3.NewPresignClient(client).PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.Name),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("failed to generate download link: %w", err)
	}
	if prefix == "" {
		return out.URL, nil
	}

	signed, err := url.Parse(out.URL)
	if err != nil {
		return "", fmt.Errorf("failed to parse presigned url: %w", err)
	}
	signed.Path = prefix + signed.Path
	return signed.String(), nil
}
