package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	pkglogger "github.com/getyourdepa/depa-cms/pkg/logger"
)

// S3Store stores objects in S3-compatible storage (S3, R2, MinIO)
type S3Store struct {
	client   *s3.Client
	bucket   string
	cdnURL   string // optional CDN base URL
	basePath string // prefix for all objects (e.g. "cms/")
	skipACL  bool
}

// S3Config holds S3-compatible storage configuration
type S3Config struct {
	Endpoint        string // e.g. https://xxx.r2.cloudflarestorage.com
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	CDNURL          string
	BasePath        string
	ForcePathStyle  bool // true for MinIO/R2
	// SkipACL disables per-object ACLs for buckets that are public by policy
	SkipACL bool
}

// NewS3Store creates a new S3-compatible object store
func NewS3Store(cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	opts := func(o *s3.Options) {
		o.Region = cfg.Region
		if cfg.AccessKeyID != "" {
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	}

	client := s3.New(s3.Options{}, opts)

	pkglogger.GetLogger().Info().
		Str("bucket", cfg.Bucket).
		Str("endpoint", cfg.Endpoint).
		Msg("S3 storage client initialized")

	return newS3Store(client, cfg), nil
}

func newS3Store(client *s3.Client, cfg S3Config) *S3Store {
	base := strings.TrimRight(cfg.CDNURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.Bucket)
	}
	basePath := cfg.BasePath
	if basePath != "" && !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	return &S3Store{
		client:   client,
		bucket:   cfg.Bucket,
		cdnURL:   base,
		basePath: basePath,
		skipACL:  cfg.SkipACL,
	}
}

func (s *S3Store) key(path string) string {
	return s.basePath + path
}

func (s *S3Store) Save(ctx context.Context, path string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(path)),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3 upload failed: %w", err)
	}
	return nil
}

func (s *S3Store) MakePublic(ctx context.Context, path string) error {
	if s.skipACL {
		return nil
	}
	input := &s3.PutObjectAclInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
		ACL:    types.ObjectCannedACLPublicRead,
	}
	if _, err := s.client.PutObjectAcl(ctx, input); err != nil {
		return fmt.Errorf("s3 make public failed: %w", err)
	}
	return nil
}

// PublicURL returns the CDN URL for a path, falling back to the S3 URL
func (s *S3Store) PublicURL(path string) string {
	return s.cdnURL + "/" + escapePath(s.key(path))
}

func (s *S3Store) PathFromURL(rawURL string) (string, bool) {
	key, ok := pathAfterPrefix(rawURL, s.cdnURL)
	if !ok || !strings.HasPrefix(key, s.basePath) {
		return "", false
	}
	return strings.TrimPrefix(key, s.basePath), true
}

// Delete removes an object from storage
func (s *S3Store) Delete(ctx context.Context, path string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	}

	if _, err := s.client.DeleteObject(ctx, input); err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("s3 delete failed: %w", err)
	}
	return nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]Object, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.key(prefix)),
	})

	var out []Object
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list failed: %w", err)
		}
		for _, obj := range page.Contents {
			o := Object{
				Path: strings.TrimPrefix(aws.ToString(obj.Key), s.basePath),
				Size: aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				o.Updated = *obj.LastModified
			}
			out = append(out, o)
		}
	}
	return out, nil
}
