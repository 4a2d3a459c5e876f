package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config points the loader at an S3 compatible object store.
type S3Config struct {
	Region   string
	Endpoint string
}

// Loader reads documents from local paths or s3://bucket/key locations.
type Loader struct {
	s3cfg S3Config
	s3    objectGetter
}

func NewLoader(cfg S3Config) *Loader {
	return &Loader{s3cfg: cfg}
}

// Load fetches the document at location and detects its type.
func (l *Loader) Load(ctx context.Context, location string) (Document, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return Document{}, fmt.Errorf("document location is required")
	}

	if strings.HasPrefix(location, s3Scheme) {
		return l.loadS3(ctx, location)
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return Document{}, fmt.Errorf("read document %q: %w", location, err)
	}

	return New(filepath.Base(location), data), nil
}

func (l *Loader) loadS3(ctx context.Context, location string) (Document, error) {
	bucket, key, err := parseS3Location(location)
	if err != nil {
		return Document{}, err
	}

	client, err := l.client(ctx)
	if err != nil {
		return Document{}, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return Document{}, fmt.Errorf("get object %s: %w", location, err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return Document{}, fmt.Errorf("read object body %s: %w", location, err)
	}

	doc := New(path.Base(key), buf.Bytes())
	if ct := aws.ToString(out.ContentType); ct != "" && doc.MIME != MIMEPDF {
		doc.MIME = ct
	}

	return doc, nil
}

func (l *Loader) client(ctx context.Context) (objectGetter, error) {
	if l.s3 != nil {
		return l.s3, nil
	}

	var opts []func(*config.LoadOptions) error
	if l.s3cfg.Region != "" {
		opts = append(opts, config.WithRegion(l.s3cfg.Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimSpace(l.s3cfg.Endpoint)
	l.s3 = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return l.s3, nil
}

func parseS3Location(location string) (string, string, error) {
	rest := strings.TrimPrefix(location, s3Scheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 location %q: expected s3://bucket/key", location)
	}
	return bucket, key, nil
}
