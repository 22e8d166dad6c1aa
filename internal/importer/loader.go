package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/GTDGit/gtd_storefront/internal/config"
)

var (
	ErrUnsupportedSource = errors.New("UNSUPPORTED_SOURCE")
	ErrUnsupportedFormat = errors.New("UNSUPPORTED_FORMAT")
)

// ObjectGetter is the subset of the S3 client the loader needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader opens catalog documents from the local filesystem or S3.
type Loader struct {
	cfg appconfig.S3Config

	once   sync.Once
	client ObjectGetter
	err    error
}

// NewLoader returns a Loader. The S3 client is only built the first time an
// s3:// source is opened.
func NewLoader(cfg appconfig.S3Config) *Loader {
	return &Loader{cfg: cfg}
}

// newLoaderWithClient is used by tests to bypass AWS configuration.
func newLoaderWithClient(client ObjectGetter) *Loader {
	l := &Loader{client: client}
	l.once.Do(func() {})
	return l
}

// Open returns a reader for source, which is file:///path, a bare path or
// s3://bucket/key. The caller closes the reader.
func (l *Loader) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.Contains(source, "://") {
		return os.Open(source)
	}

	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse source %q: %w", source, err)
	}

	switch u.Scheme {
	case "file":
		return os.Open(u.Path)
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("%w: s3 source needs bucket and key: %q", ErrUnsupportedSource, source)
		}
		return l.openS3(ctx, u.Host, key)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, u.Scheme)
	}
}

func (l *Loader) openS3(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	client, err := l.s3Client(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

func (l *Loader) s3Client(ctx context.Context) (ObjectGetter, error) {
	l.once.Do(func() {
		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(l.cfg.Region))
		if err != nil {
			l.err = fmt.Errorf("load aws config: %w", err)
			return
		}
		endpoint := l.cfg.Endpoint
		l.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			// MinIO and other S3-compatible stores.
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
				o.UsePathStyle = true
			}
		})
	})
	return l.client, l.err
}
