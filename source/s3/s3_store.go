package s3

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hupe1980/pixload/source"
)

// ErrTooLarge is returned for objects above the configured size limit.
var ErrTooLarge = errors.New("s3: object too large")

// DefaultMaxObjectSize bounds the size of a single image object.
const DefaultMaxObjectSize = 256 << 20

// Client is the subset of the S3 API used by Store.
type Client interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Option configures a Store.
type Option func(*options)

type options struct {
	prefix        string
	region        string
	concurrency   int
	partSize      int64
	maxObjectSize int64
}

// WithPrefix prepends prefix to every key.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithRegion sets the AWS region used by New.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithConcurrency sets the number of parallel ranged GETs per object.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

// WithPartSize sets the ranged GET size in bytes.
func WithPartSize(n int64) Option {
	return func(o *options) { o.partSize = n }
}

// WithMaxObjectSize rejects objects larger than n bytes.
func WithMaxObjectSize(n int64) Option {
	return func(o *options) { o.maxObjectSize = n }
}

// Store implements source.Store for S3.
type Store struct {
	client     Client
	bucket     string
	opts       options
	downloader *manager.Downloader
}

// New creates a Store using the default AWS credential chain.
func New(ctx context.Context, bucket string, optFns ...Option) (*Store, error) {
	o := applyOptions(optFns)

	var loadOpts []func(*config.LoadOptions) error
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return NewStore(s3.NewFromConfig(cfg), bucket, optFns...), nil
}

// NewStore creates a Store on an existing client.
func NewStore(client Client, bucket string, optFns ...Option) *Store {
	o := applyOptions(optFns)
	return &Store{
		client: client,
		bucket: bucket,
		opts:   o,
		downloader: manager.NewDownloader(client, func(d *manager.Downloader) {
			d.Concurrency = o.concurrency
			d.PartSize = o.partSize
		}),
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		concurrency:   manager.DefaultDownloadConcurrency,
		partSize:      manager.DefaultDownloadPartSize,
		maxObjectSize: DefaultMaxObjectSize,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.concurrency <= 0 {
		o.concurrency = 1
	}
	if o.partSize <= 0 {
		o.partSize = manager.DefaultDownloadPartSize
	}
	return o
}

func (s *Store) key(name string) string {
	if s.opts.prefix == "" {
		return name
	}
	return path.Join(s.opts.prefix, name)
}

// Open downloads the object into memory.
func (s *Store) Open(ctx context.Context, name string) (source.Blob, error) {
	key := s.key(name)

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapError(err)
	}

	size := aws.ToInt64(head.ContentLength)
	if size > s.opts.maxObjectSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, key, size)
	}
	if size == 0 {
		return source.NewBytesBlob(nil), nil
	}

	buf := manager.NewWriteAtBuffer(make([]byte, 0, size))
	n, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapError(err)
	}
	return source.NewBytesBlob(buf.Bytes()[:n]), nil
}

func mapError(err error) error {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return source.ErrNotFound
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return source.ErrNotFound
	}
	return err
}
