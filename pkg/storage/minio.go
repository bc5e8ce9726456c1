// Package storage publishes sprites and sheets to an S3-compatible bucket.
package storage

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	gconfig "github.com/PhantomInTheWire/glyphsheet/pkg/config"
)

// Client is the subset of *s3.Client the uploader needs.
type Client interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewClient builds an S3 client talking to the MinIO endpoint in cfg.
func NewClient(ctx context.Context, cfg gconfig.MinioConfig) (*s3.Client, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...any) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               cfg.Endpoint,
			SigningRegion:     cfg.Region,
			HostnameImmutable: true,
		}, nil
	})

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		config.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, errors.Wrap(err, "loading aws config")
	}
	return s3.NewFromConfig(awsCfg), nil
}

// Uploader puts glyph files into one bucket under a fixed key prefix.
type Uploader struct {
	client Client
	bucket string
	prefix string
}

// NewUploader returns an Uploader putting objects under prefix in bucket.
func NewUploader(client Client, bucket, prefix string) *Uploader {
	return &Uploader{client: client, bucket: bucket, prefix: prefix}
}

// EnsureBucket creates the bucket if HeadBucket cannot see it.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(u.bucket),
	})
	if err == nil {
		return nil
	}
	_, err = u.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(u.bucket),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to create bucket %s", u.bucket)
	}
	glog.Infof("created bucket: %s", u.bucket)
	return nil
}

// Key returns the object key for name, joined under the uploader prefix with
// forward slashes regardless of OS.
func (u *Uploader) Key(name ...string) string {
	return path.Join(append([]string{u.prefix}, name...)...)
}

// UploadFile puts the file at fpath under key.
func (u *Uploader) UploadFile(ctx context.Context, fpath, key string) error {
	file, err := os.Open(fpath)
	if err != nil {
		return errors.Wrapf(err, "opening %s", fpath)
	}
	defer file.Close()

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return errors.Wrapf(err, "uploading %s", key)
	}
	glog.V(1).Infof("uploaded: %s", key)
	return nil
}

// UploadDir puts every .png directly inside dir under the key prefix
// <prefix>/<base of dir>/ and returns the keys written. Per-file failures are
// logged and skipped.
func (u *Uploader) UploadDir(ctx context.Context, dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}

	var keys []string
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".png") {
			continue
		}
		key := u.Key(filepath.Base(dir), f.Name())
		if err := u.UploadFile(ctx, filepath.Join(dir, f.Name()), key); err != nil {
			glog.Warningf("failed to upload %s: %v", f.Name(), err)
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}
