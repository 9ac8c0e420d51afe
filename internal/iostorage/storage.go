// Package iostorage uploads processed images to an S3-compatible
// bucket.
package iostorage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/viltkamera/wcimport/pkg/config"
	"github.com/viltkamera/wcimport/pkg/wcimport"
)

type store struct {
	client *minio.Client
	bucket string
	prefix string
}

// New connects to cfg.Storage and checks that the bucket exists.
func New(ctx context.Context, cfg *config.Config) (wcimport.ObjectStore, error) {
	sc := cfg.Storage
	host, secure, err := ParseEndpoint(sc.Endpoint, sc.UseSSL)
	if err != nil {
		return nil, ClientError(sc.Endpoint, err)
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(sc.AccessKey, sc.SecretKey, ""),
		Secure: secure,
		// fixed region avoids a bucket location lookup
		Region: "us-east-1",
	})
	if err != nil {
		return nil, ClientError(sc.Endpoint, err)
	}

	ok, err := client.BucketExists(ctx, sc.Bucket)
	if err != nil {
		return nil, BucketError(sc.Bucket, err)
	}
	if !ok {
		return nil, BucketError(sc.Bucket, errors.New("bucket does not exist"))
	}

	slog.Info("Object storage ready",
		"endpoint", host,
		"secure", secure,
		"bucket", sc.Bucket,
		"prefix", sc.Prefix,
	)
	return &store{client: client, bucket: sc.Bucket, prefix: sc.Prefix}, nil
}

// Put implements wcimport.ObjectStore. The storage prefix is added to
// key.
func (s *store) Put(
	ctx context.Context,
	key string,
	data []byte,
	contentType string,
) error {
	name := s.prefix + key
	_, err := s.client.PutObject(ctx, s.bucket, name,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return UploadError(name, err)
	}
	slog.Debug("Uploaded object", "bucket", s.bucket, "key", name, "size", len(data))
	return nil
}

// ParseEndpoint accepts host[:port] or an http(s) URL. A URL scheme
// decides whether TLS is used, otherwise useSSL does.
func ParseEndpoint(endpoint string, useSSL bool) (string, bool, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", false, errors.New("empty endpoint")
	}
	if !strings.Contains(endpoint, "://") {
		return strings.TrimRight(endpoint, "/"), useSSL, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, err
	}
	switch u.Scheme {
	case "http":
		useSSL = false
	case "https":
		useSSL = true
	default:
		return "", false, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("no host in %q", endpoint)
	}
	if p := strings.Trim(u.Path, "/"); p != "" {
		return "", false, fmt.Errorf("endpoint cannot have a path, got %q", u.Path)
	}
	return u.Host, useSSL, nil
}
