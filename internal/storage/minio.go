package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/config"
)

// minioStorage implements the Storage interface using an S3-compatible backend
// (MinIO, AWS S3, etc.). It is safe for concurrent use by multiple goroutines.
type minioStorage struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	useSSL        bool
	endpoint      string
	commitTimeout time.Duration
}

// NewMinIO creates a new S3-compatible storage client backed by MinIO.
// Missing credentials are a configuration error, reported before any network
// I/O so the process can fail fast at startup. Connectivity is validated and
// the bucket is created if missing.
func NewMinIO(cfg config.MinIOConfig, commitTimeout time.Duration) (Storage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint is required", ErrNotConfigured)
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("%w: access key and secret key are required", ErrNotConfigured)
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: bucket is required", ErrNotConfigured)
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ms := &minioStorage{
		client:        cli,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		useSSL:        cfg.UseSSL,
		endpoint:      cfg.Endpoint,
		commitTimeout: commitTimeout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure bucket exists.
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", classify(err))
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", classify(err))
		}
	}

	return ms, nil
}

// Put commits an object using streaming I/O under folder/<uuid><ext>.
func (m *minioStorage) Put(ctx context.Context, folder, filename string, r io.Reader, opt PutOptions) (ObjectInfo, error) {
	if m.commitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.commitTimeout)
		defer cancel()
	}

	ext := strings.ToLower(filepath.Ext(filename))
	key := path.Join(cleanFolder(folder), uuid.NewString()+ext)

	info, err := m.client.PutObject(ctx, m.bucket, key, r, opt.Size, minio.PutObjectOptions{
		ContentType:  opt.ContentType,
		UserMetadata: opt.Metadata,
	})
	if err != nil {
		return ObjectInfo{}, classify(err)
	}

	return ObjectInfo{
		ID:     key,
		URL:    m.objectURL(key),
		Format: strings.TrimPrefix(ext, "."),
		Size:   info.Size,
	}, nil
}

// Delete removes an object by id. A missing object is reported via found=false
// rather than an error, so callers can distinguish "already gone" from a
// backend failure.
func (m *minioStorage) Delete(ctx context.Context, storageID string) (bool, error) {
	if m.commitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.commitTimeout)
		defer cancel()
	}

	_, err := m.client.StatObject(ctx, m.bucket, storageID, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, classify(err)
	}

	if err := m.client.RemoveObject(ctx, m.bucket, storageID, minio.RemoveObjectOptions{}); err != nil {
		return true, classify(err)
	}
	return true, nil
}

// objectURL builds the retrieval URL for a committed key. A configured public
// base URL (CDN / reverse proxy) takes precedence over the raw endpoint.
func (m *minioStorage) objectURL(key string) string {
	if m.publicBaseURL != "" {
		return m.publicBaseURL + "/" + key
	}
	scheme := "http"
	if m.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, m.endpoint, m.bucket, key)
}

// cleanFolder normalizes a caller-supplied folder into a safe key prefix.
func cleanFolder(folder string) string {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" || folder == "." || strings.Contains(folder, "..") {
		return "documents"
	}
	return folder
}

// classify wraps backend errors with the package's classification sentinels.
// Credential rejections and connectivity failures must stay distinguishable
// all the way up to the HTTP status mapping.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		switch resp.Code {
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return fmt.Errorf("%w: %s", ErrCredentialsRejected, resp.Message)
		}
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	return err
}
