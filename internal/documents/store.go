// Package documents produces the completed loan-application document: it
// pulls the field-layout template from object storage, renders the customer's
// answers onto a PDF, uploads the result, and hands back a time-limited
// download link.
package documents

import (
	"context"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	logx "github.com/octank-fsi/dialog-agent/pkg/logger"
)

type StoreConfig struct {
	Endpoint  string `envconfig:"OBJECT_STORE_ENDPOINT" required:"true"`
	AccessKey string `envconfig:"OBJECT_STORE_ACCESS_KEY" required:"true"`
	SecretKey string `envconfig:"OBJECT_STORE_SECRET_KEY" required:"true"`
	UseSSL    bool   `envconfig:"OBJECT_STORE_USE_SSL" default:"true"`
	Bucket    string `envconfig:"OBJECT_STORE_BUCKET" default:"octank-dialog-artifacts"`
}

// ObjectStore is the artifact storage collaborator.
type ObjectStore interface {
	Download(ctx context.Context, key, localPath string) error
	Upload(ctx context.Context, key, localPath string) error
	Presign(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// MinioStore keeps all artifacts in a single bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(cfg StoreConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *MinioStore) Download(ctx context.Context, key, localPath string) error {
	return s.client.FGetObject(ctx, s.bucket, key, localPath, minio.GetObjectOptions{})
}

func (s *MinioStore) Upload(ctx context.Context, key, localPath string) error {
	_, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{})
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("artifact upload failed")
	}
	return err
}

func (s *MinioStore) Presign(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

var _ ObjectStore = (*MinioStore)(nil)
