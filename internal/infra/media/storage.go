// Package media stores product images in a gocloud.dev blob bucket.
// The bucket URL scheme picks the backend: mem://, file://, s3://, gs:// or azblob://.
package media

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/util"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"
)

const (
	defaultBucketURL     = "mem://"
	defaultPublicBaseURL = "/media"
	defaultFolder        = "products"
	defaultMaxUploadSize = 5 * 1024 * 1024

	cacheControl = "public, max-age=31536000, immutable"
)

// allowedTypes maps the accepted image MIME types to the extension used in object keys.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

type blobStorage struct {
	bucket        *blob.Bucket
	publicBaseURL string
	folder        string
	maxUploadSize int64
	logger        *slog.Logger
}

// New opens the configured bucket and closes it when the application stops.
func New(params Params) (service.MediaStorage, error) {
	cfg := params.Config.Media
	if cfg == nil {
		cfg = &config.MediaConfig{}
	}

	bucketURL := cfg.BucketURL
	if bucketURL == "" {
		bucketURL = defaultBucketURL
	}

	bucket, err := blob.OpenBucket(context.Background(), bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open media bucket %q", bucketURL)
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return errors.Wrap(bucket.Close(), "failed to close media bucket")
		},
	})

	return NewWithBucket(bucket, cfg, params.Logger), nil
}

// NewWithBucket wraps an already opened bucket.
func NewWithBucket(bucket *blob.Bucket, cfg *config.MediaConfig, logger *slog.Logger) service.MediaStorage {
	storage := &blobStorage{
		bucket:        bucket,
		publicBaseURL: defaultPublicBaseURL,
		folder:        defaultFolder,
		maxUploadSize: defaultMaxUploadSize,
		logger:        logger,
	}
	if cfg != nil {
		if cfg.PublicBaseURL != "" {
			storage.publicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
		}
		if cfg.Folder != "" {
			storage.folder = strings.Trim(cfg.Folder, "/")
		}
		if cfg.MaxUploadSize > 0 {
			storage.maxUploadSize = cfg.MaxUploadSize
		}
	}

	return storage
}

func (s *blobStorage) Upload(ctx context.Context, upload *service.MediaUpload) (string, error) {
	if upload == nil || len(upload.Data) == 0 {
		return "", domainerrors.ErrInvalidImage
	}
	if int64(len(upload.Data)) > s.maxUploadSize {
		return "", domainerrors.ErrImageTooLarge.WithMessagef("Image file is too large, the limit is %s", util.FormatBytes(s.maxUploadSize))
	}

	detected := mimetype.Detect(upload.Data)
	ext, ok := allowedTypes[detected.String()]
	if !ok {
		return "", domainerrors.ErrInvalidImage
	}

	key := path.Join(s.folder, uuid.Must(uuid.NewV7()).String()+ext)
	opts := &blob.WriterOptions{
		ContentType:  detected.String(),
		CacheControl: cacheControl,
		Metadata: map[string]string{
			"sha256":   util.ChecksumBytes(upload.Data),
			"filename": path.Base(upload.Filename),
		},
	}
	if err := s.bucket.WriteAll(ctx, key, upload.Data, opts); err != nil {
		s.logger.ErrorContext(ctx, "Failed to write media object",
			slog.String("key", key),
			slog.Any("error", err),
		)

		return "", domainerrors.ErrMediaStorageFailed
	}

	s.logger.DebugContext(ctx, "Stored media object",
		slog.String("key", key),
		slog.String("contentType", detected.String()),
		slog.String("size", util.FormatBytes(int64(len(upload.Data)))),
	)

	return s.publicBaseURL + "/" + key, nil
}

func (s *blobStorage) Read(ctx context.Context, key string) (*service.MediaObject, error) {
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	if key == "" {
		return nil, service.ErrMediaNotFound
	}

	attrs, err := s.bucket.Attributes(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, service.ErrMediaNotFound
		}

		return nil, errors.Wrap(err, "failed to read media attributes")
	}

	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read media object")
	}

	return &service.MediaObject{ContentType: attrs.ContentType, Data: data}, nil
}

func (s *blobStorage) Delete(ctx context.Context, url string) error {
	key, ok := s.keyFromURL(url)
	if !ok {
		return nil
	}

	if err := s.bucket.Delete(ctx, key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return errors.Wrap(err, "failed to delete media object")
	}

	return nil
}

func (s *blobStorage) Owns(url string) bool {
	_, ok := s.keyFromURL(url)

	return ok
}

func (s *blobStorage) keyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, s.publicBaseURL+"/")
	if !ok || key == "" {
		return "", false
	}

	return key, true
}
