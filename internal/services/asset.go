package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/youngclement/preziq-canvas-backend/internal/clients/gcp"
	pkgerrors "github.com/youngclement/preziq-canvas-backend/internal/pkg/errors"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

// AssetService stores slide assets in the bucket under versioned keys so
// stale CDN caches never serve a replaced image, and resolves asset URLs back
// to deletable bucket keys.
type AssetService interface {
	UploadSlideImage(ctx context.Context, slideID uuid.UUID, filename string, file io.Reader) (string, error)
	UploadBackgroundImage(ctx context.Context, activityID uuid.UUID, filename string, file io.Reader) (string, error)
	// DeleteObject removes the object behind a URL path (leading bucket
	// segment tolerated).
	DeleteObject(ctx context.Context, objectPath string) error
	// DeleteObjectURL removes the object behind a full asset URL. URLs on
	// foreign hosts are left alone.
	DeleteObjectURL(ctx context.Context, rawURL string) error
	AssetHosts() []string
}

type assetService struct {
	log    *logger.Logger
	bucket gcp.BucketService
}

func NewAssetService(log *logger.Logger, bucket gcp.BucketService) AssetService {
	return &assetService{
		log:    log.With("service", "AssetService"),
		bucket: bucket,
	}
}

func (s *assetService) UploadSlideImage(ctx context.Context, slideID uuid.UUID, filename string, file io.Reader) (string, error) {
	if slideID == uuid.Nil {
		return "", fmt.Errorf("slide id required: %w", pkgerrors.ErrInvalidArgument)
	}
	key := versionedKey("slides", slideID, filename)
	if err := s.bucket.UploadFile(ctx, key, file); err != nil {
		return "", fmt.Errorf("upload slide image: %w", err)
	}
	s.log.Info("slide image uploaded", "slideID", slideID, "key", key)
	return s.bucket.GetPublicURL(key), nil
}

func (s *assetService) UploadBackgroundImage(ctx context.Context, activityID uuid.UUID, filename string, file io.Reader) (string, error) {
	if activityID == uuid.Nil {
		return "", fmt.Errorf("activity id required: %w", pkgerrors.ErrInvalidArgument)
	}
	key := versionedKey("backgrounds", activityID, filename)
	if err := s.bucket.UploadFile(ctx, key, file); err != nil {
		return "", fmt.Errorf("upload background image: %w", err)
	}
	s.log.Info("background image uploaded", "activityID", activityID, "key", key)
	return s.bucket.GetPublicURL(key), nil
}

func (s *assetService) DeleteObject(ctx context.Context, objectPath string) error {
	key := s.bucket.KeyFromObjectPath(objectPath)
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("empty object path: %w", pkgerrors.ErrInvalidArgument)
	}
	return s.bucket.DeleteFile(ctx, key)
}

func (s *assetService) DeleteObjectURL(ctx context.Context, rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse asset URL: %w", err)
	}
	hosted := false
	for _, h := range s.bucket.AssetHosts() {
		if strings.EqualFold(u.Host, h) {
			hosted = true
			break
		}
	}
	if !hosted {
		s.log.Warn("asset URL on foreign host, not deleting", "url", rawURL)
		return nil
	}
	return s.DeleteObject(ctx, u.Path)
}

func (s *assetService) AssetHosts() []string {
	return s.bucket.AssetHosts()
}

// versionedKey builds <prefix>/<owner>/<nanos><ext>. The timestamp makes
// every upload a fresh object.
func versionedKey(prefix string, owner uuid.UUID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".png"
	}
	return fmt.Sprintf("%s/%s/%d%s", prefix, owner.String(), time.Now().UnixNano(), ext)
}
