package infra

// storage.go — product image persistence behind the ImageStore port.
// Development writes to a locally served uploads directory and stores the
// bare filename; production streams to object storage over HTTP and stores
// the full public URL. The catalog only ever persists the returned reference.

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"krakenstore/internal/apierror"
	"krakenstore/internal/config"
)

// MaxImageSize caps uploads at 5 MB.
const MaxImageSize = 5 << 20

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ImageUpload is one incoming image file.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// ImageStore persists an uploaded image and returns the reference string to
// record on the product row.
type ImageStore interface {
	Save(ctx context.Context, up *ImageUpload) (string, error)
}

// NewImageStore selects the store for the active profile.
func NewImageStore(cfg *config.Config) ImageStore {
	if cfg.IsProduction() && cfg.StorageBucket != "" {
		return &CloudImageStore{
			httpClient: &http.Client{Timeout: 30 * time.Second},
			uploadURL:  cfg.StorageUploadURL,
			publicURL:  cfg.StoragePublicURL,
			bucket:     cfg.StorageBucket,
			token:      cfg.StorageToken,
		}
	}
	return &DiskImageStore{Dir: cfg.UploadDir}
}

// validateImage enforces extension and size limits before any bytes move.
func validateImage(up *ImageUpload) (string, error) {
	ext := strings.ToLower(filepath.Ext(up.Filename))
	if !allowedImageExts[ext] {
		return "", apierror.Validation("Solo se permiten imágenes (jpeg, jpg, png, webp)")
	}
	if up.Size > MaxImageSize {
		return "", apierror.Validation("La imagen no puede superar 5MB")
	}
	return ext, nil
}

// uniqueImageName follows the original upload naming scheme:
// producto-<timestamp>-<rand><ext>.
func uniqueImageName(ext string) string {
	return fmt.Sprintf("producto-%d-%d%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
}

// ── DiskImageStore ────────────────────────────────────────────────────────────

// DiskImageStore writes images under a statically served directory and
// returns the bare filename.
type DiskImageStore struct {
	Dir string
}

func (s *DiskImageStore) Save(_ context.Context, up *ImageUpload) (string, error) {
	ext, err := validateImage(up)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", apierror.Internal(err, "Error al guardar imagen")
	}

	name := uniqueImageName(ext)
	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", apierror.Internal(err, "Error al guardar imagen")
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(up.Reader, MaxImageSize)); err != nil {
		return "", apierror.Internal(err, "Error al guardar imagen")
	}
	return name, nil
}

// ── CloudImageStore ───────────────────────────────────────────────────────────

// CloudImageStore streams the image to an object-storage upload endpoint
// (GCS media-upload shape) and returns the public object URL.
type CloudImageStore struct {
	httpClient *http.Client
	uploadURL  string
	publicURL  string
	bucket     string
	token      string
}

func (s *CloudImageStore) Save(ctx context.Context, up *ImageUpload) (string, error) {
	ext, err := validateImage(up)
	if err != nil {
		return "", err
	}

	object := "kraken-store/productos/" + uniqueImageName(ext)
	endpoint := fmt.Sprintf("%s/b/%s/o?uploadType=media&name=%s",
		s.uploadURL, url.PathEscape(s.bucket), url.QueryEscape(object))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		io.LimitReader(up.Reader, MaxImageSize))
	if err != nil {
		return "", apierror.Internal(err, "Error al guardar imagen")
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	if up.ContentType != "" {
		req.Header.Set("Content-Type", up.ContentType)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", apierror.Internal(err, "Error al guardar imagen")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", apierror.Internal(
			fmt.Errorf("object storage respondió %d: %s", resp.StatusCode, body),
			"Error al guardar imagen")
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, object), nil
}
