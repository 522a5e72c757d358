package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"resume-builder/internal/shared/storage/object"
)

// ErrNotImage is returned by Put for content that is not an image.
var ErrNotImage = errors.New("content type is not an image")

type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// Store implements ObjectStore on top of Cloudinary image hosting.
type Store struct {
	cld        *cloudinary.Cloudinary
	uploads    uploadAPI
	folder     string
	httpClient *http.Client
}

// New creates a Cloudinary-backed object store.
func New(cloudName, apiKey, apiSecret, folder string) (*Store, error) {
	if strings.TrimSpace(cloudName) == "" {
		return nil, fmt.Errorf("cloudinary cloud name is required")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &Store{
		cld:        cld,
		uploads:    &cld.Upload,
		folder:     strings.Trim(folder, "/"),
		httpClient: http.DefaultClient,
	}, nil
}

// Put uploads the reader under a public id derived from the storage key.
// Assets are delivered as images, so other content types are rejected.
func (s *Store) Put(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return 0, fmt.Errorf("cloudinary upload key=%s: %w: %q", storageKey, ErrNotImage, contentType)
	}
	result, err := s.uploads.Upload(ctx, r, uploader.UploadParams{
		PublicID: publicID(storageKey),
		Folder:   s.folder,
	})
	if err != nil {
		return 0, fmt.Errorf("cloudinary upload key=%s: %w", storageKey, err)
	}
	if result.Error.Message != "" {
		return 0, fmt.Errorf("cloudinary upload key=%s: %s", storageKey, result.Error.Message)
	}
	return int64(result.Bytes), nil
}

// Open downloads the delivered asset.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.PublicURL(storageKey), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudinary fetch key=%s: %w", storageKey, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("cloudinary fetch key=%s: status %d", storageKey, resp.StatusCode)
	}
	return resp.Body, nil
}

// Remove destroys the asset.
func (s *Store) Remove(ctx context.Context, storageKey string) error {
	if _, err := s.uploads.Destroy(ctx, uploader.DestroyParams{
		PublicID: s.fullPublicID(storageKey),
	}); err != nil {
		return fmt.Errorf("cloudinary destroy key=%s: %w", storageKey, err)
	}
	return nil
}

// PublicURL returns the secure delivery URL of the asset.
func (s *Store) PublicURL(storageKey string) string {
	img, err := s.cld.Image(s.fullPublicID(storageKey))
	if err != nil {
		return ""
	}
	u, err := img.String()
	if err != nil {
		return ""
	}
	return u
}

func (s *Store) fullPublicID(storageKey string) string {
	id := publicID(storageKey)
	if s.folder == "" {
		return id
	}
	return s.folder + "/" + id
}

// publicID strips the extension and replaces characters Cloudinary rejects.
func publicID(storageKey string) string {
	key := strings.Trim(storageKey, "/")
	key = strings.TrimSuffix(key, path.Ext(key))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '/', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, key)
}

var _ object.ObjectStore = (*Store)(nil)
