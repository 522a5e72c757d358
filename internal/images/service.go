package images

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/util"
)

// MaxBytes is the largest accepted image.
const MaxBytes = 2 << 20

var (
	ErrTooLarge        = errors.New("image exceeds 2 MB")
	ErrUnsupportedType = errors.New("file is not a supported image")
	ErrInvalidName     = errors.New("invalid file name")
)

var allowedTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// Documents is the resume surface images need.
type Documents interface {
	Get(ctx context.Context, userID, resumeID string) (resumes.Resume, error)
	UpdateField(ctx context.Context, userID, resumeID string, name resumes.SectionName, index *int, field string, value json.RawMessage) (resumes.Update, error)
}

// Image is a stored profile image.
type Image struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

type Service struct {
	Store object.ObjectStore
	Docs  Documents
}

func NewService(store object.ObjectStore, docs Documents) *Service {
	return &Service{Store: store, Docs: docs}
}

// Key is the storage key of a resume image. User ids are hashed so the key
// stays a safe path segment.
func Key(userID, resumeID, filename string) (string, error) {
	name, err := util.SanitizeFileName(filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(resumeID) == "" {
		return "", fmt.Errorf("%w: user and resume ids required", ErrInvalidName)
	}
	return path.Join(util.HashUserKey(userID), resumeID, name), nil
}

// Upload validates size and type before anything is stored, then points the
// resume's profile image at the new URL.
func (s *Service) Upload(ctx context.Context, userID, resumeID, filename string, r io.Reader) (Image, error) {
	if _, err := s.Docs.Get(ctx, userID, resumeID); err != nil {
		return Image{}, err
	}
	key, err := Key(userID, resumeID, filename)
	if err != nil {
		return Image{}, err
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	if len(data) > MaxBytes {
		return Image{}, ErrTooLarge
	}
	mtype := mimetype.Detect(data)
	if !isAllowed(mtype) {
		return Image{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mtype.String())
	}

	size, err := s.Store.Put(ctx, key, mtype.String(), bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("store image: %w", err)
	}
	img := Image{Key: key, URL: s.Store.PublicURL(key), ContentType: mtype.String(), SizeBytes: size}

	raw, _ := json.Marshal(img.URL)
	if _, err := s.Docs.UpdateField(ctx, userID, resumeID, resumes.SectionPersonalInfo, nil, "profileImageUrl", raw); err != nil {
		return Image{}, err
	}
	telemetry.Info("images.uploaded", map[string]any{
		"resume_id":    resumeID,
		"key":          key,
		"content_type": img.ContentType,
		"size_bytes":   size,
	})
	return img, nil
}

// Remove deletes the image and clears the profile image when it points at it.
func (s *Service) Remove(ctx context.Context, userID, resumeID, filename string) error {
	doc, err := s.Docs.Get(ctx, userID, resumeID)
	if err != nil {
		return err
	}
	key, err := Key(userID, resumeID, filename)
	if err != nil {
		return err
	}
	if err := s.Store.Remove(ctx, key); err != nil {
		return fmt.Errorf("remove image: %w", err)
	}
	if doc.PersonalInfo.ProfileImageURL == s.Store.PublicURL(key) {
		if _, err := s.Docs.UpdateField(ctx, userID, resumeID, resumes.SectionPersonalInfo, nil, "profileImageUrl", json.RawMessage(`""`)); err != nil {
			return err
		}
	}
	return nil
}

// URL returns the public URL of a stored image.
func (s *Service) URL(ctx context.Context, userID, resumeID, filename string) (string, error) {
	if _, err := s.Docs.Get(ctx, userID, resumeID); err != nil {
		return "", err
	}
	key, err := Key(userID, resumeID, filename)
	if err != nil {
		return "", err
	}
	return s.Store.PublicURL(key), nil
}

func isAllowed(m *mimetype.MIME) bool {
	for _, t := range allowedTypes {
		if m.Is(t) {
			return true
		}
	}
	return false
}
