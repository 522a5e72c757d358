package cloudinary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type recordingUploads struct {
	uploads []uploader.UploadParams
}

func (r *recordingUploads) Upload(_ context.Context, _ interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	r.uploads = append(r.uploads, params)
	return &uploader.UploadResult{Bytes: 42}, nil
}

func (r *recordingUploads) Destroy(context.Context, uploader.DestroyParams) (*uploader.DestroyResult, error) {
	return &uploader.DestroyResult{}, nil
}

func TestPublicID(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "google:1/r-1/me.png", want: "google_1/r-1/me"},
		{key: "/u/r/photo of me.jpeg", want: "u/r/photo_of_me"},
		{key: "u/r/noext", want: "u/r/noext"},
	}
	for _, tt := range tests {
		if got := publicID(tt.key); got != tt.want {
			t.Fatalf("publicID(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestFullPublicIDIncludesFolder(t *testing.T) {
	s := &Store{folder: "resume-images"}
	if got := s.fullPublicID("u/r/me.png"); got != "resume-images/u/r/me" {
		t.Fatalf("unexpected full public id %q", got)
	}
}

func TestPutUploadsImages(t *testing.T) {
	rec := &recordingUploads{}
	s := &Store{uploads: rec, folder: "resume-images"}

	n, err := s.Put(context.Background(), "u/r/me.png", "image/png", strings.NewReader("png"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != 42 {
		t.Fatalf("expected 42 bytes, got %d", n)
	}
	if len(rec.uploads) != 1 || rec.uploads[0].PublicID != "u/r/me" || rec.uploads[0].Folder != "resume-images" {
		t.Fatalf("unexpected uploads %+v", rec.uploads)
	}
}

func TestPutRejectsNonImages(t *testing.T) {
	rec := &recordingUploads{}
	s := &Store{uploads: rec}

	_, err := s.Put(context.Background(), "u/r/cv.pdf", "application/pdf", strings.NewReader("%PDF"))
	if !errors.Is(err, ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
	if len(rec.uploads) != 0 {
		t.Fatalf("expected no upload, got %d", len(rec.uploads))
	}
}
