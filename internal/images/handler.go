package images

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// multipart overhead allowed on top of MaxBytes.
const formSlack = 64 << 10

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes/:id/images", h.upload)
	rg.GET("/resumes/:id/images/:filename", h.url)
	rg.DELETE("/resumes/:id/images/:filename", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBytes+formSlack)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "image_too_large", ErrTooLarge.Error(), nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size > MaxBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "image_too_large", ErrTooLarge.Error(), nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	img, err := h.Svc.Upload(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), fileHeader.Filename, file)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Created(c, img)
}

func (h *Handler) url(c *gin.Context) {
	u, err := h.Svc.URL(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.Param("filename"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"url": u})
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Svc.Remove(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.Param("filename")); err != nil {
		writeError(c, err)
		return
	}
	respond.NoContent(c)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "image_too_large", err.Error(), nil)
	case errors.Is(err, ErrUnsupportedType):
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_image", err.Error(), nil)
	case errors.Is(err, ErrInvalidName):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, resumes.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process image", nil)
	}
}
