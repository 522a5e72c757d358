package resumes

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
	// Gate runs before paid operations. Nil allows everything.
	Gate gin.HandlerFunc
}

func NewHandler(svc *Service, gate gin.HandlerFunc) *Handler {
	return &Handler{Svc: svc, Gate: gate}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	gate := h.Gate
	if gate == nil {
		gate = func(c *gin.Context) { c.Next() }
	}
	rg.POST("/resumes", gate, h.create)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.DELETE("/resumes/:id", h.delete)
	rg.PATCH("/resumes/:id/sections/:section", h.updateField)
	rg.PUT("/resumes/:id/sections/:section", h.replaceSection)
	rg.POST("/resumes/:id/sections/:section/items", h.addItem)
	rg.DELETE("/resumes/:id/sections/:section/items/:index", h.removeItem)
	rg.PUT("/resumes/:id/template", h.setTemplate)
	rg.GET("/resume-profiles", h.listPresets)
	rg.POST("/resume-profiles", h.savePreset)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	var req createRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}
	in := CreateInput{Title: req.Title, TemplateID: req.TemplateID, PersonalInfo: req.PersonalInfo}
	if req.PresetID != "" && in.PersonalInfo == nil {
		presets, err := h.Svc.Presets(c.Request.Context(), userID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load presets", nil)
			return
		}
		for _, p := range presets {
			if p.ID == req.PresetID {
				info := p.PersonalInfo
				in.PersonalInfo = &info
			}
		}
		if in.PersonalInfo == nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unknown presetId", nil)
			return
		}
	}
	doc, err := h.Svc.Create(c.Request.Context(), userID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Created(c, doc)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	limit, err := queryInt(c, "limit", 20)
	if err != nil || limit < 1 || limit > 100 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be between 1 and 100", nil)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "offset must be >= 0", nil)
		return
	}
	items, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, listResponse{Items: items, Limit: limit, Offset: offset})
}

func (h *Handler) get(c *gin.Context) {
	doc, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, doc)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) updateField(c *gin.Context) {
	name, ok := sectionParam(c)
	if !ok {
		return
	}
	var req fieldUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Field) == "" || len(req.Value) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "field and value are required", nil)
		return
	}
	u, err := h.Svc.UpdateField(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), name, req.Index, req.Field, req.Value)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toUpdateResponse(u))
}

func (h *Handler) replaceSection(c *gin.Context) {
	name, ok := sectionParam(c)
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "request body is required", nil)
		return
	}
	u, err := h.Svc.ReplaceSection(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), name, body)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toUpdateResponse(u))
}

func (h *Handler) addItem(c *gin.Context) {
	name, ok := sectionParam(c)
	if !ok {
		return
	}
	u, err := h.Svc.AddItem(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), name)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Created(c, toUpdateResponse(u))
}

func (h *Handler) removeItem(c *gin.Context) {
	name, ok := sectionParam(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "index must be an integer", nil)
		return
	}
	u, err := h.Svc.RemoveItem(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), name, index)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toUpdateResponse(u))
}

func (h *Handler) setTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	doc, err := h.Svc.SetTemplate(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req.TemplateID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, doc)
}

func (h *Handler) listPresets(c *gin.Context) {
	presets, err := h.Svc.Presets(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"items": presets})
}

func (h *Handler) savePreset(c *gin.Context) {
	var req presetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	p, err := h.Svc.SavePreset(c.Request.Context(), middleware.UserIDFromContext(c), Preset{
		ID:           req.ID,
		Label:        req.Label,
		PersonalInfo: req.PersonalInfo,
		IsDefault:    req.IsDefault,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Created(c, p)
}

func sectionParam(c *gin.Context) (SectionName, bool) {
	name, err := ParseSection(c.Param("section"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown section", gin.H{"section": c.Param("section")})
		return "", false
	}
	return name, true
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrInvalidTransition):
		respond.Error(c, http.StatusConflict, "invalid_transition", err.Error(), nil)
	case IsClientError(err):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "resume operation failed", nil)
	}
}
