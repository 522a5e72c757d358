package templates

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/resumes"
)

type stubDocs map[string]resumes.Resume

func (s stubDocs) Get(_ context.Context, userID, resumeID string) (resumes.Resume, error) {
	doc, ok := s[resumeID]
	if !ok || doc.UserID != userID {
		return resumes.Resume{}, resumes.ErrNotFound
	}
	return doc, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	mem, err := DefaultCatalog()
	require.NoError(t, err)
	svc, err := NewService(mem)
	require.NoError(t, err)
	return svc
}

func TestServiceExists(t *testing.T) {
	svc := newTestService(t)
	ok, err := svc.Exists(context.Background(), "modern")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Exists(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestServiceRenderFallsBackToDefault(t *testing.T) {
	svc := newTestService(t)
	doc := sampleResume()
	doc.TemplateID = "retired"

	out, err := svc.Render(context.Background(), doc, ModeView)
	require.NoError(t, err)
	assert.Contains(t, string(out), `data-template="classic"`)
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "u1")
		c.Next()
	})
	doc := sampleResume()
	NewHandler(newTestService(t), stubDocs{doc.ID: doc}).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestHandlerListAndGet(t *testing.T) {
	r := newRouter(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	var list struct {
		Items []Descriptor `json:"items"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.NotEmpty(t, list.Items)

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/templates/minimal", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"bullets":"dash"`)

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/templates/nope", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "template_not_found")
}

func TestHandlerRender(t *testing.T) {
	r := newRouter(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/resumes/r1/render?mode=edit", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, strings.HasPrefix(resp.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, resp.Body.String(), `id="resume-document-root"`)
	assert.Contains(t, resp.Body.String(), `contenteditable="true"`)

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/resumes/r1/render", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, resp.Body.String(), `contenteditable="true"`)

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/resumes/other/render", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
