package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/resumes"
	"resume-builder/internal/templates"
)

// minimalPDF builds a valid PDF with n empty A4 pages.
func minimalPDF(n int) []byte {
	var buf bytes.Buffer
	offsets := []int{}
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}
	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	kids := make([]string, n)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))
	for i := 0; i < n; i++ {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>")
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

type fakePrinter struct {
	pages    int
	err      error
	html     []byte
	selector string
}

func (f *fakePrinter) PrintPDF(_ context.Context, html []byte, rootSelector string) ([]byte, error) {
	f.html = html
	f.selector = rootSelector
	if f.err != nil {
		return nil, f.err
	}
	return minimalPDF(f.pages), nil
}

type stubDocs map[string]resumes.Resume

func (s stubDocs) Get(_ context.Context, userID, resumeID string) (resumes.Resume, error) {
	doc, ok := s[resumeID]
	if !ok || doc.UserID != userID {
		return resumes.Resume{}, resumes.ErrNotFound
	}
	return doc, nil
}

func newService(t *testing.T, printer Printer) *Service {
	t.Helper()
	catalog, err := templates.DefaultCatalog()
	require.NoError(t, err)
	tmpl, err := templates.NewService(catalog)
	require.NoError(t, err)
	doc := resumes.Resume{
		ID: "r1", UserID: "u1", Title: "Draft", TemplateID: "modern",
		PersonalInfo: resumes.PersonalInfo{FullName: "Grace Hopper", Email: "grace@example.com"},
	}
	return NewService(stubDocs{doc.ID: doc}, tmpl, printer)
}

func TestPageCount(t *testing.T) {
	n, err := PageCount(minimalPDF(3))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = PageCount([]byte("not a pdf"))
	assert.ErrorIs(t, err, ErrInvalidPDF)
}

func TestExportPrintsViewMode(t *testing.T) {
	printer := &fakePrinter{pages: 2}
	svc := newService(t, printer)

	res, err := svc.Export(context.Background(), "u1", "r1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, "Grace_Hopper_resume.pdf", res.Filename)
	assert.Equal(t, "#resume-document-root", printer.selector)
	assert.Contains(t, string(printer.html), `data-template="modern"`)
	assert.NotContains(t, string(printer.html), `contenteditable="true"`)
}

func TestExportNotFound(t *testing.T) {
	svc := newService(t, &fakePrinter{pages: 1})
	_, err := svc.Export(context.Background(), "u2", "r1")
	assert.ErrorIs(t, err, resumes.ErrNotFound)
}

func TestChromePrinterOptions(t *testing.T) {
	plain := NewChromePrinter("")
	custom := NewChromePrinter("/usr/bin/chromium")
	assert.Len(t, custom.allocatorOptions(), len(plain.allocatorOptions())+1)
}

func TestChromePrinterPrints(t *testing.T) {
	path := os.Getenv("CHROME_PATH")
	if path == "" {
		t.Skip("CHROME_PATH not set")
	}
	out, err := NewChromePrinter(path).PrintPDF(context.Background(),
		[]byte(`<html><body><div id="resume-document-root">hello</div></body></html>`), "#resume-document-root")
	require.NoError(t, err)
	n, err := PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	printer := &fakePrinter{pages: 1}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "u1")
		c.Next()
	})
	NewHandler(newService(t, printer)).RegisterRoutes(r.Group("/api/v1"))

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/resumes/r1/export.pdf", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))
	assert.Equal(t, "1", resp.Header().Get("X-Page-Count"))
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "Grace_Hopper_resume.pdf")

	printer.err = errors.Join(ErrPrint, errors.New("chrome exited"))
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/resumes/r1/export.pdf", nil))
	assert.Equal(t, http.StatusBadGateway, resp.Code)

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/resumes/missing/export.pdf", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
