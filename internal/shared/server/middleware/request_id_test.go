package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestRequestIDReusesValidHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/x", func(c *gin.Context) { seen = RequestIDFromContext(c) })

	cases := []struct {
		name   string
		header string
		reuse  bool
	}{
		{"upstream id", "req-abc.123", true},
		{"missing", "", false},
		{"control characters", "bad\tid", false},
		{"too long", strings.Repeat("a", maxRequestIDLen+1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tc.header != "" {
				req.Header.Set("X-Request-Id", tc.header)
			}
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)

			if resp.Header().Get("X-Request-Id") != seen {
				t.Fatalf("header %q does not match context %q", resp.Header().Get("X-Request-Id"), seen)
			}
			if tc.reuse && seen != tc.header {
				t.Fatalf("expected %q to be reused, got %q", tc.header, seen)
			}
			if !tc.reuse {
				if _, err := uuid.Parse(seen); err != nil {
					t.Fatalf("expected generated uuid, got %q", seen)
				}
			}
		})
	}
}
