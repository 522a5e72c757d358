package templates

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDescriptor = `{
  "id": "sample",
  "name": "Sample",
  "layout": "classic",
  "typography": {"fontFamily": "Georgia, serif", "baseSize": 11, "headingSize": 14},
  "spacing": {"section": 16, "lineHeight": 1.4},
  "colors": {"primary": "#111111", "text": "#222222", "accent": "#333333", "background": "#ffffff"},
  "icons": {"sections": true, "bullets": "dash"}
}`

func TestDefaultCatalogIsValid(t *testing.T) {
	items, err := DefaultDescriptors()
	require.NoError(t, err)
	require.NotEmpty(t, items)

	layouts := map[Layout]bool{}
	for _, d := range items {
		layouts[d.Layout] = true
	}
	for _, l := range []Layout{LayoutClassic, LayoutModern, LayoutMinimal, LayoutExecutive} {
		assert.True(t, layouts[l], "catalog misses layout %s", l)
	}
}

func TestParseValidDescriptor(t *testing.T) {
	d, err := Parse([]byte(validDescriptor))
	require.NoError(t, err)
	assert.Equal(t, "sample", d.ID)
	assert.Equal(t, BulletDash, d.Icons.Bullets)
	assert.True(t, d.Icons.Sections)
}

func TestParseRejectsUnknownVariants(t *testing.T) {
	cases := []struct {
		name, from, to string
	}{
		{"bullet", `"bullets": "dash"`, `"bullets": "star"`},
		{"layout", `"layout": "classic"`, `"layout": "timeline"`},
		{"color", `"primary": "#111111"`, `"primary": "red"`},
		{"missing name", `"name": "Sample",`, ``},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := strings.Replace(validDescriptor, tc.from, tc.to, 1)
			require.NotEqual(t, validDescriptor, raw)
			_, err := Parse([]byte(raw))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDescriptor))

			var de *DescriptorError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, "sample", de.ID)
			assert.NotEmpty(t, de.Errors)
		})
	}
}

func TestParseCatalogRejectsDuplicates(t *testing.T) {
	_, err := ParseCatalog([]byte("[" + validDescriptor + "," + validDescriptor + "]"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDescriptor)
	assert.Contains(t, err.Error(), "duplicate")
}
