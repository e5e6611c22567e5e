package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderKnownTemplates(t *testing.T) {
	for _, name := range []string{Welcome, ReportReceived, ListingUnlisted} {
		t.Run(name, func(t *testing.T) {
			html, err := Render(name, map[string]any{
				"FullName":     "Anil KC",
				"ListingTitle": "Sunny room in Patan",
				"Reason":       "scam",
				"Note":         "reported by multiple users",
			})
			require.NoError(t, err)
			assert.Contains(t, html, "Anil KC")
		})
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render("nope", nil)
	assert.Error(t, err)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "Welcome to GharBhada", Subject(Welcome))
	assert.Equal(t, "Notification", Subject("nope"))
}

func TestRenderEscapesHTML(t *testing.T) {
	html, err := Render(Welcome, map[string]any{"FullName": "<script>alert(1)</script>"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}
