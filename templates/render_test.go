package templates

import (
	"net/http/httptest"
	"testing"

	"goblog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllPagesParse(t *testing.T) {
	_, err := NewRenderer()
	require.NoError(t, err)
}

func TestRenderEscapesUntrustedFields(t *testing.T) {
	rd, err := NewRenderer()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	err = rd.Render(rr, 200, "index", map[string]any{
		"CurrentUser": (*models.User)(nil),
		"Flashes":     []string{"<script>alert(1)</script>"},
		"Posts":       []models.Post{},
	})
	require.NoError(t, err)
	assert.NotContains(t, rr.Body.String(), "<script>alert(1)</script>")
	assert.Contains(t, rr.Body.String(), "&lt;script&gt;")
}

func TestGravatar(t *testing.T) {
	// Hash of the canonical gravatar documentation address.
	url := Gravatar(" MyEmailAddress@example.com ")
	assert.Contains(t, url, "0bc83cb571cd1c50ba6f3e8a78ef1346")
}
