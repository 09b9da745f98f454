package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_FormatsMarkdown(t *testing.T) {
	out, err := NewRenderer().Render("Printer on **floor 3** is jammed")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<strong>floor 3</strong>")
}

func TestRender_StripsScripts(t *testing.T) {
	out, err := NewRenderer().Render("hello <script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>")
	assert.Contains(t, string(out), "hello")
}

func TestRender_Empty(t *testing.T) {
	out, err := NewRenderer().Render("")
	require.NoError(t, err)
	assert.Empty(t, out)
}
