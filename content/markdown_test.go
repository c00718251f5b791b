package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownToHTMLKeepsPlaceholders(t *testing.T) {
	out, err := MarkdownToHTML("# Title\n\nHello **world** {{MEDIA:image_a_b_c}}\n\n- one\n- two\n")
	require.NoError(t, err)

	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<strong>world</strong>")
	assert.Contains(t, out, "{{MEDIA:image_a_b_c}}")
	assert.Contains(t, out, "<li>one</li>")
	assert.NotContains(t, out, "<em>")
}

func TestMarkdownToHTMLEmpty(t *testing.T) {
	out, err := MarkdownToHTML("  \n")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestMarkdownToHTMLAllowsRawHTML(t *testing.T) {
	out, err := MarkdownToHTML("<div class=\"note\">raw</div>\n")
	require.NoError(t, err)
	assert.Contains(t, out, `<div class="note">raw</div>`)
}
