package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tech-blog/models"
)

func TestRenderMediaSubstitutesImage(t *testing.T) {
	body := "<p>Hi {{MEDIA:image_1}}</p>"
	media := []models.Media{{ID: "1", Type: models.MediaImage, URL: "u"}}

	out := RenderMedia(body, media, RenderOptions{})

	assert.NotContains(t, out, "{{MEDIA:")
	assert.Contains(t, out, "<figure")
	assert.Contains(t, out, `<img src="u"`)
	assert.True(t, strings.HasPrefix(out, "<p>Hi <figure"))
	assert.True(t, strings.HasSuffix(out, "</figure></p>"))
}

func TestRenderMediaOrphans(t *testing.T) {
	body := "<p>{{MEDIA:image_1}} and {{MEDIA:image_2}}</p>"
	media := []models.Media{{ID: "1", Type: models.MediaImage, URL: "u"}}

	kept := RenderMedia(body, media, RenderOptions{})
	assert.Contains(t, kept, "{{MEDIA:image_2}}")
	assert.NotContains(t, kept, "{{MEDIA:image_1}}")

	stripped := RenderMedia(body, media, RenderOptions{StripOrphans: true})
	assert.NotContains(t, stripped, "{{MEDIA:")
	assert.Contains(t, stripped, " and </p>")

	assert.Equal(t, []string{"{{MEDIA:image_2}}"}, OrphanPlaceholders(body, media))
}

func TestRenderMediaTypeMustMatch(t *testing.T) {
	body := "{{MEDIA:video_1}}"
	media := []models.Media{{ID: "1", Type: models.MediaImage, URL: "u"}}

	assert.Equal(t, body, RenderMedia(body, media, RenderOptions{}))
}

func TestRenderFragmentEscapesAttributes(t *testing.T) {
	out := RenderFragment(models.Media{
		Type:    models.MediaImage,
		URL:     `x" onerror="alert(1)`,
		Alt:     "<b>",
		Caption: "<script>alert(1)</script>",
	})

	assert.NotContains(t, out, `onerror="alert`)
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, `alt="&lt;b&gt;"`)
}

func TestRenderFragmentPerType(t *testing.T) {
	testCases := []struct {
		name  string
		media models.Media
		want  []string
	}{
		{
			name:  "image with caption and size",
			media: models.Media{Type: models.MediaImage, URL: "/uploads/a.jpg", Caption: "cap", Width: 800, Height: 600},
			want:  []string{`<figure`, `width="800" height="600"`, `<figcaption>cap</figcaption>`, `loading="lazy"`},
		},
		{
			name:  "youtube video",
			media: models.Media{Type: models.MediaVideo, URL: "https://youtu.be/dQw4w9WgXcQ"},
			want:  []string{`<iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ"`, "allowfullscreen"},
		},
		{
			name:  "gist",
			media: models.Media{Type: models.MediaGist, URL: "https://gist.github.com/u/abc"},
			want:  []string{`<script src="https://gist.github.com/u/abc.js"></script>`},
		},
		{
			name:  "tweet",
			media: models.Media{Type: models.MediaTweet, URL: "https://twitter.com/u/status/1"},
			want:  []string{`<blockquote class="post-media twitter-tweet">`, `href="https://twitter.com/u/status/1"`},
		},
		{
			name: "code",
			media: models.Media{Type: models.MediaCode, Metadata: map[string]any{
				"code":     "if a < b { return }",
				"language": "go",
			}},
			want: []string{`<code class="language-go">`, "if a &lt; b { return }"},
		},
		{
			name:  "embed",
			media: models.Media{Type: models.MediaEmbed, URL: "https://codepen.io/x"},
			want:  []string{`<iframe src="https://codepen.io/x"`},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			out := RenderFragment(testCase.media)
			for _, w := range testCase.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestEmbedVideoURL(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{in: "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ", want: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{in: "https://youtu.be/dQw4w9WgXcQ", want: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{in: "https://www.youtube.com/embed/dQw4w9WgXcQ", want: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{in: "https://www.youtube.com/v/dQw4w9WgXcQ", want: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{in: "https://vimeo.com/123456", want: "https://player.vimeo.com/video/123456"},
		{in: "https://vimeo.com/channels/staff", want: "https://vimeo.com/channels/staff"},
		{in: "https://example.com/clip.mp4", want: "https://example.com/clip.mp4"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.in, func(t *testing.T) {
			assert.Equal(t, testCase.want, EmbedVideoURL(testCase.in))
		})
	}
}

func TestParsePlaceholder(t *testing.T) {
	typ, id, ok := ParsePlaceholder("{{MEDIA:image_abc_1}}")
	require.True(t, ok)
	assert.Equal(t, models.MediaImage, typ)
	assert.Equal(t, "abc_1", id)

	for _, bad := range []string{"{{MEDIA:Image_1}}", "{{MEDIA:image_}}", "MEDIA:image_1", "x{{MEDIA:image_1}}"} {
		_, _, ok := ParsePlaceholder(bad)
		assert.False(t, ok, bad)
	}

	assert.Equal(t, "{{MEDIA:video_v1}}", Placeholder(models.MediaVideo, "v1"))
}

func TestNewMediaID(t *testing.T) {
	a, b := NewMediaID(), NewMediaID()
	assert.Len(t, a, 12)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
}
