package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tech-blog/models"
)

func TestExtractMedia(t *testing.T) {
	body := `<p>a</p>` +
		`<img src="/uploads/x.jpg" data-media-id="m1" alt="pic">` +
		`<img src="data:image/png;base64,xx" data-media-id="m2">` +
		`<div class="video-embed" data-media-placeholder="{{MEDIA:video_v1}}"><div><p>Video: https://youtu.be/dQw4w9WgXcQ</p></div></div>` +
		`<p>b</p>`

	out, media := ExtractMedia(body)

	assert.Equal(t, `<p>a</p>{{MEDIA:image_m1}}<img src="data:image/png;base64,xx" data-media-id="m2">{{MEDIA:video_v1}}<p>b</p>`, out)
	require.Len(t, media, 2)

	assert.Equal(t, models.Media{ID: "m1", Type: models.MediaImage, URL: "/uploads/x.jpg", Alt: "pic", Position: 0}, media[0])
	assert.Equal(t, "v1", media[1].ID)
	assert.Equal(t, models.MediaVideo, media[1].Type)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", media[1].URL)
	assert.Equal(t, 1, media[1].Position)
}

func TestExtractMediaLeavesPlainImages(t *testing.T) {
	body := `<p><img src="/a.png" alt="no id"></p>`
	out, media := ExtractMedia(body)

	assert.Equal(t, body, out)
	assert.Empty(t, media)
}

func TestNormalizeMedia(t *testing.T) {
	media := NormalizeMedia([]models.Media{
		{URL: "/a.jpg"},
		{ID: "v", Type: models.MediaVideo, URL: "https://vimeo.com/1"},
		{ID: "c", Type: models.MediaCode, Position: 7},
	})

	require.Len(t, media, 3)
	assert.Equal(t, models.MediaImage, media[0].Type)
	assert.NotEmpty(t, media[0].ID)
	assert.Equal(t, 1, media[1].Position)
	assert.Equal(t, 7, media[2].Position)
}

func TestMergeMediaKeepsAuthorEntries(t *testing.T) {
	base := []models.Media{{ID: "m1", Type: models.MediaImage, URL: "/a.jpg", Caption: "author"}}
	extracted := []models.Media{
		{ID: "m1", Type: models.MediaImage, URL: "/other.jpg"},
		{ID: "v1", Type: models.MediaVideo, URL: "https://vimeo.com/1"},
	}

	merged := MergeMedia(base, extracted)

	require.Len(t, merged, 2)
	assert.Equal(t, "author", merged[0].Caption)
	assert.Equal(t, "v1", merged[1].ID)
	assert.Equal(t, 1, merged[1].Position)
}
