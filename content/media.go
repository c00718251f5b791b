package content

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"tech-blog/models"
)

// placeholder 문법: {{MEDIA:<type>_<id>}}
// type 은 소문자만 허용하므로 id 에 '_' 가 들어가도 안전하게 분리된다.
var rePlaceholder = regexp.MustCompile(`\{\{MEDIA:([a-z]+)_([^}\s]+)\}\}`)

var (
	reYouTube = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)
	reVimeo   = regexp.MustCompile(`vimeo\.com/(\d+)`)
)

// Placeholder builds the inline token that references a media entry.
func Placeholder(t models.MediaType, id string) string {
	return fmt.Sprintf("{{MEDIA:%s_%s}}", t, id)
}

// ParsePlaceholder splits a token into media type and id.
func ParsePlaceholder(token string) (models.MediaType, string, bool) {
	m := rePlaceholder.FindStringSubmatch(token)
	if m == nil || m[0] != token {
		return "", "", false
	}
	return models.MediaType(m[1]), m[2], true
}

// NewMediaID returns a short random id for a media entry.
func NewMediaID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// RenderOptions controls placeholder substitution.
type RenderOptions struct {
	// StripOrphans removes tokens whose media entry is missing instead of leaving them literal.
	StripOrphans bool
}

// RenderMedia replaces every {{MEDIA:type_id}} token in body with the HTML fragment of
// the matching media entry. Tokens without a matching entry are left untouched unless
// opts.StripOrphans is set.
func RenderMedia(body string, media []models.Media, opts RenderOptions) string {
	if !strings.Contains(body, "{{MEDIA:") {
		return body
	}
	index := indexMedia(media)
	return rePlaceholder.ReplaceAllStringFunc(body, func(token string) string {
		t, id, _ := ParsePlaceholder(token)
		m, ok := index[mediaKey(t, id)]
		if !ok {
			if opts.StripOrphans {
				return ""
			}
			return token
		}
		return RenderFragment(m)
	})
}

// OrphanPlaceholders returns tokens in body that have no matching media entry.
func OrphanPlaceholders(body string, media []models.Media) []string {
	index := indexMedia(media)
	var orphans []string
	for _, m := range rePlaceholder.FindAllStringSubmatch(body, -1) {
		if _, ok := index[mediaKey(models.MediaType(m[1]), m[2])]; !ok {
			orphans = append(orphans, m[0])
		}
	}
	return orphans
}

func mediaKey(t models.MediaType, id string) string {
	return string(t) + "_" + id
}

func indexMedia(media []models.Media) map[string]models.Media {
	index := make(map[string]models.Media, len(media))
	for _, m := range media {
		if m.ID == "" {
			continue
		}
		index[mediaKey(m.Type, m.ID)] = m
	}
	return index
}

// RenderFragment returns the HTML fragment for a single media entry.
func RenderFragment(m models.Media) string {
	var b strings.Builder
	switch m.Type {
	case models.MediaImage:
		b.WriteString(`<figure class="post-media post-image">`)
		fmt.Fprintf(&b, `<img src="%s" alt="%s" loading="lazy"`, attr(m.URL), attr(m.Alt))
		if m.Width > 0 && m.Height > 0 {
			fmt.Fprintf(&b, ` width="%d" height="%d"`, m.Width, m.Height)
		}
		b.WriteString(`/>`)
		if m.Caption != "" {
			fmt.Fprintf(&b, `<figcaption>%s</figcaption>`, html.EscapeString(m.Caption))
		}
		b.WriteString(`</figure>`)
	case models.MediaVideo:
		b.WriteString(`<div class="post-media video-embed"><div class="aspect-video">`)
		fmt.Fprintf(&b, `<iframe src="%s" allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture" allowfullscreen frameborder="0"></iframe>`, attr(EmbedVideoURL(m.URL)))
		b.WriteString(`</div>`)
		if m.Caption != "" {
			fmt.Fprintf(&b, `<p class="caption">%s</p>`, html.EscapeString(m.Caption))
		}
		b.WriteString(`</div>`)
	case models.MediaGist:
		src := m.URL
		if !strings.HasSuffix(src, ".js") {
			src += ".js"
		}
		fmt.Fprintf(&b, `<div class="post-media gist-embed"><script src="%s"></script></div>`, attr(src))
	case models.MediaTweet:
		fmt.Fprintf(&b, `<blockquote class="post-media twitter-tweet"><a href="%s">%s</a></blockquote>`, attr(m.URL), html.EscapeString(m.URL))
	case models.MediaCode:
		code, _ := m.Metadata["code"].(string)
		lang, _ := m.Metadata["language"].(string)
		b.WriteString(`<pre class="post-media code-block"><code`)
		if lang != "" {
			fmt.Fprintf(&b, ` class="language-%s"`, attr(lang))
		}
		fmt.Fprintf(&b, `>%s</code></pre>`, html.EscapeString(code))
		if m.Caption != "" {
			fmt.Fprintf(&b, `<p class="caption">%s</p>`, html.EscapeString(m.Caption))
		}
	default:
		fmt.Fprintf(&b, `<div class="post-media embed"><iframe src="%s" frameborder="0" loading="lazy"></iframe></div>`, attr(m.URL))
	}
	return b.String()
}

// EmbedVideoURL rewrites YouTube and Vimeo links into their embeddable form.
// Any other URL is returned unchanged.
func EmbedVideoURL(url string) string {
	switch {
	case strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be"):
		if m := reYouTube.FindStringSubmatch(url); m != nil {
			return "https://www.youtube.com/embed/" + m[1]
		}
	case strings.Contains(url, "vimeo.com"):
		if m := reVimeo.FindStringSubmatch(url); m != nil {
			return "https://player.vimeo.com/video/" + m[1]
		}
	}
	return url
}

func attr(s string) string {
	return html.EscapeString(s)
}
