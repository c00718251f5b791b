package content

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"tech-blog/models"
)

var reEmbedURL = regexp.MustCompile(`https?://[^\s<"]+`)

// ExtractMedia rewrites editor HTML into a placeholder body.
//
//   - <img data-media-id="X" src="..."> becomes {{MEDIA:image_X}} (data: URIs are left inline)
//   - <div data-media-placeholder="{{MEDIA:video_Y}}">...</div> becomes the placeholder itself,
//     the first http(s) URL inside the div is used as the media URL.
//
// 반환되는 media 목록은 본문 등장 순서를 따른다.
func ExtractMedia(body string) (string, []models.Media) {
	z := html.NewTokenizer(strings.NewReader(body))
	var out strings.Builder
	var media []models.Media
	seen := map[string]bool{}

	add := func(m models.Media) {
		key := mediaKey(m.Type, m.ID)
		if seen[key] {
			return
		}
		seen[key] = true
		m.Position = len(media)
		media = append(media, m)
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return out.String(), media
		}
		raw := string(z.Raw())

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			out.WriteString(raw)
			continue
		}

		name, hasAttr := z.TagName()
		tag := string(name)
		attrs := map[string]string{}
		for hasAttr {
			var k, v []byte
			k, v, hasAttr = z.TagAttr()
			attrs[string(k)] = string(v)
		}

		switch {
		case tag == "img" && attrs["data-media-id"] != "":
			src := attrs["src"]
			if src == "" || strings.HasPrefix(src, "data:") {
				out.WriteString(raw)
				continue
			}
			m := models.Media{
				ID:      attrs["data-media-id"],
				Type:    models.MediaImage,
				URL:     src,
				Alt:     attrs["alt"],
				Caption: attrs["data-caption"],
			}
			add(m)
			out.WriteString(Placeholder(m.Type, m.ID))

		case tag == "div" && attrs["data-media-placeholder"] != "" && tt == html.StartTagToken:
			t, id, ok := ParsePlaceholder(attrs["data-media-placeholder"])
			if !ok {
				out.WriteString(raw)
				continue
			}
			text := skipElement(z, "div")
			m := models.Media{ID: id, Type: t, URL: attrs["data-media-url"]}
			if m.URL == "" {
				m.URL = reEmbedURL.FindString(text)
			}
			add(m)
			out.WriteString(Placeholder(t, id))

		default:
			out.WriteString(raw)
		}
	}
}

// skipElement consumes tokens up to the end tag closing the already opened element
// and returns the text seen inside it.
func skipElement(z *html.Tokenizer, tag string) string {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		switch z.Next() {
		case html.ErrorToken:
			return text.String()
		case html.TextToken:
			text.Write(z.Text())
			text.WriteByte(' ')
		case html.StartTagToken:
			if name, _ := z.TagName(); string(name) == tag {
				depth++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == tag {
				depth--
			}
		}
	}
	return text.String()
}

// NormalizeMedia fills defaults on author supplied media: type image, a generated id
// and position equal to the index when it was left at zero.
func NormalizeMedia(media []models.Media) []models.Media {
	out := make([]models.Media, 0, len(media))
	for i, m := range media {
		if m.Type == "" {
			m.Type = models.MediaImage
		}
		if m.ID == "" {
			m.ID = NewMediaID()
		}
		if m.Position == 0 {
			m.Position = i
		}
		out = append(out, m)
	}
	return out
}

// MergeMedia appends extracted entries that are not already present in base.
// 같은 type/id 가 이미 있으면 작성자가 넘긴 값을 우선한다.
func MergeMedia(base, extracted []models.Media) []models.Media {
	index := indexMedia(base)
	out := append([]models.Media{}, base...)
	for _, m := range extracted {
		if _, ok := index[mediaKey(m.Type, m.ID)]; ok {
			continue
		}
		m.Position = len(out)
		out = append(out, m)
	}
	return out
}
