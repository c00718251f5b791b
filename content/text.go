package content

import (
	"math"
	"strings"

	"golang.org/x/net/html"
)

const (
	DefaultWordsPerMinute = 200
	DefaultExcerptLength  = 150
	ellipsis              = "..."
)

// block-level elements get a separating space so adjacent paragraphs don't merge words.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "figure": true, "figcaption": true,
	"section": true, "article": true, "table": true, "tr": true, "td": true,
	"th": true, "hr": true,
}

// PlainText strips tags from an HTML fragment, decodes entities and collapses whitespace.
// script/style 내용은 버린다.
func PlainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skip := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF 외의 오류도 지금까지 모은 텍스트를 돌려준다.
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if (tag == "script" || tag == "style") && tt == html.StartTagToken {
				skip++
			}
			if blockElements[tag] {
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if (tag == "script" || tag == "style") && skip > 0 {
				skip--
			}
			if blockElements[tag] {
				b.WriteByte(' ')
			}
		}
	}
}

// WordCount counts whitespace separated words of the tag-stripped text.
func WordCount(fragment string) int {
	return len(strings.Fields(PlainText(fragment)))
}

// ReadTime returns ceil(words / wordsPerMinute), never less than 1.
func ReadTime(fragment string, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	words := WordCount(fragment)
	minutes := int(math.Ceil(float64(words) / float64(wordsPerMinute)))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Excerpt takes the first length characters of the plain text and appends an ellipsis.
func Excerpt(fragment string, length int) string {
	if length <= 0 {
		length = DefaultExcerptLength
	}
	text := PlainText(fragment)
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) > length {
		runes = runes[:length]
	}
	return strings.TrimRight(string(runes), " ") + ellipsis
}
