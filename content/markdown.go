package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// MarkdownToHTML converts a Markdown source into HTML while keeping media placeholders intact.
// 플레이스홀더의 '_' 가 강조 문법으로 해석되지 않도록 변환 전에 영숫자 마커로 바꿔 둔다.
func MarkdownToHTML(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}

	var tokens []string
	protected := rePlaceholder.ReplaceAllStringFunc(src, func(token string) string {
		tokens = append(tokens, token)
		return marker(len(tokens) - 1)
	})

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(protected), &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	out := buf.String()
	for i := len(tokens) - 1; i >= 0; i-- {
		out = strings.ReplaceAll(out, marker(i), tokens[i])
	}
	return out, nil
}

func marker(i int) string {
	return fmt.Sprintf("MEDIAPLACEHOLDER%dX", i)
}
