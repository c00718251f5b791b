package content

import (
	"strings"

	"tech-blog/models"
)

// BlockText marks a run of HTML between media references.
// Media blocks reuse the media type as their block type.
const BlockText = "text"

// Block is one typed piece of a post body.
type Block struct {
	Type  string        `json:"type"`
	HTML  string        `json:"html,omitempty"`
	Media *models.Media `json:"media,omitempty"`
}

// BlocksFromBody splits a placeholder body into text and media blocks.
// A placeholder without a matching media entry cannot form a block and is dropped.
func BlocksFromBody(body string, media []models.Media) []Block {
	index := indexMedia(media)
	var blocks []Block

	appendText := func(s string) {
		if s == "" {
			return
		}
		if n := len(blocks); n > 0 && blocks[n-1].Type == BlockText {
			blocks[n-1].HTML += s
			return
		}
		blocks = append(blocks, Block{Type: BlockText, HTML: s})
	}

	last := 0
	for _, loc := range rePlaceholder.FindAllStringSubmatchIndex(body, -1) {
		appendText(body[last:loc[0]])
		last = loc[1]

		t := models.MediaType(body[loc[2]:loc[3]])
		id := body[loc[4]:loc[5]]
		m, ok := index[mediaKey(t, id)]
		if !ok {
			continue
		}
		blocks = append(blocks, Block{Type: string(m.Type), Media: &m})
	}
	appendText(body[last:])
	return blocks
}

// RenderBlocks renders blocks back into a single HTML document.
func RenderBlocks(blocks []Block) string {
	var b strings.Builder
	for _, blk := range blocks {
		if blk.Type == BlockText || blk.Media == nil {
			b.WriteString(blk.HTML)
			continue
		}
		b.WriteString(RenderFragment(*blk.Media))
	}
	return b.String()
}
