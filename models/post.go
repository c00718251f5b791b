package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Content formats accepted by the editor.
const (
	ContentFormatHTML     = "html"
	ContentFormatMarkdown = "markdown"
)

// Post represents a blog article document
// Collection: posts
//
//	content 은 {{MEDIA:<type>_<id>}} 플레이스홀더를 포함한 HTML 이고,
//	실제 미디어 메타데이터는 Media 배열에 따로 저장된다.
type Post struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
	Title          string             `bson:"title" json:"title"`
	Slug           string             `bson:"slug" json:"slug"`
	Content        string             `bson:"content" json:"content"`
	RawContent     string             `bson:"raw_content,omitempty" json:"raw_content,omitempty"`
	ContentFormat  string             `bson:"content_format,omitempty" json:"content_format,omitempty"`
	Media          []Media            `bson:"media" json:"media"`
	Excerpt        string             `bson:"excerpt" json:"excerpt"`
	Category       Category           `bson:"category" json:"category"`
	Tags           []string           `bson:"tags" json:"tags"`
	CoverImage     string             `bson:"cover_image" json:"cover_image"`
	Published      bool               `bson:"published" json:"published"`
	PublishedAt    *time.Time         `bson:"published_at,omitempty" json:"published_at,omitempty"`
	ReadTime       int                `bson:"read_time" json:"read_time"`
	Views          int64              `bson:"views" json:"views"`
	LastViewed     *time.Time         `bson:"last_viewed,omitempty" json:"last_viewed,omitempty"`
	SEOTitle       string             `bson:"seo_title,omitempty" json:"seo_title,omitempty"`
	SEODescription string             `bson:"seo_description,omitempty" json:"seo_description,omitempty"`
}

// Media is a single media reference of a post.
// Stored under posts.media; the body points at it through a placeholder token.
type Media struct {
	ID       string         `bson:"id" json:"id"`
	Type     MediaType      `bson:"type" json:"type"`
	URL      string         `bson:"url" json:"url"`
	Alt      string         `bson:"alt,omitempty" json:"alt,omitempty"`
	Caption  string         `bson:"caption,omitempty" json:"caption,omitempty"`
	Width    int            `bson:"width,omitempty" json:"width,omitempty"`
	Height   int            `bson:"height,omitempty" json:"height,omitempty"`
	Position int            `bson:"position" json:"position"`
	Metadata map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaCode  MediaType = "code"
	MediaGist  MediaType = "gist"
	MediaTweet MediaType = "tweet"
	MediaEmbed MediaType = "embed"
)

// Valid reports whether t is one of the known media types.
func (t MediaType) Valid() bool {
	switch t {
	case MediaImage, MediaVideo, MediaCode, MediaGist, MediaTweet, MediaEmbed:
		return true
	}
	return false
}
