package dto

import (
	"time"

	"tech-blog/content"
	"tech-blog/models"
)

// PostSummaryDTO is the list representation of a post. Body fields are omitted.
type PostSummaryDTO struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Slug         string          `json:"slug"`
	Excerpt      string          `json:"excerpt"`
	Category     models.Category `json:"category"`
	CategoryName string          `json:"category_name"`
	Tags         []string        `json:"tags"`
	CoverImage   string          `json:"cover_image,omitempty"`
	Published    bool            `json:"published"`
	PublishedAt  *time.Time      `json:"published_at,omitempty"`
	ReadTime     int             `json:"read_time"`
	Views        int64           `json:"views"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PostDTO exposes every stored field of a post.
// ID is a hex string to keep transport simple.
type PostDTO struct {
	PostSummaryDTO
	Content        string         `json:"content"`
	RawContent     string         `json:"raw_content,omitempty"`
	ContentFormat  string         `json:"content_format,omitempty"`
	Media          []models.Media `json:"media"`
	LastViewed     *time.Time     `json:"last_viewed,omitempty"`
	SEOTitle       string         `json:"seo_title,omitempty"`
	SEODescription string         `json:"seo_description,omitempty"`
}

// PostDetailDTO adds the rendered body and its typed blocks.
type PostDetailDTO struct {
	PostDTO
	RenderedHTML string          `json:"rendered_html"`
	Blocks       []content.Block `json:"blocks"`
}

func NewPostSummaryDTO(p models.Post) PostSummaryDTO {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostSummaryDTO{
		ID:           p.ID.Hex(),
		Title:        p.Title,
		Slug:         p.Slug,
		Excerpt:      p.Excerpt,
		Category:     p.Category,
		CategoryName: p.Category.Name(),
		Tags:         tags,
		CoverImage:   p.CoverImage,
		Published:    p.Published,
		PublishedAt:  p.PublishedAt,
		ReadTime:     p.ReadTime,
		Views:        p.Views,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func NewPostDTO(p models.Post) PostDTO {
	media := p.Media
	if media == nil {
		media = []models.Media{}
	}
	return PostDTO{
		PostSummaryDTO: NewPostSummaryDTO(p),
		Content:        p.Content,
		RawContent:     p.RawContent,
		ContentFormat:  p.ContentFormat,
		Media:          media,
		LastViewed:     p.LastViewed,
		SEOTitle:       p.SEOTitle,
		SEODescription: p.SEODescription,
	}
}

func NewPostSummaryDTOs(posts []models.Post) []PostSummaryDTO {
	out := make([]PostSummaryDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostSummaryDTO(p))
	}
	return out
}

// CreatePostRequest is the body of POST /posts.
// tags 는 ["a","b"] 배열과 "a, b" 문자열 모두 받는다.
type CreatePostRequest struct {
	Title          string         `json:"title" example:"Designing a rate limiter"`
	Content        string         `json:"content"`
	RawContent     string         `json:"raw_content"`
	ContentFormat  string         `json:"content_format" example:"html"`
	Media          []models.Media `json:"media"`
	Excerpt        string         `json:"excerpt"`
	Category       string         `json:"category" example:"system-design"`
	Tags           TagList        `json:"tags" swaggertype:"array,string"`
	CoverImage     string         `json:"cover_image"`
	Published      bool           `json:"published"`
	SEOTitle       string         `json:"seo_title"`
	SEODescription string         `json:"seo_description"`
	ExtractMedia   bool           `json:"extract_media"`
}

// UpdatePostRequest is the body of PUT /posts/{id}. Nil fields are left untouched.
type UpdatePostRequest struct {
	Title          *string         `json:"title"`
	Content        *string         `json:"content"`
	RawContent     *string         `json:"raw_content"`
	ContentFormat  *string         `json:"content_format"`
	Media          *[]models.Media `json:"media"`
	Excerpt        *string         `json:"excerpt"`
	Category       *string         `json:"category"`
	Tags           *TagList        `json:"tags" swaggertype:"array,string"`
	CoverImage     *string         `json:"cover_image"`
	Published      *bool           `json:"published"`
	PublishedAt    *time.Time      `json:"published_at"`
	SEOTitle       *string         `json:"seo_title"`
	SEODescription *string         `json:"seo_description"`
	ExtractMedia   bool            `json:"extract_media"`
}

// DeletePostResponseDTO describes the removed post.
type DeletePostResponseDTO struct {
	Message string `json:"message" example:"post deleted"`
	ID      string `json:"id"`
	Title   string `json:"title"`
	Slug    string `json:"slug"`
}

// ViewResponseDTO is returned by the view ping.
// Counted is false when the same browser session already counted this post.
type ViewResponseDTO struct {
	Success bool   `json:"success"`
	Views   int64  `json:"views"`
	BlogID  string `json:"blog_id"`
	Counted bool   `json:"counted"`
}

// ViewsDTO is returned by the view poll.
type ViewsDTO struct {
	Views  int64  `json:"views"`
	BlogID string `json:"blog_id"`
	Title  string `json:"title"`
}
