package dto

import "tech-blog/models"

type CategoryCountDTO struct {
	Slug  models.Category `json:"slug"`
	Name  string          `json:"name"`
	Icon  string          `json:"icon"`
	Count int64           `json:"count"`
}

type TagCountDTO struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// HomePageDTO 는 홈 화면 데이터다. 각 섹션은 독립적으로 실패하며 실패 시 비어 있다.
type HomePageDTO struct {
	Recent     []PostSummaryDTO   `json:"recent"`
	Featured   []PostSummaryDTO   `json:"featured"`
	Categories []CategoryCountDTO `json:"categories"`
}

type CategoryPageDTO struct {
	Category  CategoryCountDTO           `json:"category"`
	ActiveTag string                     `json:"active_tag,omitempty"`
	Posts     Pagination[PostSummaryDTO] `json:"posts"`
	Tags      []TagCountDTO              `json:"tags"`
}

// PostPageDTO is the data behind /blog/{slug}.
type PostPageDTO struct {
	Post    PostDetailDTO    `json:"post"`
	Related []PostSummaryDTO `json:"related"`
}
