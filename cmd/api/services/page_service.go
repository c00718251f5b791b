package services

import (
	"context"

	"tech-blog/cmd/api/dto"
	"tech-blog/internal/logger"
	"tech-blog/models"
	"tech-blog/repositories"
)

const (
	homeRecentPosts = 6
	relatedPosts    = 3
	categoryTopTags = 20
)

// PageService assembles the data behind the server-rendered pages.
// 섹션별 조회 실패는 로그만 남기고 빈 섹션으로 대체한다.
type PageService struct {
	posts *PostService
	store PostStore
	// categoryPageSize 는 카테고리 페이지의 페이지 크기다.
	categoryPageSize int
}

func NewPageService(posts *PostService, store PostStore, categoryPageSize int) *PageService {
	if categoryPageSize <= 0 {
		categoryPageSize = 12
	}
	return &PageService{posts: posts, store: store, categoryPageSize: categoryPageSize}
}

func (s *PageService) Home(ctx context.Context) dto.HomePageDTO {
	out := dto.HomePageDTO{
		Recent:   []dto.PostSummaryDTO{},
		Featured: []dto.PostSummaryDTO{},
	}

	recent, err := s.posts.List(ctx, ListPostsInput{Page: 1, PageSize: homeRecentPosts})
	if err != nil {
		logger.WarnWithFields("home: recent posts unavailable", logger.Fields{"error": err.Error()})
	} else {
		out.Recent = recent.Data
	}

	featured, err := s.store.MostViewedPerCategory(ctx)
	if err != nil {
		logger.WarnWithFields("home: featured posts unavailable", logger.Fields{"error": err.Error()})
	} else {
		out.Featured = dto.NewPostSummaryDTOs(featured)
	}

	categories, err := s.posts.Categories(ctx)
	if err != nil {
		logger.WarnWithFields("home: category counts unavailable", logger.Fields{"error": err.Error()})
	}
	out.Categories = categories
	return out
}

// CategoryPage returns ErrNotFound for unknown categories.
func (s *PageService) CategoryPage(ctx context.Context, category, tag string, page int) (dto.CategoryPageDTO, error) {
	info, ok := models.LookupCategory(category)
	if !ok {
		return dto.CategoryPageDTO{}, ErrNotFound
	}
	if page <= 0 {
		page = 1
	}

	out := dto.CategoryPageDTO{
		Category:  dto.CategoryCountDTO{Slug: info.Slug, Name: info.Name, Icon: info.Icon},
		ActiveTag: tag,
		Posts:     dto.NewPagination([]dto.PostSummaryDTO{}, page, s.categoryPageSize, 0),
		Tags:      []dto.TagCountDTO{},
	}

	posts, err := s.posts.List(ctx, ListPostsInput{
		Page:     page,
		PageSize: s.categoryPageSize,
		Category: category,
		Tag:      tag,
		Sort:     string(repositories.SortNewest),
	})
	if err != nil {
		logger.WarnWithFields("category page: posts unavailable", logger.Fields{"category": category, "error": err.Error()})
	} else {
		out.Posts = posts
		out.Category.Count = posts.Total
	}

	tags, err := s.posts.Tags(ctx, category, categoryTopTags)
	if err != nil {
		logger.WarnWithFields("category page: tags unavailable", logger.Fields{"category": category, "error": err.Error()})
	} else {
		out.Tags = tags
	}
	return out, nil
}

// PostPage returns a published post and related posts from the same category.
// 조회수는 alreadyViewed 가 false 를 반환할 때만 올린다.
func (s *PageService) PostPage(ctx context.Context, slug string, alreadyViewed func(postID string) bool) (dto.PostPageDTO, error) {
	post, err := s.posts.Get(ctx, slug, GetPostOptions{CountView: true, AlreadyViewed: alreadyViewed})
	if err != nil {
		return dto.PostPageDTO{}, err
	}
	return dto.PostPageDTO{
		Post:    *post,
		Related: s.posts.Related(ctx, post.PostDTO, relatedPosts),
	}, nil
}
