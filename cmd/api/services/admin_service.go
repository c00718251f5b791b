package services

import (
	"context"

	"tech-blog/cmd/api/dto"
	"tech-blog/repositories"
)

const adminRecentPosts = 5

// AdminService encapsulates business logic for the admin panel.
type AdminService struct {
	posts     PostStore
	analytics AnalyticsStore
}

func NewAdminService(posts PostStore, analytics AnalyticsStore) *AdminService {
	return &AdminService{posts: posts, analytics: analytics}
}

type AdminListPostsInput struct {
	Page      int
	PageSize  int
	Category  string
	Published *bool
}

// ListPosts returns every post including drafts, newest created first.
func (s *AdminService) ListPosts(ctx context.Context, in AdminListPostsInput) (dto.Pagination[dto.PostSummaryDTO], error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.PageSize <= 0 || in.PageSize > maxPageSize {
		in.PageSize = 20
	}
	items, total, err := s.posts.List(ctx, repositories.ListPostsOptions{
		Page:      in.Page,
		PageSize:  in.PageSize,
		Category:  in.Category,
		Published: in.Published,
		Sort:      repositories.SortCreated,
	})
	if err != nil {
		return dto.Pagination[dto.PostSummaryDTO]{}, err
	}
	return dto.NewPagination(dto.NewPostSummaryDTOs(items), in.Page, in.PageSize, total), nil
}

// Stats returns dashboard counters and the most recently created posts.
func (s *AdminService) Stats(ctx context.Context) (dto.AdminStatsDTO, error) {
	totals, err := s.analytics.Totals(ctx)
	if err != nil {
		return dto.AdminStatsDTO{RecentPosts: []dto.PostSummaryDTO{}}, err
	}
	recent, _, err := s.posts.List(ctx, repositories.ListPostsOptions{
		Page:     1,
		PageSize: adminRecentPosts,
		Sort:     repositories.SortCreated,
	})
	if err != nil {
		return dto.AdminStatsDTO{RecentPosts: []dto.PostSummaryDTO{}}, err
	}
	return dto.AdminStatsDTO{
		TotalPosts:     totals.TotalPosts,
		PublishedPosts: totals.PublishedPosts,
		DraftPosts:     totals.TotalPosts - totals.PublishedPosts,
		TotalViews:     totals.TotalViews,
		RecentPosts:    dto.NewPostSummaryDTOs(recent),
	}, nil
}
