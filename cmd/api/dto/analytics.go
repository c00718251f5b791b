package dto

import (
	"time"

	"tech-blog/models"
)

// AnalyticsSummaryDTO is the response of GET /analytics/summary.
type AnalyticsSummaryDTO struct {
	Summary       SummaryCountersDTO `json:"summary"`
	MostViewed    *PostStatDTO       `json:"most_viewed"`
	CategoryStats []CategoryStatDTO  `json:"category_stats"`
	LastUpdated   time.Time          `json:"last_updated"`
}

type SummaryCountersDTO struct {
	TotalPosts      int64 `json:"total_posts"`
	PublishedPosts  int64 `json:"published_posts"`
	TotalViews      int64 `json:"total_views"`
	TotalReadTime   int64 `json:"total_read_time"`
	AvgViewsPerPost int64 `json:"avg_views_per_post"`
	EngagementRate  int64 `json:"engagement_rate"`
	PostsWithViews  int64 `json:"posts_with_views"`
}

type PostStatDTO struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Slug       string          `json:"slug"`
	Views      int64           `json:"views"`
	Category   models.Category `json:"category"`
	LastViewed *time.Time      `json:"last_viewed,omitempty"`
}

type CategoryStatDTO struct {
	Category   models.Category `json:"category"`
	Name       string          `json:"name"`
	PostCount  int64           `json:"post_count"`
	TotalViews int64           `json:"total_views"`
	AvgViews   int64           `json:"avg_views"`
}

// AnalyticsViewsDTO is the response of GET /analytics/views.
type AnalyticsViewsDTO struct {
	TotalViews        int64                `json:"total_views"`
	MostViewed        []PostStatDTO        `json:"most_viewed"`
	ViewsByCategory   []CategoryStatDTO    `json:"views_by_category"`
	RecentActivity    []PostStatDTO        `json:"recent_activity"`
	RecentPerformance RecentPerformanceDTO `json:"recent_performance"`
	MonthlyStats      []MonthlyStatDTO     `json:"monthly_stats"`
}

// RecentPerformanceDTO sums views of posts last viewed inside each window.
type RecentPerformanceDTO struct {
	Last7Days  int64 `json:"last_7_days"`
	Last30Days int64 `json:"last_30_days"`
	Last90Days int64 `json:"last_90_days"`
}

type MonthlyStatDTO struct {
	Month string `json:"month" example:"2024-05"`
	Label string `json:"label" example:"May 2024"`
	Posts int64  `json:"posts"`
	Views int64  `json:"views"`
}

func NewPostStatDTO(p models.Post) PostStatDTO {
	return PostStatDTO{
		ID:         p.ID.Hex(),
		Title:      p.Title,
		Slug:       p.Slug,
		Views:      p.Views,
		Category:   p.Category,
		LastViewed: p.LastViewed,
	}
}

func NewPostStatDTOs(posts []models.Post) []PostStatDTO {
	out := make([]PostStatDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostStatDTO(p))
	}
	return out
}
