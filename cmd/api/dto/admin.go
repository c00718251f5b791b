package dto

import "time"

type LoginRequestDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponseDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminStatsDTO is the dashboard header of the admin panel.
type AdminStatsDTO struct {
	TotalPosts     int64            `json:"total_posts"`
	PublishedPosts int64            `json:"published_posts"`
	DraftPosts     int64            `json:"draft_posts"`
	TotalViews     int64            `json:"total_views"`
	RecentPosts    []PostSummaryDTO `json:"recent_posts"`
}
