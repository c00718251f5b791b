package services

import (
	"context"
	"math"
	"time"

	"tech-blog/cmd/api/dto"
	"tech-blog/repositories"
)

const (
	mostViewedLimit     = 10
	recentActivityLimit = 20
	monthlyStatsMonths  = 12
)

// AnalyticsService builds the public analytics payloads.
type AnalyticsService struct {
	store AnalyticsStore
	now   func() time.Time
}

func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Summary returns the headline counters, the single most viewed post and per-category stats.
func (s *AnalyticsService) Summary(ctx context.Context) (dto.AnalyticsSummaryDTO, error) {
	out := EmptyAnalyticsSummary(s.now())

	totals, err := s.store.Totals(ctx)
	if err != nil {
		return out, err
	}
	out.Summary = dto.SummaryCountersDTO{
		TotalPosts:      totals.TotalPosts,
		PublishedPosts:  totals.PublishedPosts,
		TotalViews:      totals.TotalViews,
		TotalReadTime:   totals.TotalReadTime,
		AvgViewsPerPost: ratio(totals.TotalViews, totals.PublishedPosts, 1),
		EngagementRate:  ratio(totals.PostsWithViews, totals.PublishedPosts, 100),
		PostsWithViews:  totals.PostsWithViews,
	}

	top, err := s.store.MostViewed(ctx, 1)
	if err != nil {
		return out, err
	}
	if len(top) > 0 {
		stat := dto.NewPostStatDTO(top[0])
		out.MostViewed = &stat
	}

	byCategory, err := s.store.ViewsByCategory(ctx)
	if err != nil {
		return out, err
	}
	out.CategoryStats = categoryStats(byCategory)
	return out, nil
}

// Views returns the detailed view breakdown.
func (s *AnalyticsService) Views(ctx context.Context) (dto.AnalyticsViewsDTO, error) {
	now := s.now()
	out := EmptyAnalyticsViews(now)

	byCategory, err := s.store.ViewsByCategory(ctx)
	if err != nil {
		return out, err
	}
	out.ViewsByCategory = categoryStats(byCategory)
	// total_views 는 카테고리 합과 같은 발행 글 집합에서 계산한다.
	for _, c := range byCategory {
		out.TotalViews += c.Views
	}

	mostViewed, err := s.store.MostViewed(ctx, mostViewedLimit)
	if err != nil {
		return out, err
	}
	out.MostViewed = dto.NewPostStatDTOs(mostViewed)

	recent, err := s.store.RecentActivity(ctx, recentActivityLimit)
	if err != nil {
		return out, err
	}
	out.RecentActivity = dto.NewPostStatDTOs(recent)

	windows := []struct {
		days int
		dst  *int64
	}{
		{7, &out.RecentPerformance.Last7Days},
		{30, &out.RecentPerformance.Last30Days},
		{90, &out.RecentPerformance.Last90Days},
	}
	for _, w := range windows {
		v, err := s.store.ViewsSince(ctx, now.AddDate(0, 0, -w.days))
		if err != nil {
			return out, err
		}
		*w.dst = v
	}

	buckets, err := s.store.MonthlyStats(ctx, monthsStart(now))
	if err != nil {
		return out, err
	}
	out.MonthlyStats = fillMonths(now, buckets)
	return out, nil
}

// EmptyAnalyticsSummary is the zeroed summary served when the store is unavailable.
func EmptyAnalyticsSummary(now time.Time) dto.AnalyticsSummaryDTO {
	return dto.AnalyticsSummaryDTO{CategoryStats: []dto.CategoryStatDTO{}, LastUpdated: now}
}

// EmptyAnalyticsViews is the zeroed payload served when the store is unavailable.
func EmptyAnalyticsViews(now time.Time) dto.AnalyticsViewsDTO {
	return dto.AnalyticsViewsDTO{
		MostViewed:      []dto.PostStatDTO{},
		ViewsByCategory: []dto.CategoryStatDTO{},
		RecentActivity:  []dto.PostStatDTO{},
		MonthlyStats:    fillMonths(now, nil),
	}
}

func categoryStats(rows []repositories.CategoryViews) []dto.CategoryStatDTO {
	out := make([]dto.CategoryStatDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.CategoryStatDTO{
			Category:   r.Category,
			Name:       r.Category.Name(),
			PostCount:  r.Posts,
			TotalViews: r.Views,
			AvgViews:   ratio(r.Views, r.Posts, 1),
		})
	}
	return out
}

// ratio returns round(n/d*scale), 0 when d is 0.
func ratio(n, d int64, scale float64) int64 {
	if d == 0 {
		return 0
	}
	return int64(math.Round(float64(n) / float64(d) * scale))
}

// monthsStart 는 이번 달을 포함한 최근 12개월의 첫날(UTC)이다.
func monthsStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(monthlyStatsMonths - 1), 0)
}

// fillMonths returns one entry per month, oldest first, with missing months zeroed.
func fillMonths(now time.Time, buckets []repositories.MonthlyBucket) []dto.MonthlyStatDTO {
	byMonth := make(map[string]repositories.MonthlyBucket, len(buckets))
	for _, b := range buckets {
		byMonth[b.Month] = b
	}
	start := monthsStart(now)
	out := make([]dto.MonthlyStatDTO, 0, monthlyStatsMonths)
	for i := 0; i < monthlyStatsMonths; i++ {
		m := start.AddDate(0, i, 0)
		key := m.Format("2006-01")
		b := byMonth[key]
		out = append(out, dto.MonthlyStatDTO{
			Month: key,
			Label: m.Format("Jan 2006"),
			Posts: b.Posts,
			Views: b.Views,
		})
	}
	return out
}
