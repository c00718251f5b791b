// Package repotest provides an in-memory post store for service and handler tests.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tech-blog/models"
	"tech-blog/repositories"
)

// MemStore mirrors the PostRepository and AnalyticsRepository method sets in memory.
// 집계 규칙(발행 글만 합산 등)은 Mongo 파이프라인과 같게 맞춘다.
type MemStore struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]models.Post
	// InsertErrs 가 있으면 Insert 가 앞에서부터 하나씩 꺼내 반환한다.
	InsertErrs []error
	// Err 가 설정되면 목록/집계 메서드가 이 오류를 반환한다.
	Err error
}

func NewMemStore() *MemStore {
	return &MemStore{posts: map[primitive.ObjectID]models.Post{}}
}

// Seed stores p as is, filling ID and timestamps when empty.
func (s *MemStore) Seed(p models.Post) models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = p.CreatedAt
	if p.Tags == nil {
		p.Tags = []string{}
	}
	s.posts[p.ID] = p
	return p
}

func (s *MemStore) Insert(_ context.Context, p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.InsertErrs) > 0 {
		err := s.InsertErrs[0]
		s.InsertErrs = s.InsertErrs[1:]
		return err
	}
	for _, existing := range s.posts {
		if existing.Slug == p.Slug {
			return repositories.ErrDuplicateSlug
		}
	}
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt, p.UpdatedAt = now, now
	s.posts[p.ID] = *p
	return nil
}

func (s *MemStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (s *MemStore) FindBySlug(_ context.Context, slug string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *MemStore) SlugExists(_ context.Context, slug string, exclude *primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.posts {
		if p.Slug == slug && (exclude == nil || id != *exclude) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemStore) List(_ context.Context, opt repositories.ListPostsOptions) ([]models.Post, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}
	var matched []models.Post
	for _, p := range s.posts {
		if opt.Published != nil && p.Published != *opt.Published {
			continue
		}
		if opt.Category != "" && string(p.Category) != opt.Category {
			continue
		}
		if opt.Tag != "" && !contains(p.Tags, opt.Tag) {
			continue
		}
		if opt.ExcludeID != nil && p.ID == *opt.ExcludeID {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch opt.Sort {
		case repositories.SortPopular:
			return a.Views > b.Views
		case repositories.SortOldest:
			return publishedAt(a).Before(publishedAt(b))
		case repositories.SortCreated:
			return a.CreatedAt.After(b.CreatedAt)
		}
		return publishedAt(a).After(publishedAt(b))
	})

	if opt.Page <= 0 {
		opt.Page = 1
	}
	if opt.PageSize <= 0 {
		opt.PageSize = 10
	}
	total := int64(len(matched))
	start := (opt.Page - 1) * opt.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + opt.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *MemStore) Update(_ context.Context, p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.posts[p.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	for id, other := range s.posts {
		if id != p.ID && other.Slug == p.Slug {
			return repositories.ErrDuplicateSlug
		}
	}
	updated := *p
	updated.Views = existing.Views
	updated.LastViewed = existing.LastViewed
	updated.UpdatedAt = time.Now().UTC()
	s.posts[p.ID] = updated
	*p = updated
	return nil
}

func (s *MemStore) SetPublished(_ context.Context, id primitive.ObjectID, published bool, now time.Time) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	p.Published = published
	p.UpdatedAt = now
	if published && p.PublishedAt == nil {
		at := now
		p.PublishedAt = &at
	}
	s.posts[id] = p
	return &p, nil
}

func (s *MemStore) Delete(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	delete(s.posts, id)
	return &p, nil
}

func (s *MemStore) IncrementViews(_ context.Context, id primitive.ObjectID, now time.Time) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok || !p.Published {
		return nil, repositories.ErrNotFound
	}
	p.Views++
	at := now
	p.LastViewed = &at
	s.posts[id] = p
	return &p, nil
}

func (s *MemStore) GetViews(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.FindByID(ctx, id)
}

func (s *MemStore) CountByCategory(_ context.Context) (map[models.Category]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := map[models.Category]int64{}
	for _, p := range s.posts {
		if p.Published {
			out[p.Category]++
		}
	}
	return out, nil
}

func (s *MemStore) TopTags(_ context.Context, category string, limit int) ([]repositories.TagCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	counts := map[string]int64{}
	for _, p := range s.posts {
		if !p.Published || (category != "" && string(p.Category) != category) {
			continue
		}
		for _, t := range p.Tags {
			counts[t]++
		}
	}
	out := []repositories.TagCount{}
	for t, c := range counts {
		out = append(out, repositories.TagCount{Tag: t, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemStore) MostViewedPerCategory(_ context.Context) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	best := map[models.Category]models.Post{}
	for _, p := range s.posts {
		if !p.Published {
			continue
		}
		if cur, ok := best[p.Category]; !ok || p.Views > cur.Views {
			best[p.Category] = p
		}
	}
	out := []models.Post{}
	for _, p := range best {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	return out, nil
}

func (s *MemStore) ListPublishedSlugs(ctx context.Context) ([]models.Post, error) {
	published := true
	items, _, err := s.List(ctx, repositories.ListPostsOptions{Page: 1, PageSize: 1 << 20, Published: &published})
	return items, err
}

// analytics

func (s *MemStore) published() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Post{}
	for _, p := range s.posts {
		if p.Published {
			out = append(out, p)
		}
	}
	return out
}

func (s *MemStore) Totals(_ context.Context) (repositories.Totals, error) {
	if s.Err != nil {
		return repositories.Totals{}, s.Err
	}
	s.mu.Lock()
	total := int64(len(s.posts))
	s.mu.Unlock()
	t := repositories.Totals{TotalPosts: total}
	for _, p := range s.published() {
		t.PublishedPosts++
		t.TotalViews += p.Views
		t.TotalReadTime += int64(p.ReadTime)
		if p.Views > 0 {
			t.PostsWithViews++
		}
	}
	return t, nil
}

func (s *MemStore) ViewsByCategory(_ context.Context) ([]repositories.CategoryViews, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	byCat := map[models.Category]*repositories.CategoryViews{}
	for _, p := range s.published() {
		c, ok := byCat[p.Category]
		if !ok {
			c = &repositories.CategoryViews{Category: p.Category}
			byCat[p.Category] = c
		}
		c.Views += p.Views
		c.Posts++
	}
	out := []repositories.CategoryViews{}
	for _, c := range byCat {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Views != out[j].Views {
			return out[i].Views > out[j].Views
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (s *MemStore) MostViewed(_ context.Context, limit int) ([]models.Post, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := s.published()
	sort.Slice(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemStore) RecentActivity(_ context.Context, limit int) ([]models.Post, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.Post{}
	for _, p := range s.published() {
		if p.LastViewed != nil {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastViewed.After(*out[j].LastViewed) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemStore) ViewsSince(_ context.Context, since time.Time) (int64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	var sum int64
	for _, p := range s.published() {
		if p.LastViewed != nil && !p.LastViewed.Before(since) {
			sum += p.Views
		}
	}
	return sum, nil
}

func (s *MemStore) MonthlyStats(_ context.Context, since time.Time) ([]repositories.MonthlyBucket, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	byMonth := map[string]*repositories.MonthlyBucket{}
	for _, p := range s.published() {
		if p.PublishedAt == nil || p.PublishedAt.Before(since) {
			continue
		}
		key := p.PublishedAt.UTC().Format("2006-01")
		b, ok := byMonth[key]
		if !ok {
			b = &repositories.MonthlyBucket{Month: key}
			byMonth[key] = b
		}
		b.Posts++
		b.Views += p.Views
	}
	out := []repositories.MonthlyBucket{}
	for _, b := range byMonth {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

// Len returns the number of stored posts.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

func publishedAt(p models.Post) time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
