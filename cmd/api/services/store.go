package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tech-blog/models"
	"tech-blog/repositories"
)

// PostStore is the persistence the post, page and feed services need.
// *repositories.PostRepository implements it.
type PostStore interface {
	Insert(ctx context.Context, p *models.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	SlugExists(ctx context.Context, slug string, exclude *primitive.ObjectID) (bool, error)
	List(ctx context.Context, opt repositories.ListPostsOptions) ([]models.Post, int64, error)
	Update(ctx context.Context, p *models.Post) error
	SetPublished(ctx context.Context, id primitive.ObjectID, published bool, now time.Time) (*models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID, now time.Time) (*models.Post, error)
	GetViews(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	CountByCategory(ctx context.Context) (map[models.Category]int64, error)
	TopTags(ctx context.Context, category string, limit int) ([]repositories.TagCount, error)
	MostViewedPerCategory(ctx context.Context) ([]models.Post, error)
	ListPublishedSlugs(ctx context.Context) ([]models.Post, error)
}

// AnalyticsStore is implemented by *repositories.AnalyticsRepository.
type AnalyticsStore interface {
	Totals(ctx context.Context) (repositories.Totals, error)
	ViewsByCategory(ctx context.Context) ([]repositories.CategoryViews, error)
	MostViewed(ctx context.Context, limit int) ([]models.Post, error)
	RecentActivity(ctx context.Context, limit int) ([]models.Post, error)
	ViewsSince(ctx context.Context, since time.Time) (int64, error)
	MonthlyStats(ctx context.Context, since time.Time) ([]repositories.MonthlyBucket, error)
}

var (
	_ PostStore      = (*repositories.PostRepository)(nil)
	_ AnalyticsStore = (*repositories.AnalyticsRepository)(nil)
)

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, invalidInput("invalid post id %q", id)
	}
	return oid, nil
}
