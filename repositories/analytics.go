package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tech-blog/models"
)

// AnalyticsRepository runs read-only aggregation pipelines over the posts collection.
type AnalyticsRepository struct {
	col *mongo.Collection
}

func NewAnalyticsRepository(db *mongo.Database) *AnalyticsRepository {
	return &AnalyticsRepository{col: db.Collection("posts")}
}

// Totals 는 요약 화면의 카운터 묶음이다. 조회수/읽기 시간은 발행된 글만 센다.
type Totals struct {
	TotalPosts     int64 `bson:"total_posts"`
	PublishedPosts int64 `bson:"published_posts"`
	TotalViews     int64 `bson:"total_views"`
	TotalReadTime  int64 `bson:"total_read_time"`
	PostsWithViews int64 `bson:"posts_with_views"`
}

type CategoryViews struct {
	Category models.Category `bson:"_id"`
	Views    int64           `bson:"views"`
	Posts    int64           `bson:"posts"`
}

type MonthlyBucket struct {
	Month string `bson:"_id"` // YYYY-MM
	Posts int64  `bson:"posts"`
	Views int64  `bson:"views"`
}

var publishedMatch = bson.D{{Key: "$match", Value: bson.M{"published": true}}}

func (r *AnalyticsRepository) Totals(ctx context.Context) (Totals, error) {
	isPublished := "$published"
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":             nil,
			"total_posts":     bson.M{"$sum": 1},
			"published_posts": bson.M{"$sum": bson.M{"$cond": bson.A{isPublished, 1, 0}}},
			"total_views":     bson.M{"$sum": bson.M{"$cond": bson.A{isPublished, "$views", 0}}},
			"total_read_time": bson.M{"$sum": bson.M{"$cond": bson.A{isPublished, "$read_time", 0}}},
			"posts_with_views": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{isPublished, bson.M{"$gt": bson.A{"$views", 0}}}}, 1, 0,
			}}},
		}}},
	}

	var rows []Totals
	if err := r.aggregate(ctx, pipeline, &rows); err != nil {
		return Totals{}, err
	}
	if len(rows) == 0 {
		return Totals{}, nil
	}
	return rows[0], nil
}

// ViewsByCategory sums views and counts posts per category over published posts,
// highest total first.
func (r *AnalyticsRepository) ViewsByCategory(ctx context.Context) ([]CategoryViews, error) {
	pipeline := mongo.Pipeline{
		publishedMatch,
		{{Key: "$group", Value: bson.M{
			"_id":   "$category",
			"views": bson.M{"$sum": "$views"},
			"posts": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "views", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	out := []CategoryViews{}
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MostViewed returns the top published posts by views.
func (r *AnalyticsRepository) MostViewed(ctx context.Context, limit int) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "views", Value: -1}, {Key: "published_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(summaryProjection)
	return r.find(ctx, bson.M{"published": true}, opts)
}

// RecentActivity returns published posts ordered by their last view.
func (r *AnalyticsRepository) RecentActivity(ctx context.Context, limit int) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "last_viewed", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(summaryProjection)
	return r.find(ctx, bson.M{"published": true, "last_viewed": bson.M{"$exists": true}}, opts)
}

// ViewsSince sums the views of published posts last viewed at or after since.
func (r *AnalyticsRepository) ViewsSince(ctx context.Context, since time.Time) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"published": true, "last_viewed": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "views": bson.M{"$sum": "$views"}}}},
	}
	var rows []struct {
		Views int64 `bson:"views"`
	}
	if err := r.aggregate(ctx, pipeline, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Views, nil
}

// MonthlyStats groups published posts by the month of published_at starting at since (UTC).
// 빈 달은 결과에 나오지 않으므로 호출자가 0 으로 채운다.
func (r *AnalyticsRepository) MonthlyStats(ctx context.Context, since time.Time) ([]MonthlyBucket, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"published": true, "published_at": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$published_at"}},
			"posts": bson.M{"$sum": 1},
			"views": bson.M{"$sum": "$views"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	out := []MonthlyBucket{}
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return nil, err
	}
	return out, nil
}

var summaryProjection = bson.M{
	"title": 1, "slug": 1, "views": 1, "category": 1, "last_viewed": 1, "published_at": 1, "read_time": 1,
}

func (r *AnalyticsRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Post, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Post{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AnalyticsRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}
