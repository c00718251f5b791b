package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tech-blog/models"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrDuplicateSlug = errors.New("duplicate slug")
)

// mapError 는 드라이버 오류를 저장소 공통 오류로 바꾼다.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateSlug
	}
	return err
}

type PostSort string

const (
	SortNewest  PostSort = "newest"
	SortOldest  PostSort = "oldest"
	SortPopular PostSort = "popular"
	// SortCreated 는 관리자 목록 전용이다. 초안은 published_at 이 없으므로 생성 시각으로 정렬한다.
	SortCreated PostSort = "created"
)

// ParsePostSort falls back to newest for unknown values.
func ParsePostSort(s string) PostSort {
	switch PostSort(s) {
	case SortOldest, SortPopular:
		return PostSort(s)
	}
	return SortNewest
}

func (s PostSort) sortDoc() bson.D {
	switch s {
	case SortOldest:
		return bson.D{{Key: "published_at", Value: 1}, {Key: "created_at", Value: 1}}
	case SortPopular:
		return bson.D{{Key: "views", Value: -1}, {Key: "published_at", Value: -1}}
	case SortCreated:
		return bson.D{{Key: "created_at", Value: -1}}
	}
	return bson.D{{Key: "published_at", Value: -1}, {Key: "created_at", Value: -1}}
}

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection("posts")}
}

// Insert inserts a new post document and sets p.ID.
func (r *PostRepository) Insert(ctx context.Context, p *models.Post) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Media == nil {
		p.Media = []models.Media{}
	}
	_, err := r.col.InsertOne(ctx, p)
	return mapError(err)
}

func (r *PostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *PostRepository) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var p models.Post
	if err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&p); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

// SlugExists reports whether slug is used by a post other than exclude.
func (r *PostRepository) SlugExists(ctx context.Context, slug string, exclude *primitive.ObjectID) (bool, error) {
	filter := bson.M{"slug": slug}
	if exclude != nil {
		filter["_id"] = bson.M{"$ne": *exclude}
	}
	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type ListPostsOptions struct {
	Page      int
	PageSize  int
	Category  string
	Tag       string
	Published *bool
	Sort      PostSort
	ExcludeID *primitive.ObjectID
}

func (o ListPostsOptions) filter() bson.M {
	filter := bson.M{}
	if o.Published != nil {
		filter["published"] = *o.Published
	}
	if o.Category != "" {
		filter["category"] = o.Category
	}
	if o.Tag != "" {
		filter["tags"] = bson.M{"$in": []string{o.Tag}}
	}
	if o.ExcludeID != nil {
		filter["_id"] = bson.M{"$ne": *o.ExcludeID}
	}
	return filter
}

// List returns posts with filters and pagination.
func (r *PostRepository) List(ctx context.Context, opt ListPostsOptions) ([]models.Post, int64, error) {
	if opt.Page <= 0 {
		opt.Page = 1
	}
	if opt.PageSize <= 0 || opt.PageSize > 100 {
		opt.PageSize = 10
	}
	filter := opt.filter()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().
		SetSort(opt.Sort.sortDoc()).
		SetSkip(int64((opt.Page - 1) * opt.PageSize)).
		SetLimit(int64(opt.PageSize))
	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	items := []models.Post{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update writes every editable field of p. views and last_viewed are never touched
// so concurrent view increments are not lost.
func (r *PostRepository) Update(ctx context.Context, p *models.Post) error {
	p.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"updated_at":      p.UpdatedAt,
		"title":           p.Title,
		"slug":            p.Slug,
		"content":         p.Content,
		"raw_content":     p.RawContent,
		"content_format":  p.ContentFormat,
		"media":           p.Media,
		"excerpt":         p.Excerpt,
		"category":        p.Category,
		"tags":            p.Tags,
		"cover_image":     p.CoverImage,
		"published":       p.Published,
		"read_time":       p.ReadTime,
		"seo_title":       p.SEOTitle,
		"seo_description": p.SEODescription,
	}
	update := bson.M{"$set": set}
	if p.PublishedAt != nil {
		set["published_at"] = *p.PublishedAt
	} else {
		update["$unset"] = bson.M{"published_at": ""}
	}

	res, err := r.col.UpdateByID(ctx, p.ID, update)
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPublished flips the publication flag atomically.
// published_at 은 처음 발행될 때 한 번만 기록되고 이후 발행/비발행에서는 유지된다.
func (r *PostRepository) SetPublished(ctx context.Context, id primitive.ObjectID, published bool, now time.Time) (*models.Post, error) {
	set := bson.M{"published": published, "updated_at": now}
	if published {
		set["published_at"] = bson.M{"$ifNull": bson.A{"$published_at", now}}
	}
	pipeline := mongo.Pipeline{{{Key: "$set", Value: set}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Post
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline, opts).Decode(&p); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

// Delete removes a post and returns the removed document.
func (r *PostRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

// IncrementViews atomically adds one view to a published post and stamps last_viewed.
// It returns the updated document.
func (r *PostRepository) IncrementViews(ctx context.Context, id primitive.ObjectID, now time.Time) (*models.Post, error) {
	filter := bson.M{"_id": id, "published": true}
	update := bson.M{
		"$inc": bson.M{"views": 1},
		"$set": bson.M{"last_viewed": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Post
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

// GetViews loads only the fields needed for view polling.
func (r *PostRepository) GetViews(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	opts := options.FindOne().SetProjection(bson.M{"title": 1, "slug": 1, "views": 1, "last_viewed": 1})
	var p models.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&p); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

// CountByCategory counts published posts per category.
func (r *PostRepository) CountByCategory(ctx context.Context) (map[models.Category]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"published": true}}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Category models.Category `bson:"_id"`
		Count    int64           `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[models.Category]int64, len(rows))
	for _, row := range rows {
		out[row.Category] = row.Count
	}
	return out, nil
}

type TagCount struct {
	Tag   string `bson:"_id" json:"tag"`
	Count int64  `bson:"count" json:"count"`
}

// TopTags returns the most used tags of published posts, optionally within a category.
func (r *PostRepository) TopTags(ctx context.Context, category string, limit int) ([]TagCount, error) {
	match := bson.M{"published": true}
	if category != "" {
		match["category"] = category
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.M{"_id": "$tags", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []TagCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MostViewedPerCategory returns the most viewed published post of every category.
func (r *PostRepository) MostViewedPerCategory(ctx context.Context) ([]models.Post, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"published": true}}},
		{{Key: "$sort", Value: bson.D{{Key: "views", Value: -1}, {Key: "published_at", Value: -1}}}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "post": bson.M{"$first": "$$ROOT"}}}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$post"}}},
		{{Key: "$sort", Value: bson.D{{Key: "views", Value: -1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
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

// ListPublishedSlugs returns lightweight documents for every published post (sitemap).
func (r *PostRepository) ListPublishedSlugs(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}}).
		SetProjection(bson.M{"slug": 1, "title": 1, "category": 1, "updated_at": 1, "published_at": 1})
	cur, err := r.col.Find(ctx, bson.M{"published": true}, opts)
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
