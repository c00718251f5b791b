package repositories

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tech-blog/db"
	"tech-blog/models"
)

// MONGODB_TEST_URI 가 없으면 건너뛴다. 테스트마다 임시 데이터베이스를 만들고 지운다.
func newTestDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	d := client.Database("techblog_test_" + primitive.NewObjectID().Hex())
	require.NoError(t, db.EnsureIndexes(ctx, d))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = d.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return d
}

func newPost(title, slug string, category models.Category, published bool) *models.Post {
	return &models.Post{
		Title:     title,
		Slug:      slug,
		Content:   "<p>body</p>",
		Category:  category,
		Published: published,
		ReadTime:  1,
	}
}

func TestPostRepositoryInsertMapsDuplicateSlug(t *testing.T) {
	repo := NewPostRepository(newTestDatabase(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newPost("A", "same", models.CategoryDSA, true)))
	err := repo.Insert(ctx, newPost("B", "same", models.CategoryDSA, true))
	assert.ErrorIs(t, err, ErrDuplicateSlug)

	exists, err := repo.SlugExists(ctx, "same", nil)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPostRepositoryFindMissing(t *testing.T) {
	repo := NewPostRepository(newTestDatabase(t))

	_, err := repo.FindByID(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostRepositoryIncrementViewsIsAdditive(t *testing.T) {
	repo := NewPostRepository(newTestDatabase(t))
	ctx := context.Background()
	p := newPost("Hot", "hot", models.CategorySystemDesign, true)
	require.NoError(t, repo.Insert(ctx, p))

	const k = 25
	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementViews(ctx, p.ID, time.Now())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetViews(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, k, got.Views)
	assert.NotNil(t, got.LastViewed)
}

func TestPostRepositoryIncrementViewsSkipsDrafts(t *testing.T) {
	repo := NewPostRepository(newTestDatabase(t))
	ctx := context.Background()
	p := newPost("Draft", "draft", models.CategoryDSA, false)
	require.NoError(t, repo.Insert(ctx, p))

	_, err := repo.IncrementViews(ctx, p.ID, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostRepositorySetPublishedStampsOnce(t *testing.T) {
	repo := NewPostRepository(newTestDatabase(t))
	ctx := context.Background()
	p := newPost("Pub", "pub", models.CategoryDSA, false)
	require.NoError(t, repo.Insert(ctx, p))

	first := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	published, err := repo.SetPublished(ctx, p.ID, true, first)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	assert.True(t, published.PublishedAt.Equal(first))

	_, err = repo.SetPublished(ctx, p.ID, false, first.Add(time.Hour))
	require.NoError(t, err)
	again, err := repo.SetPublished(ctx, p.ID, true, first.Add(2*time.Hour))
	require.NoError(t, err)
	assert.True(t, again.PublishedAt.Equal(first))
}

func TestAnalyticsCategorySumEqualsTotal(t *testing.T) {
	d := newTestDatabase(t)
	posts := NewPostRepository(d)
	analytics := NewAnalyticsRepository(d)
	ctx := context.Background()

	seed := []struct {
		slug     string
		category models.Category
		views    int
	}{
		{"a", models.CategoryDSA, 3},
		{"b", models.CategoryDSA, 0},
		{"c", models.CategoryInterviews, 7},
		{"d", models.CategoryStartupHiring, 1},
	}
	for _, s := range seed {
		p := newPost(s.slug, s.slug, s.category, true)
		require.NoError(t, posts.Insert(ctx, p))
		for i := 0; i < s.views; i++ {
			_, err := posts.IncrementViews(ctx, p.ID, time.Now())
			require.NoError(t, err)
		}
	}
	require.NoError(t, posts.Insert(ctx, newPost("draft", "draft", models.CategoryDSA, false)))

	totals, err := analytics.Totals(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, totals.TotalPosts)
	assert.EqualValues(t, 4, totals.PublishedPosts)
	assert.EqualValues(t, 11, totals.TotalViews)
	assert.EqualValues(t, 3, totals.PostsWithViews)

	byCategory, err := analytics.ViewsByCategory(ctx)
	require.NoError(t, err)
	var sum int64
	for _, c := range byCategory {
		sum += c.Views
	}
	assert.Equal(t, totals.TotalViews, sum)
	assert.Equal(t, models.CategoryInterviews, byCategory[0].Category)

	week, err := analytics.ViewsSince(ctx, time.Now().Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 11, week)

	tags, err := posts.TopTags(ctx, "", 20)
	require.NoError(t, err)
	assert.Empty(t, tags)
}
