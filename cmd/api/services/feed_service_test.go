package services

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tech-blog/config"
	"tech-blog/models"
	"tech-blog/repositories/repotest"
)

var testSite = config.ServerConfig{
	SiteURL:         "https://blog.example.com",
	SiteName:        "Example Blog",
	SiteDescription: "notes",
	Author:          "Kim",
}

func TestFeedServiceRSS(t *testing.T) {
	store := repotest.NewMemStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		store.Seed(models.Post{Title: fmt.Sprintf("Post %d", i), Slug: fmt.Sprintf("post-%d", i), Excerpt: "e",
			Category: models.CategoryDSA, Published: true, PublishedAt: &at})
	}
	store.Seed(models.Post{Title: "Draft", Slug: "draft", Category: models.CategoryDSA})

	var buf bytes.Buffer
	require.NoError(t, NewFeedService(store, testSite).WriteRSS(context.Background(), &buf))

	feed, err := gofeed.NewParser().ParseString(buf.String())
	require.NoError(t, err)
	assert.Equal(t, "Example Blog", feed.Title)
	require.Len(t, feed.Items, 20)
	assert.Equal(t, "Post 24", feed.Items[0].Title)
	assert.Equal(t, "https://blog.example.com/blog/post-24", feed.Items[0].Link)
	for _, item := range feed.Items {
		assert.NotEqual(t, "Draft", item.Title)
	}
}

func TestFeedServiceSitemap(t *testing.T) {
	store := repotest.NewMemStore()
	store.Seed(models.Post{Slug: "hello", Category: models.CategoryDSA, Published: true})
	store.Seed(models.Post{Slug: "secret", Category: models.CategoryDSA})

	var buf bytes.Buffer
	require.NoError(t, NewFeedService(store, testSite).WriteSitemap(context.Background(), &buf))
	assert.True(t, strings.HasPrefix(buf.String(), xml.Header))

	var set sitemapURLSet
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &set))
	var locs []string
	for _, u := range set.URLs {
		locs = append(locs, u.Loc)
	}
	assert.Contains(t, locs, "https://blog.example.com/")
	assert.Contains(t, locs, "https://blog.example.com/categories/system-design")
	assert.Contains(t, locs, "https://blog.example.com/blog/hello")
	assert.NotContains(t, locs, "https://blog.example.com/blog/secret")
}

func TestFeedServiceRobots(t *testing.T) {
	robots := NewFeedService(repotest.NewMemStore(), testSite).RobotsTxt()
	assert.Contains(t, robots, "Disallow: /admin/")
	assert.Contains(t, robots, "Sitemap: https://blog.example.com/sitemap.xml")
}
