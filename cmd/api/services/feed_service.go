package services

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/gorilla/feeds"

	"tech-blog/config"
	"tech-blog/models"
	"tech-blog/repositories"
)

const rssItems = 20

// FeedService renders RSS, sitemap and robots.txt.
type FeedService struct {
	store PostStore
	site  config.ServerConfig
	now   func() time.Time
}

func NewFeedService(store PostStore, site config.ServerConfig) *FeedService {
	return &FeedService{store: store, site: site, now: time.Now}
}

func (s *FeedService) postURL(slug string) string {
	return s.site.SiteURL + "/blog/" + slug
}

// WriteRSS writes the 20 most recent published posts as RSS 2.0.
func (s *FeedService) WriteRSS(ctx context.Context, w io.Writer) error {
	published := true
	posts, _, err := s.store.List(ctx, repositories.ListPostsOptions{
		Page:      1,
		PageSize:  rssItems,
		Published: &published,
		Sort:      repositories.SortNewest,
	})
	if err != nil {
		return err
	}

	feed := &feeds.Feed{
		Title:       s.site.SiteName,
		Link:        &feeds.Link{Href: s.site.SiteURL},
		Description: s.site.SiteDescription,
		Created:     s.now(),
	}
	if s.site.Author != "" {
		feed.Author = &feeds.Author{Name: s.site.Author}
	}
	for _, p := range posts {
		created := p.CreatedAt
		if p.PublishedAt != nil {
			created = *p.PublishedAt
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          s.postURL(p.Slug),
			Title:       p.Title,
			Link:        &feeds.Link{Href: s.postURL(p.Slug)},
			Description: p.Excerpt,
			Created:     created,
			Updated:     p.UpdatedAt,
		})
	}
	return feed.WriteRss(w)
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	URLs    []sitemapURL `xml:"url"`
}

// WriteSitemap lists the home page, static pages, every category and every published post.
func (s *FeedService) WriteSitemap(ctx context.Context, w io.Writer) error {
	posts, err := s.store.ListPublishedSlugs(ctx)
	if err != nil {
		return err
	}

	base := s.site.SiteURL
	urls := []sitemapURL{
		{Loc: base + "/", ChangeFreq: "daily", Priority: "1.0"},
		{Loc: base + "/about", Priority: "0.5"},
		{Loc: base + "/analytics", ChangeFreq: "daily", Priority: "0.4"},
	}
	for _, c := range models.Categories {
		urls = append(urls, sitemapURL{
			Loc:        base + "/categories/" + string(c.Slug),
			ChangeFreq: "weekly",
			Priority:   "0.7",
		})
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:        s.postURL(p.Slug),
			LastMod:    p.UpdatedAt.UTC().Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(sitemapURLSet{URLs: urls})
}

func (s *FeedService) RobotsTxt() string {
	return fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\nDisallow: /api/v1/admin/\n\nSitemap: %s/sitemap.xml\n", s.site.SiteURL)
}
