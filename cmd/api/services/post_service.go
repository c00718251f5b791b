package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tech-blog/cmd/api/dto"
	"tech-blog/config"
	"tech-blog/content"
	"tech-blog/events"
	"tech-blog/internal/logger"
	"tech-blog/models"
	"tech-blog/repositories"
)

const (
	maxPageSize      = 100
	maxExcerptLength = 200
	// 중복 키 충돌 시 슬러그를 다시 계산하는 최대 횟수
	maxSlugAttempts = 3
)

// PostService encapsulates business logic for posts and DTO mapping.
type PostService struct {
	store  PostStore
	events *EventService
	cfg    config.ContentConfig
	now    func() time.Time
}

func NewPostService(store PostStore, ev *EventService, cfg config.ContentConfig) *PostService {
	return &PostService{
		store:  store,
		events: ev,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type ListPostsInput struct {
	Page     int
	PageSize int
	Category string
	Tag      string
	Sort     string
	// IncludeDrafts 는 관리자만 켤 수 있다. 핸들러에서 권한을 확인한다.
	IncludeDrafts bool
}

func (s *PostService) pageSize(n int) int {
	if n <= 0 {
		n = s.cfg.PageSize
	}
	if n <= 0 {
		n = 10
	}
	if n > maxPageSize {
		n = maxPageSize
	}
	return n
}

// List returns published posts (or every post for admins) with filters and pagination.
func (s *PostService) List(ctx context.Context, in ListPostsInput) (dto.Pagination[dto.PostSummaryDTO], error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	in.PageSize = s.pageSize(in.PageSize)

	opt := repositories.ListPostsOptions{
		Page:     in.Page,
		PageSize: in.PageSize,
		Category: in.Category,
		Tag:      strings.TrimSpace(in.Tag),
		Sort:     repositories.ParsePostSort(in.Sort),
	}
	if !in.IncludeDrafts {
		published := true
		opt.Published = &published
	}

	items, total, err := s.store.List(ctx, opt)
	if err != nil {
		return dto.Pagination[dto.PostSummaryDTO]{}, err
	}
	return dto.NewPagination(dto.NewPostSummaryDTOs(items), in.Page, in.PageSize, total), nil
}

type GetPostOptions struct {
	// Admin 은 초안도 볼 수 있고 조회수를 올리지 않는다.
	Admin     bool
	CountView bool
	// AlreadyViewed 가 post id 에 대해 true 를 반환하면 같은 세션의 재조회로 보고 세지 않는다.
	AlreadyViewed func(postID string) bool
}

func (o GetPostOptions) shouldCount(p *models.Post) bool {
	if !o.CountView || o.Admin || !p.Published {
		return false
	}
	return o.AlreadyViewed == nil || !o.AlreadyViewed(p.ID.Hex())
}

// Get loads a post by slug first, then by ObjectID.
// A published post fetched by a reader with CountView set gets its view counter incremented.
func (s *PostService) Get(ctx context.Context, idOrSlug string, opt GetPostOptions) (*dto.PostDetailDTO, error) {
	p, err := s.find(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if !p.Published && !opt.Admin {
		return nil, ErrNotFound
	}
	if opt.shouldCount(p) {
		updated, err := s.store.IncrementViews(ctx, p.ID, s.now())
		if err != nil {
			logger.WarnWithFields("failed to increment views", logger.Fields{"post_id": p.ID.Hex(), "error": err.Error()})
		} else {
			p = updated
		}
	}
	d := s.Detail(*p)
	return &d, nil
}

func (s *PostService) find(ctx context.Context, idOrSlug string) (*models.Post, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if idOrSlug == "" {
		return nil, ErrNotFound
	}
	p, err := s.store.FindBySlug(ctx, idOrSlug)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(idOrSlug)
	if err != nil {
		return nil, ErrNotFound
	}
	p, err = s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, storeError(err)
	}
	return p, nil
}

// Render substitutes media placeholders and splits the body into typed blocks.
func (s *PostService) Render(p models.Post) (string, []content.Block) {
	html := content.RenderMedia(p.Content, p.Media, content.RenderOptions{StripOrphans: s.cfg.StripOrphanPlaceholders})
	blocks := content.BlocksFromBody(p.Content, p.Media)
	if blocks == nil {
		blocks = []content.Block{}
	}
	return html, blocks
}

func (s *PostService) Detail(p models.Post) dto.PostDetailDTO {
	html, blocks := s.Render(p)
	return dto.PostDetailDTO{
		PostDTO:      dto.NewPostDTO(p),
		RenderedHTML: html,
		Blocks:       blocks,
	}
}

// Create validates the request, derives slug/read time/excerpt and stores a new post.
func (s *PostService) Create(ctx context.Context, req dto.CreatePostRequest) (*dto.PostDetailDTO, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalidInput("title is required")
	}
	format, raw, body, err := resolveBody(req.ContentFormat, req.RawContent, req.Content)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, invalidInput("content is required")
	}
	category := models.Category(strings.TrimSpace(req.Category))
	if category == "" {
		return nil, invalidInput("category is required")
	}
	if !category.Valid() {
		return nil, invalidInput("unknown category %q", category)
	}
	base := content.GenerateSlug(title)
	if !content.ValidSlug(base) {
		return nil, invalidInput("slug derived from title must be at least %d characters", content.MinSlugLength)
	}
	media, err := validateMedia(req.Media)
	if err != nil {
		return nil, err
	}
	if req.ExtractMedia {
		var extracted []models.Media
		body, extracted = content.ExtractMedia(body)
		media = content.MergeMedia(media, extracted)
	}

	excerpt := strings.TrimSpace(req.Excerpt)
	if len([]rune(excerpt)) > maxExcerptLength {
		return nil, invalidInput("excerpt must be at most %d characters", maxExcerptLength)
	}
	if excerpt == "" {
		excerpt = s.autoExcerpt(body)
	}

	p := &models.Post{
		Title:          title,
		Content:        body,
		RawContent:     raw,
		ContentFormat:  format,
		Media:          media,
		Excerpt:        excerpt,
		Category:       category,
		Tags:           tagsOrEmpty(req.Tags),
		CoverImage:     strings.TrimSpace(req.CoverImage),
		Published:      req.Published,
		ReadTime:       s.readTime(body),
		SEOTitle:       firstNonEmpty(req.SEOTitle, title),
		SEODescription: firstNonEmpty(req.SEODescription, excerpt),
	}
	if p.Published {
		now := s.now()
		p.PublishedAt = &now
	}

	if err := s.insertWithUniqueSlug(ctx, p, base); err != nil {
		return nil, err
	}

	logger.InfoWithFields("post created", logger.Fields{"post_id": p.ID.Hex(), "slug": p.Slug, "published": p.Published})
	s.events.PublishPost(ctx, events.PostCreated, p)
	if p.Published {
		s.events.PublishPost(ctx, events.PostPublished, p)
	}
	d := s.Detail(*p)
	return &d, nil
}

// insertWithUniqueSlug 는 check-then-insert 경쟁으로 중복 키가 나면 슬러그를 다시 계산한다.
func (s *PostService) insertWithUniqueSlug(ctx context.Context, p *models.Post, base string) error {
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := content.UniqueSlug(ctx, base, s.slugExists(nil))
		if err != nil {
			return err
		}
		p.Slug = slug
		err = s.store.Insert(ctx, p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrDuplicateSlug) {
			return err
		}
		logger.WarnWithFields("slug taken at insert, retrying", logger.Fields{"slug": slug, "attempt": attempt + 1})
	}
	return ErrSlugConflict
}

func (s *PostService) slugExists(exclude *primitive.ObjectID) content.SlugExistsFunc {
	return func(ctx context.Context, slug string) (bool, error) {
		return s.store.SlugExists(ctx, slug, exclude)
	}
}

// Update applies a partial update. A changed title regenerates the slug and changed content
// recomputes read time and excerpt unless an excerpt is supplied.
func (s *PostService) Update(ctx context.Context, id string, req dto.UpdatePostRequest) (*dto.PostDetailDTO, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	p, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, storeError(err)
	}
	wasPublished := p.Published

	var slugBase string
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, invalidInput("title must not be empty")
		}
		if title != p.Title {
			slugBase = content.GenerateSlug(title)
			if !content.ValidSlug(slugBase) {
				return nil, invalidInput("slug derived from title must be at least %d characters", content.MinSlugLength)
			}
			p.Title = title
		}
	}

	contentChanged := false
	if req.Content != nil || req.RawContent != nil || req.ContentFormat != nil {
		format := p.ContentFormat
		if req.ContentFormat != nil {
			format = *req.ContentFormat
		}
		raw, body := p.RawContent, p.Content
		if req.RawContent != nil {
			raw = *req.RawContent
		}
		if req.Content != nil {
			body = *req.Content
		}
		// markdown 원문만 바뀐 경우 content 는 원문에서 다시 만든다.
		if format == models.ContentFormatMarkdown && req.Content == nil {
			body = ""
		}
		// html 글은 content 만 보내도 에디터 원문이 같이 바뀐다.
		if format != models.ContentFormatMarkdown && req.Content != nil && req.RawContent == nil {
			raw = body
		}
		format, raw, body, err = resolveBody(format, raw, body)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(body) == "" {
			return nil, invalidInput("content must not be empty")
		}
		p.ContentFormat, p.RawContent, p.Content = format, raw, body
		contentChanged = true
	}

	if req.Media != nil {
		media, err := validateMedia(*req.Media)
		if err != nil {
			return nil, err
		}
		p.Media = media
	}
	if req.ExtractMedia {
		var extracted []models.Media
		p.Content, extracted = content.ExtractMedia(p.Content)
		p.Media = content.MergeMedia(p.Media, extracted)
		contentChanged = true
	}

	if req.Category != nil {
		category := models.Category(strings.TrimSpace(*req.Category))
		if !category.Valid() {
			return nil, invalidInput("unknown category %q", category)
		}
		p.Category = category
	}
	if req.Tags != nil {
		p.Tags = tagsOrEmpty(*req.Tags)
	}
	if req.CoverImage != nil {
		p.CoverImage = strings.TrimSpace(*req.CoverImage)
	}
	if req.SEOTitle != nil {
		p.SEOTitle = strings.TrimSpace(*req.SEOTitle)
	}
	if req.SEODescription != nil {
		p.SEODescription = strings.TrimSpace(*req.SEODescription)
	}

	excerptSupplied := false
	if req.Excerpt != nil {
		excerpt := strings.TrimSpace(*req.Excerpt)
		if len([]rune(excerpt)) > maxExcerptLength {
			return nil, invalidInput("excerpt must be at most %d characters", maxExcerptLength)
		}
		if excerpt != "" {
			p.Excerpt = excerpt
			excerptSupplied = true
		} else {
			contentChanged = true
		}
	}
	if contentChanged {
		p.ReadTime = s.readTime(p.Content)
		if !excerptSupplied {
			p.Excerpt = s.autoExcerpt(p.Content)
		}
	}

	if req.Published != nil {
		p.Published = *req.Published
		if p.Published && p.PublishedAt == nil {
			now := s.now()
			p.PublishedAt = &now
		}
	}
	if req.PublishedAt != nil {
		at := req.PublishedAt.UTC()
		p.PublishedAt = &at
	}

	if err := s.updateWithUniqueSlug(ctx, p, slugBase); err != nil {
		return nil, err
	}

	logger.InfoWithFields("post updated", logger.Fields{"post_id": p.ID.Hex(), "slug": p.Slug})
	s.events.PublishPost(ctx, events.PostUpdated, p)
	switch {
	case p.Published && !wasPublished:
		s.events.PublishPost(ctx, events.PostPublished, p)
	case !p.Published && wasPublished:
		s.events.PublishPost(ctx, events.PostUnpublished, p)
	}
	d := s.Detail(*p)
	return &d, nil
}

func (s *PostService) updateWithUniqueSlug(ctx context.Context, p *models.Post, base string) error {
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		if base != "" {
			slug, err := content.UniqueSlug(ctx, base, s.slugExists(&p.ID))
			if err != nil {
				return err
			}
			p.Slug = slug
		}
		err := s.store.Update(ctx, p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrDuplicateSlug) || base == "" {
			return storeError(err)
		}
	}
	return ErrSlugConflict
}

// Publish moves a post to the published state. published_at is stamped only on the first publish.
func (s *PostService) Publish(ctx context.Context, id string) (*dto.PostDetailDTO, error) {
	return s.setPublished(ctx, id, true)
}

// Unpublish moves a post back to draft. published_at is kept.
func (s *PostService) Unpublish(ctx context.Context, id string) (*dto.PostDetailDTO, error) {
	return s.setPublished(ctx, id, false)
}

func (s *PostService) setPublished(ctx context.Context, id string, published bool) (*dto.PostDetailDTO, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	p, err := s.store.SetPublished(ctx, oid, published, s.now())
	if err != nil {
		return nil, storeError(err)
	}
	t := events.PostUnpublished
	if published {
		t = events.PostPublished
	}
	logger.InfoWithFields("post publication changed", logger.Fields{"post_id": p.ID.Hex(), "published": published})
	s.events.PublishPost(ctx, t, p)
	d := s.Detail(*p)
	return &d, nil
}

// Delete hard-deletes a post.
func (s *PostService) Delete(ctx context.Context, id string) (*dto.DeletePostResponseDTO, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	p, err := s.store.Delete(ctx, oid)
	if err != nil {
		return nil, storeError(err)
	}
	logger.InfoWithFields("post deleted", logger.Fields{"post_id": p.ID.Hex(), "slug": p.Slug})
	s.events.PublishPost(ctx, events.PostDeleted, p)
	return &dto.DeletePostResponseDTO{
		Message: "post deleted",
		ID:      p.ID.Hex(),
		Title:   p.Title,
		Slug:    p.Slug,
	}, nil
}

// RecordView atomically increments the view counter of a published post.
func (s *PostService) RecordView(ctx context.Context, id string) (dto.ViewResponseDTO, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return dto.ViewResponseDTO{}, err
	}
	p, err := s.store.IncrementViews(ctx, oid, s.now())
	if err != nil {
		return dto.ViewResponseDTO{}, storeError(err)
	}
	return dto.ViewResponseDTO{Success: true, Views: p.Views, BlogID: p.ID.Hex(), Counted: true}, nil
}

// GetViews returns the current counter without incrementing it.
func (s *PostService) GetViews(ctx context.Context, id string) (dto.ViewsDTO, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return dto.ViewsDTO{}, err
	}
	p, err := s.store.GetViews(ctx, oid)
	if err != nil {
		return dto.ViewsDTO{BlogID: id}, storeError(err)
	}
	return dto.ViewsDTO{Views: p.Views, BlogID: p.ID.Hex(), Title: p.Title}, nil
}

// Related returns other published posts of the same category, newest first.
// 실패하면 빈 목록을 돌려준다.
func (s *PostService) Related(ctx context.Context, p dto.PostDTO, limit int) []dto.PostSummaryDTO {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return []dto.PostSummaryDTO{}
	}
	published := true
	items, _, err := s.store.List(ctx, repositories.ListPostsOptions{
		Page:      1,
		PageSize:  limit,
		Category:  string(p.Category),
		Published: &published,
		Sort:      repositories.SortNewest,
		ExcludeID: &oid,
	})
	if err != nil {
		logger.WarnWithFields("failed to load related posts", logger.Fields{"post_id": p.ID, "error": err.Error()})
		return []dto.PostSummaryDTO{}
	}
	return dto.NewPostSummaryDTOs(items)
}

// Categories lists every category with its published post count.
func (s *PostService) Categories(ctx context.Context) ([]dto.CategoryCountDTO, error) {
	counts, err := s.store.CountByCategory(ctx)
	if err != nil {
		counts = map[models.Category]int64{}
	}
	out := make([]dto.CategoryCountDTO, 0, len(models.Categories))
	for _, c := range models.Categories {
		out = append(out, dto.CategoryCountDTO{Slug: c.Slug, Name: c.Name, Icon: c.Icon, Count: counts[c.Slug]})
	}
	return out, err
}

// Tags lists tag usage over published posts, optionally within a category.
func (s *PostService) Tags(ctx context.Context, category string, limit int) ([]dto.TagCountDTO, error) {
	rows, err := s.store.TopTags(ctx, category, limit)
	if err != nil {
		return []dto.TagCountDTO{}, err
	}
	out := make([]dto.TagCountDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TagCountDTO{Tag: r.Tag, Count: r.Count})
	}
	return out, nil
}

func (s *PostService) readTime(body string) int {
	return content.ReadTime(stripPlaceholders(body), s.cfg.WordsPerMinute)
}

func (s *PostService) autoExcerpt(body string) string {
	return content.Excerpt(stripPlaceholders(body), s.cfg.ExcerptLength)
}

// 파생값 계산에서는 플레이스홀더 토큰을 단어로 세지 않는다.
func stripPlaceholders(body string) string {
	return content.RenderMedia(body, nil, content.RenderOptions{StripOrphans: true})
}

// resolveBody returns the stored format, raw source and HTML body.
// markdown 글은 원문(raw)을 HTML 로 변환해 content 에 저장한다.
func resolveBody(format, raw, body string) (string, string, string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", models.ContentFormatHTML:
		if raw == "" {
			raw = body
		}
		return models.ContentFormatHTML, raw, body, nil
	case models.ContentFormatMarkdown:
		if raw == "" {
			raw = body
		}
		html, err := content.MarkdownToHTML(raw)
		if err != nil {
			return "", "", "", invalidInput("markdown: %v", err)
		}
		return models.ContentFormatMarkdown, raw, html, nil
	default:
		return "", "", "", invalidInput("unknown content_format %q", format)
	}
}

func validateMedia(media []models.Media) ([]models.Media, error) {
	for i, m := range media {
		if m.Type != "" && !m.Type.Valid() {
			return nil, invalidInput("media[%d]: unknown type %q", i, m.Type)
		}
		if m.URL == "" && m.Type != models.MediaCode {
			return nil, invalidInput("media[%d]: url is required", i)
		}
	}
	return content.NormalizeMedia(media), nil
}

func tagsOrEmpty(tags dto.TagList) []string {
	if tags == nil {
		return []string{}
	}
	return dto.NormalizeTags(tags)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
