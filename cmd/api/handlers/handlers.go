package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tech-blog/cmd/api/dto"
	"tech-blog/cmd/api/middleware"
	"tech-blog/cmd/api/services"
)

// ListPostsHandler godoc
// @Summary      List posts
// @Description  List published posts with filters and pagination. published=false (admin only) lists drafts too.
// @Tags         posts
// @Param        page        query  int     false  "Page number (1-based)"
// @Param        page_size   query  int     false  "Page size (<=100)"
// @Param        limit       query  int     false  "Alias of page_size"
// @Param        category    query  string  false  "Category slug"
// @Param        tag         query  string  false  "Tag"
// @Param        sort        query  string  false  "newest | oldest | popular"
// @Param        published   query  bool    false  "false lists every post (admin)"
// @Produce      json
// @Success      200  {object}  dto.PaginationPostDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Router       /posts [get]
func ListPostsHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		in := services.ListPostsInput{
			Page:     queryInt(c, "page"),
			PageSize: queryInt(c, "page_size", "limit"),
			Category: c.Query("category"),
			Tag:      c.Query("tag"),
			Sort:     c.Query("sort"),
		}
		if v := c.Query("published"); v != "" {
			published, err := strconv.ParseBool(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "published must be a boolean"})
				return
			}
			if !published {
				if !middleware.IsAdmin(c) {
					c.JSON(http.StatusUnauthorized, dto.ErrorResponseDTO{Error: "admin credentials required to list drafts"})
					return
				}
				in.IncludeDrafts = true
			}
		}

		// 인증된 요청의 응답은 공유 캐시에 남기지 않는다.
		if middleware.IsAdmin(c) {
			c.Header("Cache-Control", "private, no-store")
		}

		page, err := svc.List(c.Request.Context(), in)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GetPostHandler godoc
// @Summary      Get post by slug or id
// @Description  Get a single post with rendered body and blocks. Reader requests of published posts count one view per browser session.
// @Tags         posts
// @Param        id   path   string  true  "Slug or ObjectID"
// @Produce      json
// @Success      200  {object}  dto.PostDetailDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [get]
func GetPostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewed := readViewedPosts(c)
		post, err := svc.Get(c.Request.Context(), c.Param("id"), services.GetPostOptions{
			Admin:         middleware.IsAdmin(c),
			CountView:     true,
			AlreadyViewed: viewed.has,
		})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		if post.Published && !middleware.IsAdmin(c) {
			viewed.add(post.ID)
			writeViewedPosts(c, viewed)
		}
		c.JSON(http.StatusOK, post)
	}
}

// CreatePostHandler godoc
// @Summary      Create a post
// @Description  Create a post. Slug, read time, excerpt and SEO fields are derived.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreatePostRequest  true  "Post"
// @Success      201  {object}  dto.PostDetailDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      409  {object}  dto.ErrorResponseDTO
// @Router       /posts [post]
func CreatePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		post, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, post)
	}
}

// UpdatePostHandler godoc
// @Summary      Update a post
// @Description  Partial update. Omitted fields are left untouched.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                 true  "ObjectID"
// @Param        body  body  dto.UpdatePostRequest  true  "Fields to change"
// @Success      200  {object}  dto.PostDetailDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [put]
func UpdatePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UpdatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		post, err := svc.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

// DeletePostHandler godoc
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ObjectID"
// @Success      200  {object}  dto.DeletePostResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [delete]
func DeletePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// PublishPostHandler godoc
// @Summary      Publish a post
// @Description  published_at is stamped only on the first publish.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ObjectID"
// @Success      200  {object}  dto.PostDetailDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id}/publish [post]
func PublishPostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := svc.Publish(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

// UnpublishPostHandler godoc
// @Summary      Unpublish a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ObjectID"
// @Success      200  {object}  dto.PostDetailDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id}/unpublish [post]
func UnpublishPostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := svc.Unpublish(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, post)
	}
}
