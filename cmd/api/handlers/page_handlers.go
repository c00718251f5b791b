package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tech-blog/cmd/api/services"
	"tech-blog/internal/logger"
)

const defaultTagLimit = 50

// ListCategoriesHandler godoc
// @Summary      List categories
// @Description  Every category with its published post count
// @Tags         categories
// @Produce      json
// @Success      200  {array}  dto.CategoryCountDTO
// @Router       /categories [get]
func ListCategoriesHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := svc.Categories(c.Request.Context())
		if err != nil {
			logger.WarnWithFields("category counts unavailable", logger.Fields{"error": err.Error()})
		}
		c.JSON(http.StatusOK, cats)
	}
}

// ListTagsHandler godoc
// @Summary      List tags
// @Description  Tag usage over published posts, most used first
// @Tags         categories
// @Param        category  query  string  false  "Category slug"
// @Param        limit     query  int     false  "Max tags (default 50)"
// @Produce      json
// @Success      200  {array}  dto.TagCountDTO
// @Router       /tags [get]
func ListTagsHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := queryInt(c, "limit")
		if limit <= 0 {
			limit = defaultTagLimit
		}
		tags, err := svc.Tags(c.Request.Context(), c.Query("category"), limit)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, tags)
	}
}

// HomePageHandler godoc
// @Summary      Home page data
// @Description  Recent posts, featured posts and category counts. Each section fails soft.
// @Tags         pages
// @Produce      json
// @Success      200  {object}  dto.HomePageDTO
// @Router       /pages/home [get]
func HomePageHandler(svc *services.PageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Home(c.Request.Context()))
	}
}

// CategoryPageHandler godoc
// @Summary      Category page data
// @Tags         pages
// @Param        category  path   string  true   "Category slug"
// @Param        tag       query  string  false  "Tag filter"
// @Param        page      query  int     false  "Page number (1-based)"
// @Produce      json
// @Success      200  {object}  dto.CategoryPageDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /pages/categories/{category} [get]
func CategoryPageHandler(svc *services.PageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.CategoryPage(c.Request.Context(), c.Param("category"), c.Query("tag"), queryInt(c, "page"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
