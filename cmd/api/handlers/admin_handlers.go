package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tech-blog/cmd/api/dto"
	"tech-blog/cmd/api/services"
)

// @Summary Admin login
// @Description Exchange the admin username/password for a signed token
// @Tags admin
// @Accept json
// @Produce json
// @Param body body dto.LoginRequestDTO true "Credentials"
// @Success 200 {object} dto.LoginResponseDTO
// @Failure 400 {object} dto.ErrorResponseDTO
// @Failure 401 {object} dto.ErrorResponseDTO
// @Router /admin/login [post]
func AdminLoginHandler(svc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.LoginRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := svc.Login(req)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary List posts for admin
// @Description List every post including drafts, newest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param category query string false "Filter by category"
// @Param published query bool false "Filter by published state"
// @Success 200 {object} dto.PaginationPostDTO
// @Failure 401 {object} dto.ErrorResponseDTO
// @Failure 500 {object} dto.ErrorResponseDTO
// @Router /admin/posts [get]
func AdminListPostsHandler(svc *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

		var published *bool
		if v := c.Query("published"); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				published = &b
			}
		}

		resp, err := svc.ListPosts(c.Request.Context(), services.AdminListPostsInput{
			Page:      page,
			PageSize:  pageSize,
			Category:  c.Query("category"),
			Published: published,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary Admin dashboard stats
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AdminStatsDTO
// @Failure 401 {object} dto.ErrorResponseDTO
// @Failure 500 {object} dto.ErrorResponseDTO
// @Router /admin/stats [get]
func AdminStatsHandler(svc *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// @Summary Upload an image
// @Description Stores a resized JPEG under the uploads directory and returns a ready-to-paste placeholder
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image (jpeg, png, gif, webp)"
// @Success 201 {object} dto.MediaUploadDTO
// @Failure 400 {object} dto.ErrorResponseDTO
// @Failure 413 {object} dto.ErrorResponseDTO
// @Router /admin/media [post]
func AdminUploadMediaHandler(svc *services.MediaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// multipart 오버헤드를 감안해 1MB 여유를 둔다.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, svc.MaxBytes()+1<<20)

		file, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponseDTO{Error: services.ErrFileTooLarge.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "no file provided", Details: err.Error()})
			return
		}
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "cannot read upload", Details: err.Error()})
			return
		}
		defer src.Close()

		res, err := svc.Upload(c.Request.Context(), file.Filename, file.Size, src)
		switch {
		case err == nil:
			c.JSON(http.StatusCreated, res)
		case errors.Is(err, services.ErrFileTooLarge), errors.Is(err, services.ErrImageTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponseDTO{Error: err.Error()})
		case errors.Is(err, services.ErrUnsupportedImage):
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: err.Error()})
		default:
			writeServiceError(c, err)
		}
	}
}

// @Summary List uploaded images
// @Description Newest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.MediaFileDTO
// @Failure 401 {object} dto.ErrorResponseDTO
// @Router /admin/media [get]
func AdminListMediaHandler(svc *services.MediaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		files, err := svc.List(c.Request.Context())
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, files)
	}
}
