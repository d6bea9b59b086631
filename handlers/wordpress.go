package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"penbridge/apierr"
	"penbridge/models"
)

var errMissingCredentials = apierr.BadRequest("Missing WordPress credentials")

func (h *Handler) CreateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, "CreateCategory", apierr.BadRequest("Invalid request body"))
		return
	}
	if !req.Complete() {
		h.respondError(c, "CreateCategory", errMissingCredentials)
		return
	}
	if req.CategoryName == "" {
		h.respondError(c, "CreateCategory", apierr.BadRequest("Category name is required"))
		return
	}

	category, err := h.wordpress.ResolveCategory(c.Request.Context(), req.SiteCredentials, req.CategoryName)
	if err != nil {
		h.respondError(c, "CreateCategory", err)
		return
	}

	c.JSON(http.StatusOK, models.CategoryResponse{ID: category.ID, Name: category.Name})
}

func (h *Handler) UploadMedia(c *gin.Context) {
	var req models.MediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, "UploadMedia", apierr.BadRequest("Invalid request body"))
		return
	}
	if !req.Complete() {
		h.respondError(c, "UploadMedia", errMissingCredentials)
		return
	}
	if req.ImageURL == "" {
		h.respondError(c, "UploadMedia", apierr.BadRequest("Image URL is required"))
		return
	}

	media, err := h.wordpress.UploadMedia(c.Request.Context(), req.SiteCredentials, req.ImageURL, req.Title)
	if err != nil {
		h.respondError(c, "UploadMedia", err)
		return
	}

	h.logger.Info("[UploadMedia] media uploaded", zap.Int("id", media.ID))
	c.JSON(http.StatusOK, media)
}

func (h *Handler) CreatePost(c *gin.Context) {
	var req models.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, "CreatePost", apierr.BadRequest("Invalid request body"))
		return
	}
	if !req.Complete() {
		h.respondError(c, "CreatePost", errMissingCredentials)
		return
	}

	post, err := h.wordpress.CreatePost(c.Request.Context(), req.SiteCredentials,
		req.Title, req.Content, req.FeaturedImageID.Int(), req.CategoryID.Int())
	if err != nil {
		h.respondError(c, "CreatePost", err)
		return
	}

	h.logger.Info("[CreatePost] draft created", zap.Int("id", post.ID))
	c.JSON(http.StatusOK, post)
}
