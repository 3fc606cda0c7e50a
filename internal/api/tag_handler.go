package api

import (
	"net/http"

	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// TagHandler handles tag endpoints
type TagHandler struct {
	services *service.Services
	r        *responder
	log      zerolog.Logger
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(services *service.Services, r *responder, log zerolog.Logger) *TagHandler {
	return &TagHandler{
		services: services,
		r:        r,
		log:      log.With().Str("handler", "tag").Logger(),
	}
}

// Create handles POST /tags
func (h *TagHandler) Create(c *gin.Context) {
	var req models.TagRequest
	if !h.r.bind(c, &req) {
		return
	}

	tag, err := h.services.Tag.Create(c.Request.Context(), &req)
	if err != nil {
		h.r.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "tag created successfully",
		"tag":     tag,
	})
}

// List handles GET /tags
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.services.Tag.List(c.Request.Context())
	if err != nil {
		h.r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

// Get handles GET /tags/:id
func (h *TagHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	tag, err := h.services.Tag.Get(c.Request.Context(), id)
	if err != nil {
		h.r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// Update handles PUT /tags/:id
func (h *TagHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateTagRequest
	if !h.r.bind(c, &req) {
		return
	}

	tag, err := h.services.Tag.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.r.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "tag updated successfully",
		"tag":     tag,
	})
}

// Delete handles DELETE /tags/:id
func (h *TagHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Tag.Delete(c.Request.Context(), id); err != nil {
		h.r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tag deleted successfully"})
}

// ArticleTagHandler handles article-tag relation endpoints
type ArticleTagHandler struct {
	services *service.Services
	r        *responder
	log      zerolog.Logger
}

// NewArticleTagHandler creates a new ArticleTagHandler
func NewArticleTagHandler(services *service.Services, r *responder, log zerolog.Logger) *ArticleTagHandler {
	return &ArticleTagHandler{
		services: services,
		r:        r,
		log:      log.With().Str("handler", "article_tag").Logger(),
	}
}

// Attach handles POST /articles-tags
func (h *ArticleTagHandler) Attach(c *gin.Context) {
	var req models.ArticleTagRequest
	if !h.r.bind(c, &req) {
		return
	}

	rel, err := h.services.ArticleTag.Attach(c.Request.Context(), &req)
	if err != nil {
		h.r.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "tag attached successfully",
		"relation": rel,
	})
}

// Detach handles DELETE /articles-tags/:id
func (h *ArticleTagHandler) Detach(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.services.ArticleTag.Detach(c.Request.Context(), id); err != nil {
		h.r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tag detached successfully"})
}
