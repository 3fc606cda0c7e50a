package api

import (
	"net/http"

	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	services *service.Services
	r        *responder
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, r *responder, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		r:        r,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// Create handles POST /articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var req models.CreateArticleRequest
	if !h.r.bind(c, &req) {
		return
	}

	article, err := h.services.Article.Create(c.Request.Context(), &req)
	if err != nil {
		h.r.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "article created successfully",
		"article": article,
	})
}

// List handles GET /articles
func (h *ArticleHandler) List(c *gin.Context) {
	articles, err := h.services.Article.ListPublished(c.Request.Context())
	if err != nil {
		h.r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// Get handles GET /articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	article, err := h.services.Article.Get(c.Request.Context(), id)
	if err != nil {
		h.r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// ListMine handles GET /articles/user/me
func (h *ArticleHandler) ListMine(c *gin.Context) {
	articles, err := h.services.Article.ListMine(c.Request.Context())
	if err != nil {
		h.r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// GetMine handles GET /articles/user/:id
func (h *ArticleHandler) GetMine(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	article, err := h.services.Article.GetMine(c.Request.Context(), id)
	if err != nil {
		h.r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Update handles PUT /articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateArticleRequest
	if !h.r.bind(c, &req) {
		return
	}

	article, err := h.services.Article.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.r.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "article updated successfully",
		"article": article,
	})
}

// Delete handles DELETE /articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Article.Delete(c.Request.Context(), id); err != nil {
		h.r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "article deleted successfully"})
}
