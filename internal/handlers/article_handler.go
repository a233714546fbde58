package handlers

import (
	"context"
	"net/http"

	"provenance-api/internal/models"

	"github.com/gin-gonic/gin"
)

// ArticleLister lists article infos.
type ArticleLister interface {
	All(ctx context.Context) ([]models.ArticleInfo, error)
	Available(ctx context.Context) ([]models.ArticleInfo, error)
}

// ArticleHandler serves the article listings.
type ArticleHandler struct {
	lister ArticleLister
}

// NewArticleHandler returns an ArticleHandler reading from lister.
func NewArticleHandler(lister ArticleLister) *ArticleHandler {
	return &ArticleHandler{lister: lister}
}

// GetArticles handles GET /articles
// Returns every article as a JSON array of {id, title}.
func (h *ArticleHandler) GetArticles(c *gin.Context) {
	h.respond(c, h.lister.All)
}

// GetAvailable handles GET /available
// Returns the available articles as a JSON array of {id, title}.
func (h *ArticleHandler) GetAvailable(c *gin.Context) {
	h.respond(c, h.lister.Available)
}

func (h *ArticleHandler) respond(c *gin.Context, list func(context.Context) ([]models.ArticleInfo, error)) {
	infos, err := list(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch articles",
		})
		return
	}
	c.JSON(http.StatusOK, infos)
}
