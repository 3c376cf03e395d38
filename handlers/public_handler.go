package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-cms/helper"
	"blog-cms/services"
	"blog-cms/views"
)

// PublicHandler serves the HTML pages that need no session.
type PublicHandler struct {
	articles services.ArticleService
	previews services.PreviewService
	Helper   *helper.HTTPHelper
}

func NewPublicHandler(articles services.ArticleService, previews services.PreviewService, h *helper.HTTPHelper) *PublicHandler {
	return &PublicHandler{articles: articles, previews: previews, Helper: h}
}

func (h *PublicHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", views.HomePage{Flash: h.Helper.PopFlash(c)})
}

// ShowArticle renders a live article by slug.
func (h *PublicHandler) ShowArticle(c *gin.Context) {
	article, err := h.articles.GetPublished(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Helper.RedirectWithFlash(c, "/", helper.FlashError, h.Helper.ErrorMessage(err))
		return
	}
	c.HTML(http.StatusOK, "article.html", views.NewArticlePage(article, false))
}

func (h *PublicHandler) ShowPreview(c *gin.Context) {
	article, err := h.previews.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.Helper.RedirectWithFlash(c, "/", helper.FlashError, h.Helper.ErrorMessage(err))
		return
	}
	c.HTML(http.StatusOK, "article.html", views.NewArticlePage(article, true))
}
