package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"blog-cms/helper"
	"blog-cms/middleware"
	"blog-cms/models"
	"blog-cms/services"
)

// scheduled_at is accepted from datetime-local inputs as well as RFC 3339.
var scheduleLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

type ArticleHandler struct {
	articles services.ArticleService
	previews services.PreviewService
	baseURL  string
	Helper   *helper.HTTPHelper
}

func NewArticleHandler(articles services.ArticleService, previews services.PreviewService, baseURL string, h *helper.HTTPHelper) *ArticleHandler {
	return &ArticleHandler{
		articles: articles,
		previews: previews,
		baseURL:  strings.TrimRight(baseURL, "/"),
		Helper:   h,
	}
}

func (h *ArticleHandler) List(c *gin.Context) {
	articles, err := h.articles.List(c.Request.Context(), ownerID(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendPayload(c, http.StatusOK, "Articles loaded", gin.H{"articles": articles})
}

// Create starts a new draft as soon as the editor opens.
func (h *ArticleHandler) Create(c *gin.Context) {
	article, err := h.articles.CreateDraft(c.Request.Context(), ownerID(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendPayload(c, http.StatusCreated, "Draft created", gin.H{
		"article":        article,
		"is_new_article": true,
	})
}

func (h *ArticleHandler) Edit(c *gin.Context) {
	article, err := h.articles.GetOwned(c.Request.Context(), c.Param("id"), ownerID(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendPayload(c, http.StatusOK, "Article loaded", gin.H{"article": article})
}

func (h *ArticleHandler) Save(c *gin.Context) {
	var req models.SaveArticleRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	article, err := h.articles.Save(c.Request.Context(), c.Param("id"), ownerID(c), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendPayload(c, http.StatusOK, "Article saved", gin.H{"article": article})
}

func (h *ArticleHandler) UpdateTitle(c *gin.Context) {
	var req models.UpdateTitleRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	slug, err := h.articles.UpdateTitle(c.Request.Context(), c.Param("id"), ownerID(c), req.Title)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendPayload(c, http.StatusOK, "Title saved", gin.H{"slug": slug})
}

func (h *ArticleHandler) UpdateContent(c *gin.Context) {
	var req models.UpdateContentRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	stats, err := h.articles.UpdateContent(c.Request.Context(), c.Param("id"), ownerID(c), req.Content)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendPayload(c, http.StatusOK, "Content saved", gin.H{
		"word_count":   stats.WordCount,
		"reading_time": stats.ReadingTime,
	})
}

func (h *ArticleHandler) Versions(c *gin.Context) {
	versions, err := h.articles.ListVersions(c.Request.Context(), c.Param("id"), ownerID(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendPayload(c, http.StatusOK, "Versions loaded", gin.H{"versions": versions})
}

func (h *ArticleHandler) Publish(c *gin.Context) {
	article, err := h.articles.Publish(c.Request.Context(), c.Param("id"), ownerID(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendPayload(c, http.StatusOK, "Article published", gin.H{
		"article_url": h.baseURL + "/articles/" + article.SlugValue(),
	})
}

func (h *ArticleHandler) Schedule(c *gin.Context) {
	var req models.ScheduleRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}
	at, ok := parseScheduledAt(req.ScheduledAt)
	if !ok {
		h.Helper.SendError(c, http.StatusUnprocessableEntity, "The scheduled at is not a valid date.")
		return
	}

	article, err := h.articles.Schedule(c.Request.Context(), c.Param("id"), ownerID(c), at)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendPayload(c, http.StatusOK, "Article scheduled", gin.H{
		"message": "Article scheduled for " + article.ScheduledAt.Format("January 2, 2006 15:04 MST") + ".",
	})
}

// Delete answers with a redirect back to the list, success or not.
func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.articles.Delete(c.Request.Context(), c.Param("id"), ownerID(c)); err != nil {
		h.Helper.RedirectWithFlash(c, "/articles", helper.FlashError, h.Helper.ErrorMessage(err))
		return
	}
	h.Helper.RedirectWithFlash(c, "/articles", helper.FlashSuccess, "Article deleted successfully.")
}

func (h *ArticleHandler) GeneratePreview(c *gin.Context) {
	var req models.PreviewRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	url, err := h.previews.Issue(c.Request.Context(), req.UUID, ownerID(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendPayload(c, http.StatusOK, "Preview link generated", gin.H{"preview_url": url})
}

func parseScheduledAt(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range scheduleLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ownerID is only called behind AuthMiddleware.
func ownerID(c *gin.Context) uint {
	id, _ := middleware.UserID(c)
	return id
}
