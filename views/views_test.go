package views

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"blog-cms/helper"
	"blog-cms/models"
)

func TestArticleTemplate(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	published := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	article := &models.Article{
		Title:       "Hello <World>",
		Content:     "<p>Body <em>text</em></p>",
		Status:      models.StatusPublished,
		PublishedAt: &published,
		ReadingTime: 1,
		SEOData:     datatypes.NewJSONType(models.SEOData{MetaDescription: "About things"}),
	}

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "article.html", NewArticlePage(article, false)))
	out := buf.String()

	assert.Contains(t, out, "Hello &lt;World&gt;")
	assert.Contains(t, out, "<p>Body <em>text</em></p>")
	assert.Contains(t, out, `content="About things"`)
	assert.Contains(t, out, "March 1, 2025")
	assert.NotContains(t, out, "preview-banner")

	buf.Reset()
	article.Status = models.StatusDraft
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "article.html", NewArticlePage(article, true)))
	assert.Contains(t, buf.String(), "preview-banner")
	assert.Contains(t, buf.String(), "noindex")
}

func TestHomeTemplate(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "home.html", HomePage{Flash: helper.Flash{Error: "Article not found"}}))
	assert.Contains(t, buf.String(), "Article not found")
	assert.NotContains(t, buf.String(), "flash-success")
}
