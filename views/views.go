package views

import (
	"embed"
	"html/template"
	"time"

	"blog-cms/helper"
	"blog-cms/models"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the embedded pages for gin's HTML renderer.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"date": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("January 2, 2006")
		},
	}).ParseFS(files, "templates/*.html")
}

// ArticlePage is shared by the public view and the preview.
type ArticlePage struct {
	Article *models.Article
	SEO     models.SEOData
	// Content is author HTML rendered as-is.
	Content template.HTML
	Preview bool
}

func NewArticlePage(article *models.Article, preview bool) ArticlePage {
	return ArticlePage{
		Article: article,
		SEO:     article.SEOData.Data(),
		Content: template.HTML(article.Content),
		Preview: preview,
	}
}

type HomePage struct {
	Flash helper.Flash
}
