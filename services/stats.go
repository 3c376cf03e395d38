package services

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"blog-cms/models"
)

const wordsPerMinute = 200

// blockElements break words apart. Text inside any other element runs on.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true, "figure": true,
	"footer": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "ol": true, "p": true, "pre": true,
	"section": true, "table": true, "td": true, "th": true, "tr": true, "ul": true,
}

// ComputeWordStats counts the words of the visible text in an HTML fragment.
// Non-empty content always reads in at least one minute.
func ComputeWordStats(content string) (models.WordStats, error) {
	if content == "" {
		return models.WordStats{}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return models.WordStats{}, fmt.Errorf("parse content: %w", err)
	}
	doc.Find("script, style").Remove()

	var text strings.Builder
	writeText(&text, doc.Selection)

	words := len(strings.Fields(text.String()))
	return models.WordStats{
		WordCount:   words,
		ReadingTime: readingTime(words),
	}, nil
}

func writeText(b *strings.Builder, sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		switch {
		case name == "#text":
			b.WriteString(s.Text())
		case blockElements[name]:
			b.WriteByte(' ')
			writeText(b, s)
			b.WriteByte(' ')
		default:
			writeText(b, s)
		}
	})
}

func readingTime(words int) int {
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
