package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"blog-cms/repositories"
)

const fallbackSlug = "article"

// reservedSlugs collide with fixed routes under /articles.
var reservedSlugs = map[string]bool{"create": true}

var (
	slugStrip     = regexp.MustCompile(`[^a-z0-9\s_-]+`)
	slugSeparator = regexp.MustCompile(`[\s_-]+`)

	// letters that do not decompose into a base letter plus a mark
	slugLetters = strings.NewReplacer(
		"ß", "ss", "æ", "ae", "Æ", "ae", "œ", "oe", "Œ", "oe",
		"ø", "o", "Ø", "o", "ł", "l", "Ł", "l", "đ", "d", "Đ", "d",
		"þ", "th", "Þ", "th",
	)
)

// Slugify lowercases title, folds accents to ASCII, spells "@" as "at" and
// joins the remaining words with "-". Punctuation is dropped.
func Slugify(title string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		slugLetters.Replace(title),
	)
	if err != nil {
		folded = title
	}

	s := strings.ToLower(folded)
	s = strings.ReplaceAll(s, "@", "-at-")
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSeparator.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// uniqueSlug probes base, base-1, base-2, ... ignoring the article excludeID.
func uniqueSlug(ctx context.Context, articles repositories.ArticleRepository, title string, excludeID uint) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = fallbackSlug
	}

	candidate := base
	for n := 1; ; n++ {
		taken := reservedSlugs[candidate]
		if !taken {
			exists, err := articles.SlugExists(ctx, candidate, excludeID)
			if err != nil {
				return "", err
			}
			taken = exists
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
