package models

import (
	"time"

	"gorm.io/datatypes"
)

type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusScheduled ArticleStatus = "scheduled"
	StatusPublished ArticleStatus = "published"
)

// SEOData is stored as a JSON column alongside the article.
type SEOData struct {
	MetaTitle       string   `json:"meta_title,omitempty" validate:"omitempty,max=255"`
	MetaDescription string   `json:"meta_description,omitempty" validate:"omitempty,max=500"`
	Keywords        []string `json:"keywords,omitempty"`
	CanonicalURL    string   `json:"canonical_url,omitempty" validate:"omitempty,url"`
	OGImage         string   `json:"og_image,omitempty" validate:"omitempty,url"`
}

type Article struct {
	ID          uint                        `json:"id" gorm:"primarykey"`
	UUID        string                      `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"`
	UserID      uint                        `json:"user_id" gorm:"not null;index"`
	Author      *User                       `json:"author,omitempty" gorm:"foreignKey:UserID"`
	Title       string                      `json:"title" gorm:"size:255;not null;default:''"`
	Slug        *string                     `json:"slug" gorm:"size:255;uniqueIndex"`
	Content     string                      `json:"content" gorm:"type:text;not null;default:''"`
	Status      ArticleStatus               `json:"status" gorm:"size:20;not null;default:'draft'"`
	PublishedAt *time.Time                  `json:"published_at"`
	ScheduledAt *time.Time                  `json:"scheduled_at"`
	SEOData     datatypes.JSONType[SEOData] `json:"seo_data" gorm:"column:seo_data"`
	WordCount   int                         `json:"word_count" gorm:"not null;default:0"`
	ReadingTime int                         `json:"reading_time" gorm:"not null;default:0"`
	Versions    []ArticleVersion            `json:"versions,omitempty" gorm:"foreignKey:ArticleID"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// SlugValue returns the slug or an empty string when none is assigned.
func (a *Article) SlugValue() string {
	if a.Slug == nil {
		return ""
	}
	return *a.Slug
}

// Publishable reports whether the article carries both a title and content.
func (a *Article) Publishable() bool {
	return a.Title != "" && a.Content != ""
}
