package models

import (
	"fmt"
	"time"
)

const PublishedVersionName = "Published Version"

// SnapshotVersionName labels the n-th manual save of an article.
func SnapshotVersionName(n int64) string {
	return fmt.Sprintf("Snapshot %d", n)
}

// ArticleVersion is an immutable copy of an article's content.
type ArticleVersion struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	ArticleID   uint      `json:"article_id" gorm:"not null;index"`
	Content     string    `json:"content" gorm:"type:text;not null;default:''"`
	VersionName string    `json:"version_name" gorm:"size:255;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
