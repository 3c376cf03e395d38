package models

import (
	"time"

	"gorm.io/datatypes"
)

type MediaMetadata struct {
	Width  *int `json:"width,omitempty"`
	Height *int `json:"height,omitempty"`
}

type Media struct {
	ID           uint                              `json:"id" gorm:"primarykey"`
	UserID       uint                              `json:"user_id" gorm:"not null;index"`
	OriginalName string                            `json:"original_name" gorm:"size:255;not null"`
	Filename     string                            `json:"filename" gorm:"size:255;not null"`
	MimeType     string                            `json:"mime_type" gorm:"size:100;not null"`
	Path         string                            `json:"path" gorm:"size:500;not null"`
	Size         int64                             `json:"size" gorm:"not null"`
	Metadata     datatypes.JSONType[MediaMetadata] `json:"metadata"`
	URL          string                            `json:"url" gorm:"-"`
	CreatedAt    time.Time                         `json:"created_at"`
	UpdatedAt    time.Time                         `json:"updated_at"`
}

func (Media) TableName() string {
	return "media"
}

// ArticleMedia links an article to a media item. The pair is the primary key.
type ArticleMedia struct {
	ArticleID uint      `json:"article_id" gorm:"primaryKey"`
	MediaID   uint      `json:"media_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ArticleMedia) TableName() string {
	return "article_media"
}
