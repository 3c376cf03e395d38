package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blog-cms/models"
)

type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	Attach(ctx context.Context, articleID, mediaID uint) error
	DetachAll(ctx context.Context, articleID uint) error
	ListByArticle(ctx context.Context, articleID uint) ([]models.Media, error)
}

type mediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *models.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

// Attach links media to an article. Attaching an existing pair is a no-op.
func (r *mediaRepository) Attach(ctx context.Context, articleID, mediaID uint) error {
	link := models.ArticleMedia{ArticleID: articleID, MediaID: mediaID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link).Error
}

// DetachAll removes the article's links. Media rows are kept.
func (r *mediaRepository) DetachAll(ctx context.Context, articleID uint) error {
	return r.db.WithContext(ctx).Where("article_id = ?", articleID).Delete(&models.ArticleMedia{}).Error
}

func (r *mediaRepository) ListByArticle(ctx context.Context, articleID uint) ([]models.Media, error) {
	var media []models.Media
	err := r.db.WithContext(ctx).
		Joins("JOIN article_media ON article_media.media_id = media.id").
		Where("article_media.article_id = ?", articleID).
		Order("article_media.created_at asc").
		Find(&media).Error
	return media, err
}
