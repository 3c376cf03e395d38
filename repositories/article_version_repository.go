package repositories

import (
	"context"

	"gorm.io/gorm"

	"blog-cms/models"
)

type ArticleVersionRepository interface {
	Create(ctx context.Context, version *models.ArticleVersion) error
	CountByArticle(ctx context.Context, articleID uint) (int64, error)
	ListByArticle(ctx context.Context, articleID uint) ([]models.ArticleVersion, error)
	DeleteByArticleID(ctx context.Context, articleID uint) error
}

type articleVersionRepository struct {
	db *gorm.DB
}

func NewArticleVersionRepository(db *gorm.DB) ArticleVersionRepository {
	return &articleVersionRepository{db: db}
}

func (r *articleVersionRepository) Create(ctx context.Context, version *models.ArticleVersion) error {
	return r.db.WithContext(ctx).Create(version).Error
}

func (r *articleVersionRepository) CountByArticle(ctx context.Context, articleID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ArticleVersion{}).
		Where("article_id = ?", articleID).
		Count(&count).Error
	return count, err
}

func (r *articleVersionRepository) ListByArticle(ctx context.Context, articleID uint) ([]models.ArticleVersion, error) {
	var versions []models.ArticleVersion
	err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at desc, id desc").
		Find(&versions).Error
	return versions, err
}

func (r *articleVersionRepository) DeleteByArticleID(ctx context.Context, articleID uint) error {
	return r.db.WithContext(ctx).Where("article_id = ?", articleID).Delete(&models.ArticleVersion{}).Error
}
