package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blog-cms/models"
)

type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByUUID(ctx context.Context, uuid string) (*models.Article, error)
	GetOwned(ctx context.Context, uuid string, userID uint) (*models.Article, error)
	GetPublishedBySlug(ctx context.Context, slug string, now time.Time) (*models.Article, error)
	ListByOwner(ctx context.Context, userID uint) ([]models.Article, error)
	ListDueScheduled(ctx context.Context, now time.Time) ([]models.Article, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id uint) error
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *articleRepository) GetByUUID(ctx context.Context, id string) (*models.Article, error) {
	var article models.Article
	if !validUUID(id) {
		return &article, gorm.ErrRecordNotFound
	}
	err := r.db.WithContext(ctx).Where("uuid = ?", id).First(&article).Error
	return &article, err
}

func (r *articleRepository) GetOwned(ctx context.Context, id string, userID uint) (*models.Article, error) {
	var article models.Article
	if !validUUID(id) {
		return &article, gorm.ErrRecordNotFound
	}
	err := r.db.WithContext(ctx).
		Where("uuid = ? AND user_id = ?", id, userID).
		First(&article).Error
	return &article, err
}

// validUUID guards the uuid column, which rejects malformed input with an
// error rather than an empty result.
func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *articleRepository) GetPublishedBySlug(ctx context.Context, slug string, now time.Time) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("slug = ? AND status = ?", slug, models.StatusPublished).
		Where("published_at IS NOT NULL AND published_at <= ?", now).
		First(&article).Error
	return &article, err
}

func (r *articleRepository) ListByOwner(ctx context.Context, userID uint) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) ListDueScheduled(ctx context.Context, now time.Time) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at <= ?", models.StatusScheduled, now).
		Order("scheduled_at asc").
		Find(&articles).Error
	return articles, err
}

// SlugExists reports whether any article other than excludeID holds slug.
func (r *articleRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Article{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Omit("Author", "Versions").Save(article).Error
}

func (r *articleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Article{}, id).Error
}
