package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"blog-cms/models"
	"blog-cms/repositories"
)

const (
	draftSlugLength = 10
	maxSlugAttempts = 3
)

var errArticleNotFound = models.NewNotFound("Article not found")

type ArticleService interface {
	CreateDraft(ctx context.Context, ownerID uint) (*models.Article, error)
	List(ctx context.Context, ownerID uint) ([]models.Article, error)
	GetOwned(ctx context.Context, uuid string, ownerID uint) (*models.Article, error)
	Save(ctx context.Context, uuid string, ownerID uint, req models.SaveArticleRequest) (*models.Article, error)
	UpdateTitle(ctx context.Context, uuid string, ownerID uint, title string) (string, error)
	UpdateContent(ctx context.Context, uuid string, ownerID uint, content string) (models.WordStats, error)
	Publish(ctx context.Context, uuid string, ownerID uint) (*models.Article, error)
	Schedule(ctx context.Context, uuid string, ownerID uint, at time.Time) (*models.Article, error)
	Delete(ctx context.Context, uuid string, ownerID uint) error
	ListVersions(ctx context.Context, uuid string, ownerID uint) ([]models.ArticleVersion, error)
	GetPublished(ctx context.Context, slug string) (*models.Article, error)
}

// Option customises services in tests.
type Option func(*options)

type options struct {
	now func() time.Time
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type articleService struct {
	store repositories.Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewArticleService(store repositories.Store, log zerolog.Logger, opts ...Option) ArticleService {
	o := buildOptions(opts)
	return &articleService{
		store: store,
		log:   log.With().Str("component", "articles").Logger(),
		now:   o.now,
	}
}

func (s *articleService) CreateDraft(ctx context.Context, ownerID uint) (*models.Article, error) {
	var article *models.Article
	err := s.withSlugRetry(ctx, "create draft", func(tx repositories.Store) error {
		suffix, err := randomString(draftSlugLength, lowerNumeric)
		if err != nil {
			return err
		}
		slug := "draft-" + suffix
		article = &models.Article{
			UUID:   uuid.NewString(),
			UserID: ownerID,
			Slug:   &slug,
			Status: models.StatusDraft,
		}
		return tx.Articles().Create(ctx, article)
	})
	if err != nil {
		return nil, s.fail(err, "failed to create draft")
	}

	s.log.Info().Str("article_uuid", article.UUID).Uint("user_id", ownerID).Msg("Draft created")
	return article, nil
}

func (s *articleService) List(ctx context.Context, ownerID uint) ([]models.Article, error) {
	articles, err := s.store.Articles().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.fail(err, "failed to list articles")
	}
	return articles, nil
}

func (s *articleService) GetOwned(ctx context.Context, uuid string, ownerID uint) (*models.Article, error) {
	article, err := s.store.Articles().GetOwned(ctx, uuid, ownerID)
	if err != nil {
		return nil, s.fail(err, "failed to load article")
	}
	return article, nil
}

// Save applies the supplied fields and appends a numbered snapshot, all in one transaction.
func (s *articleService) Save(ctx context.Context, uuid string, ownerID uint, req models.SaveArticleRequest) (*models.Article, error) {
	var saved *models.Article
	err := s.withSlugRetry(ctx, "save", func(tx repositories.Store) error {
		article, err := tx.Articles().GetOwned(ctx, uuid, ownerID)
		if err != nil {
			return err
		}

		if req.Title != nil {
			article.Title = *req.Title
			if article.Status == models.StatusDraft {
				if err := s.assignSlug(ctx, tx, article); err != nil {
					return err
				}
			}
		}
		if req.Content != nil {
			article.Content = *req.Content
		}
		if req.SEOData != nil {
			article.SEOData = datatypes.NewJSONType(*req.SEOData)
		}
		s.refreshStats(article)

		if err := tx.Articles().Update(ctx, article); err != nil {
			return err
		}

		count, err := tx.Versions().CountByArticle(ctx, article.ID)
		if err != nil {
			return err
		}
		if err := tx.Versions().Create(ctx, &models.ArticleVersion{
			ArticleID:   article.ID,
			Content:     article.Content,
			VersionName: models.SnapshotVersionName(count + 1),
		}); err != nil {
			return err
		}

		saved = article
		return nil
	})
	if err != nil {
		return nil, s.fail(err, "failed to save article")
	}
	return saved, nil
}

func (s *articleService) UpdateTitle(ctx context.Context, uuid string, ownerID uint, title string) (string, error) {
	var slug string
	err := s.withSlugRetry(ctx, "update title", func(tx repositories.Store) error {
		article, err := tx.Articles().GetOwned(ctx, uuid, ownerID)
		if err != nil {
			return err
		}

		article.Title = title
		if article.Status == models.StatusDraft {
			if err := s.assignSlug(ctx, tx, article); err != nil {
				return err
			}
		}
		if err := tx.Articles().Update(ctx, article); err != nil {
			return err
		}

		slug = article.SlugValue()
		return nil
	})
	if err != nil {
		return "", s.fail(err, "failed to update title")
	}
	return slug, nil
}

func (s *articleService) UpdateContent(ctx context.Context, uuid string, ownerID uint, content string) (models.WordStats, error) {
	article, err := s.store.Articles().GetOwned(ctx, uuid, ownerID)
	if err != nil {
		return models.WordStats{}, s.fail(err, "failed to update content")
	}

	article.Content = content
	s.refreshStats(article)

	if err := s.store.Articles().Update(ctx, article); err != nil {
		return models.WordStats{}, s.fail(err, "failed to update content")
	}
	return models.WordStats{WordCount: article.WordCount, ReadingTime: article.ReadingTime}, nil
}

func (s *articleService) Publish(ctx context.Context, uuid string, ownerID uint) (*models.Article, error) {
	var published *models.Article
	err := s.withSlugRetry(ctx, "publish", func(tx repositories.Store) error {
		article, err := tx.Articles().GetOwned(ctx, uuid, ownerID)
		if err != nil {
			return err
		}
		if !article.Publishable() {
			return models.NewValidation("Article must have a title and content to be published.")
		}

		if err := s.assignSlug(ctx, tx, article); err != nil {
			return err
		}
		now := s.now()
		article.Status = models.StatusPublished
		article.PublishedAt = &now

		if err := tx.Articles().Update(ctx, article); err != nil {
			return err
		}
		if err := tx.Versions().Create(ctx, &models.ArticleVersion{
			ArticleID:   article.ID,
			Content:     article.Content,
			VersionName: models.PublishedVersionName,
		}); err != nil {
			return err
		}

		published = article
		return nil
	})
	if err != nil {
		return nil, s.fail(err, "failed to publish article")
	}

	s.log.Info().Str("article_uuid", uuid).Str("slug", published.SlugValue()).Msg("Article published")
	return published, nil
}

// Schedule queues a publishable article for the sweeper. The slug is fixed now
// so the public URL is known before publication.
func (s *articleService) Schedule(ctx context.Context, uuid string, ownerID uint, at time.Time) (*models.Article, error) {
	if !at.After(s.now()) {
		return nil, models.NewValidation("The scheduled time must be in the future.")
	}

	var scheduled *models.Article
	err := s.withSlugRetry(ctx, "schedule", func(tx repositories.Store) error {
		article, err := tx.Articles().GetOwned(ctx, uuid, ownerID)
		if err != nil {
			return err
		}
		if !article.Publishable() {
			return models.NewValidation("Article must have a title and content to be scheduled.")
		}

		if err := s.assignSlug(ctx, tx, article); err != nil {
			return err
		}
		when := at.UTC()
		article.Status = models.StatusScheduled
		article.ScheduledAt = &when
		article.PublishedAt = nil

		if err := tx.Articles().Update(ctx, article); err != nil {
			return err
		}
		scheduled = article
		return nil
	})
	if err != nil {
		return nil, s.fail(err, "failed to schedule article")
	}

	s.log.Info().Str("article_uuid", uuid).Time("scheduled_at", at).Msg("Article scheduled")
	return scheduled, nil
}

// Delete removes versions and media links before the article. Media rows stay.
func (s *articleService) Delete(ctx context.Context, uuid string, ownerID uint) error {
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		article, err := tx.Articles().GetOwned(ctx, uuid, ownerID)
		if err != nil {
			return err
		}
		if err := tx.Versions().DeleteByArticleID(ctx, article.ID); err != nil {
			return err
		}
		if err := tx.Media().DetachAll(ctx, article.ID); err != nil {
			return err
		}
		return tx.Articles().Delete(ctx, article.ID)
	})
	if err != nil {
		return s.fail(err, "failed to delete article")
	}

	s.log.Info().Str("article_uuid", uuid).Msg("Article deleted")
	return nil
}

func (s *articleService) ListVersions(ctx context.Context, uuid string, ownerID uint) ([]models.ArticleVersion, error) {
	article, err := s.store.Articles().GetOwned(ctx, uuid, ownerID)
	if err != nil {
		return nil, s.fail(err, "failed to load article")
	}
	versions, err := s.store.Versions().ListByArticle(ctx, article.ID)
	if err != nil {
		return nil, s.fail(err, "failed to list versions")
	}
	return versions, nil
}

func (s *articleService) GetPublished(ctx context.Context, slug string) (*models.Article, error) {
	article, err := s.store.Articles().GetPublishedBySlug(ctx, slug, s.now())
	if err != nil {
		return nil, s.fail(err, "failed to load article")
	}
	return article, nil
}

// assignSlug derives a unique slug from the title. An empty title keeps the current slug.
func (s *articleService) assignSlug(ctx context.Context, tx repositories.Store, article *models.Article) error {
	if article.Title == "" {
		return nil
	}
	slug, err := uniqueSlug(ctx, tx.Articles(), article.Title, article.ID)
	if err != nil {
		return err
	}
	article.Slug = &slug
	return nil
}

// refreshStats never fails the caller; the previous figures are kept on error.
func (s *articleService) refreshStats(article *models.Article) {
	stats, err := ComputeWordStats(article.Content)
	if err != nil {
		s.log.Warn().Err(err).Str("article_uuid", article.UUID).Msg("Failed to compute word stats")
		return
	}
	article.WordCount = stats.WordCount
	article.ReadingTime = stats.ReadingTime
}

// withSlugRetry reruns fn in a fresh transaction when a concurrent writer took
// the probed slug first. The unique index on articles.slug decides the winner.
func (s *articleService) withSlugRetry(ctx context.Context, op string, fn func(tx repositories.Store) error) error {
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		err := s.store.Transaction(ctx, fn)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		s.log.Warn().Str("op", op).Int("attempt", attempt).Msg("Slug taken concurrently, retrying")
	}
	return models.ErrorConflict{Message: "Could not assign a unique slug, please try again."}
}

// fail maps repository errors onto the service error kinds.
func (s *articleService) fail(err error, message string) error {
	return classify(s.log, err, message, errArticleNotFound)
}

func classify(log zerolog.Logger, err error, message string, notFound error) error {
	var (
		nf  models.ErrorNotFound
		ve  models.ErrorValidation
		ce  models.ErrorConflict
		ue  models.ErrorUnauthorized
		ise models.ErrorInternalServer
	)
	switch {
	case errors.As(err, &nf), errors.As(err, &ve), errors.As(err, &ce), errors.As(err, &ue):
		return err
	case errors.As(err, &ise):
		log.Error().Err(err).Msg(message)
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	}
	log.Error().Err(err).Msg(message)
	return models.NewInternal(message, err)
}
