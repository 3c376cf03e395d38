package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"blog-cms/models"
	"blog-cms/repositories"
)

// PublishScheduler promotes scheduled articles whose time has come. It holds
// no state between runs, so a cron-triggered one-shot and the in-process
// ticker behave the same.
type PublishScheduler struct {
	store repositories.Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewPublishScheduler(store repositories.Store, log zerolog.Logger, opts ...Option) *PublishScheduler {
	o := buildOptions(opts)
	return &PublishScheduler{
		store: store,
		log:   log.With().Str("component", "publish_scheduler").Logger(),
		now:   o.now,
	}
}

// Run publishes every due article and returns how many succeeded. A failing
// article is logged and skipped.
func (p *PublishScheduler) Run(ctx context.Context) (int, error) {
	now := p.now()

	due, err := p.store.Articles().ListDueScheduled(ctx, now)
	if err != nil {
		p.log.Error().Err(err).Msg("Failed to load scheduled articles")
		return 0, models.NewInternal("failed to load scheduled articles", err)
	}

	published := 0
	for i := range due {
		if err := ctx.Err(); err != nil {
			return published, err
		}

		article := &due[i]
		if err := p.publish(ctx, article, now); err != nil {
			p.log.Error().Err(err).Str("article_uuid", article.UUID).Msg("Failed to publish scheduled article")
			continue
		}
		published++
		p.log.Info().Str("article_uuid", article.UUID).Str("slug", article.SlugValue()).Msg("Scheduled article published")
	}

	p.log.Info().Int("due", len(due)).Int("published", published).Msg("Scheduled publication sweep finished")
	return published, nil
}

func (p *PublishScheduler) publish(ctx context.Context, article *models.Article, now time.Time) error {
	return p.store.Transaction(ctx, func(tx repositories.Store) error {
		publishedAt := now
		article.Status = models.StatusPublished
		article.PublishedAt = &publishedAt

		if err := tx.Articles().Update(ctx, article); err != nil {
			return err
		}
		return tx.Versions().Create(ctx, &models.ArticleVersion{
			ArticleID:   article.ID,
			Content:     article.Content,
			VersionName: models.PublishedVersionName,
		})
	})
}

// Start sweeps every interval until ctx is cancelled.
func (p *PublishScheduler) Start(ctx context.Context, interval time.Duration) {
	p.log.Info().Dur("interval", interval).Msg("Publish scheduler started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("Publish scheduler stopping")
			return
		case <-ticker.C:
			if _, err := p.Run(ctx); err != nil && ctx.Err() == nil {
				p.log.Error().Err(err).Msg("Scheduled publication sweep failed")
			}
		}
	}
}
