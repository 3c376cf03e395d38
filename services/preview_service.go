package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"blog-cms/cache"
	"blog-cms/models"
	"blog-cms/repositories"
)

const (
	previewTokenLength = 32
	previewKeyPrefix   = "preview_"
)

var errPreviewUnavailable = models.NewNotFound("Preview not available or has expired.")

// PreviewService issues bearer links that show an article regardless of status.
type PreviewService interface {
	Issue(ctx context.Context, uuid string, ownerID uint) (string, error)
	Resolve(ctx context.Context, token string) (*models.Article, error)
}

type previewService struct {
	store   repositories.Store
	cache   cache.Store
	baseURL string
	ttl     time.Duration
	log     zerolog.Logger
}

func NewPreviewService(store repositories.Store, c cache.Store, baseURL string, ttl time.Duration, log zerolog.Logger) PreviewService {
	return &previewService{
		store:   store,
		cache:   c,
		baseURL: strings.TrimRight(baseURL, "/"),
		ttl:     ttl,
		log:     log.With().Str("component", "preview").Logger(),
	}
}

func (s *previewService) Issue(ctx context.Context, uuid string, ownerID uint) (string, error) {
	article, err := s.store.Articles().GetOwned(ctx, uuid, ownerID)
	if err != nil {
		return "", classify(s.log, err, "failed to generate preview link", errArticleNotFound)
	}

	token, err := randomString(previewTokenLength, alphaNumeric)
	if err != nil {
		return "", classify(s.log, err, "failed to generate preview link", errArticleNotFound)
	}
	if err := s.cache.Set(ctx, previewKeyPrefix+token, article.UUID, s.ttl); err != nil {
		return "", classify(s.log, err, "failed to generate preview link", errArticleNotFound)
	}

	return s.baseURL + "/preview/" + token, nil
}

func (s *previewService) Resolve(ctx context.Context, token string) (*models.Article, error) {
	if token == "" {
		return nil, errPreviewUnavailable
	}

	uuid, err := s.cache.Get(ctx, previewKeyPrefix+token)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, errPreviewUnavailable
	}
	if err != nil {
		return nil, classify(s.log, err, "failed to read preview token", errPreviewUnavailable)
	}

	article, err := s.store.Articles().GetByUUID(ctx, uuid)
	if err != nil {
		return nil, classify(s.log, err, "failed to load preview", errPreviewUnavailable)
	}
	return article, nil
}
