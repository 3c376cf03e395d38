package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one connection or transaction.
type Store interface {
	Articles() ArticleRepository
	Versions() ArticleVersionRepository
	Media() MediaRepository
	Users() UserRepository
	// Transaction runs fn against a transactional Store. An error from fn rolls back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Articles() ArticleRepository {
	return NewArticleRepository(s.db)
}

func (s *gormStore) Versions() ArticleVersionRepository {
	return NewArticleVersionRepository(s.db)
}

func (s *gormStore) Media() MediaRepository {
	return NewMediaRepository(s.db)
}

func (s *gormStore) Users() UserRepository {
	return NewUserRepository(s.db)
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
