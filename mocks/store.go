package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"blog-cms/models"
	"blog-cms/repositories"
)

type linkKey struct {
	articleID uint
	mediaID   uint
}

// Store is an in-memory repositories.Store. Transaction restores the previous
// state when fn fails, and unique slugs are enforced like the database index.
type Store struct {
	mu sync.Mutex

	ArticleRows map[uint]*models.Article
	VersionRows map[uint]*models.ArticleVersion
	MediaRows   map[uint]*models.Media
	Links       map[linkKey]models.ArticleMedia
	UserRows    map[uint]*models.User

	nextID uint

	// UpdateErrFor fails Articles().Update for the given article uuid.
	UpdateErrFor map[string]error
	// DuplicateSlugFailures makes that many slug writes fail with gorm.ErrDuplicatedKey.
	DuplicateSlugFailures int
	VersionCreateErr      error
	MediaCreateErr        error
	ListErr               error

	TransactionCalls int
}

func NewStore() *Store {
	return &Store{
		ArticleRows:  make(map[uint]*models.Article),
		VersionRows:  make(map[uint]*models.ArticleVersion),
		MediaRows:    make(map[uint]*models.Media),
		Links:        make(map[linkKey]models.ArticleMedia),
		UserRows:     make(map[uint]*models.User),
		UpdateErrFor: make(map[string]error),
	}
}

func (s *Store) Articles() repositories.ArticleRepository       { return &articleRepo{s} }
func (s *Store) Versions() repositories.ArticleVersionRepository { return &versionRepo{s} }
func (s *Store) Media() repositories.MediaRepository             { return &mediaRepo{s} }
func (s *Store) Users() repositories.UserRepository              { return &userRepo{s} }

func (s *Store) Transaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	s.mu.Lock()
	s.TransactionCalls++
	snap := s.snapshot()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.restore(snap)
		s.mu.Unlock()
		return err
	}
	return nil
}

// SeedArticle stores a copy of a and returns it with an id assigned.
func (s *Store) SeedArticle(a models.Article) *models.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	a.ID = s.nextID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.UpdatedAt = a.CreatedAt
	stored := cloneArticle(&a)
	s.ArticleRows[a.ID] = stored
	return cloneArticle(stored)
}

// Article returns a copy of the stored article with uuid, or nil.
func (s *Store) Article(uuid string) *models.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.ArticleRows {
		if a.UUID == uuid {
			return cloneArticle(a)
		}
	}
	return nil
}

// VersionsFor returns the article's versions in insertion order.
func (s *Store) VersionsFor(articleID uint) []models.ArticleVersion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versionsFor(articleID)
}

func (s *Store) versionsFor(articleID uint) []models.ArticleVersion {
	var out []models.ArticleVersion
	for _, v := range s.VersionRows {
		if v.ArticleID == articleID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type storeState struct {
	articles map[uint]*models.Article
	versions map[uint]*models.ArticleVersion
	media    map[uint]*models.Media
	links    map[linkKey]models.ArticleMedia
	users    map[uint]*models.User
}

func (s *Store) snapshot() storeState {
	st := storeState{
		articles: make(map[uint]*models.Article, len(s.ArticleRows)),
		versions: make(map[uint]*models.ArticleVersion, len(s.VersionRows)),
		media:    make(map[uint]*models.Media, len(s.MediaRows)),
		links:    make(map[linkKey]models.ArticleMedia, len(s.Links)),
		users:    make(map[uint]*models.User, len(s.UserRows)),
	}
	for k, v := range s.ArticleRows {
		st.articles[k] = cloneArticle(v)
	}
	for k, v := range s.VersionRows {
		cp := *v
		st.versions[k] = &cp
	}
	for k, v := range s.MediaRows {
		cp := *v
		st.media[k] = &cp
	}
	for k, v := range s.Links {
		st.links[k] = v
	}
	for k, v := range s.UserRows {
		cp := *v
		st.users[k] = &cp
	}
	return st
}

func (s *Store) restore(st storeState) {
	s.ArticleRows = st.articles
	s.VersionRows = st.versions
	s.MediaRows = st.media
	s.Links = st.links
	s.UserRows = st.users
}

func cloneArticle(a *models.Article) *models.Article {
	cp := *a
	if a.Slug != nil {
		slug := *a.Slug
		cp.Slug = &slug
	}
	if a.PublishedAt != nil {
		t := *a.PublishedAt
		cp.PublishedAt = &t
	}
	if a.ScheduledAt != nil {
		t := *a.ScheduledAt
		cp.ScheduledAt = &t
	}
	cp.Versions = nil
	cp.Author = nil
	return &cp
}

// slugTaken must be called with mu held.
func (s *Store) slugTaken(slug *string, selfID uint) bool {
	if slug == nil {
		return false
	}
	for id, a := range s.ArticleRows {
		if id != selfID && a.Slug != nil && *a.Slug == *slug {
			return true
		}
	}
	return false
}

type articleRepo struct{ s *Store }

func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.DuplicateSlugFailures > 0 || r.s.slugTaken(article.Slug, 0) {
		if r.s.DuplicateSlugFailures > 0 {
			r.s.DuplicateSlugFailures--
		}
		return gorm.ErrDuplicatedKey
	}
	r.s.nextID++
	article.ID = r.s.nextID
	article.CreatedAt = time.Now()
	article.UpdatedAt = article.CreatedAt
	r.s.ArticleRows[article.ID] = cloneArticle(article)
	return nil
}

func (r *articleRepo) find(match func(a *models.Article) bool) (*models.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.ArticleRows {
		if match(a) {
			return cloneArticle(a), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *articleRepo) GetByUUID(ctx context.Context, uuid string) (*models.Article, error) {
	return r.find(func(a *models.Article) bool { return a.UUID == uuid })
}

func (r *articleRepo) GetOwned(ctx context.Context, uuid string, userID uint) (*models.Article, error) {
	return r.find(func(a *models.Article) bool { return a.UUID == uuid && a.UserID == userID })
}

func (r *articleRepo) GetPublishedBySlug(ctx context.Context, slug string, now time.Time) (*models.Article, error) {
	return r.find(func(a *models.Article) bool {
		return a.SlugValue() == slug && a.Status == models.StatusPublished &&
			a.PublishedAt != nil && !a.PublishedAt.After(now)
	})
}

func (r *articleRepo) ListByOwner(ctx context.Context, userID uint) ([]models.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ListErr != nil {
		return nil, r.s.ListErr
	}

	var out []models.Article
	for _, a := range r.s.ArticleRows {
		if a.UserID == userID {
			out = append(out, *cloneArticle(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *articleRepo) ListDueScheduled(ctx context.Context, now time.Time) ([]models.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ListErr != nil {
		return nil, r.s.ListErr
	}

	var out []models.Article
	for _, a := range r.s.ArticleRows {
		if a.Status == models.StatusScheduled && a.ScheduledAt != nil && !a.ScheduledAt.After(now) {
			out = append(out, *cloneArticle(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *articleRepo) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.slugTaken(&slug, excludeID), nil
}

func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.UpdateErrFor[article.UUID]; err != nil {
		return err
	}
	current, ok := r.s.ArticleRows[article.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if current.SlugValue() != article.SlugValue() && r.s.DuplicateSlugFailures > 0 {
		r.s.DuplicateSlugFailures--
		return gorm.ErrDuplicatedKey
	}
	if r.s.slugTaken(article.Slug, article.ID) {
		return gorm.ErrDuplicatedKey
	}
	article.UpdatedAt = time.Now()
	r.s.ArticleRows[article.ID] = cloneArticle(article)
	return nil
}

func (r *articleRepo) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.ArticleRows, id)
	return nil
}

type versionRepo struct{ s *Store }

func (r *versionRepo) Create(ctx context.Context, version *models.ArticleVersion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.VersionCreateErr != nil {
		return r.s.VersionCreateErr
	}
	r.s.nextID++
	version.ID = r.s.nextID
	version.CreatedAt = time.Now()
	version.UpdatedAt = version.CreatedAt
	cp := *version
	r.s.VersionRows[cp.ID] = &cp
	return nil
}

func (r *versionRepo) CountByArticle(ctx context.Context, articleID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.versionsFor(articleID))), nil
}

func (r *versionRepo) ListByArticle(ctx context.Context, articleID uint) ([]models.ArticleVersion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	versions := r.s.versionsFor(articleID)
	sort.Slice(versions, func(i, j int) bool { return versions[i].ID > versions[j].ID })
	return versions, nil
}

func (r *versionRepo) DeleteByArticleID(ctx context.Context, articleID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, v := range r.s.VersionRows {
		if v.ArticleID == articleID {
			delete(r.s.VersionRows, id)
		}
	}
	return nil
}

type mediaRepo struct{ s *Store }

func (r *mediaRepo) Create(ctx context.Context, media *models.Media) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.MediaCreateErr != nil {
		return r.s.MediaCreateErr
	}
	r.s.nextID++
	media.ID = r.s.nextID
	media.CreatedAt = time.Now()
	media.UpdatedAt = media.CreatedAt
	cp := *media
	r.s.MediaRows[cp.ID] = &cp
	return nil
}

func (r *mediaRepo) Attach(ctx context.Context, articleID, mediaID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := linkKey{articleID: articleID, mediaID: mediaID}
	if _, ok := r.s.Links[key]; ok {
		return nil
	}
	now := time.Now()
	r.s.Links[key] = models.ArticleMedia{ArticleID: articleID, MediaID: mediaID, CreatedAt: now, UpdatedAt: now}
	return nil
}

func (r *mediaRepo) DetachAll(ctx context.Context, articleID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for key := range r.s.Links {
		if key.articleID == articleID {
			delete(r.s.Links, key)
		}
	}
	return nil
}

func (r *mediaRepo) ListByArticle(ctx context.Context, articleID uint) ([]models.Media, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ListErr != nil {
		return nil, r.s.ListErr
	}
	var out []models.Media
	for key := range r.s.Links {
		if key.articleID == articleID {
			if m, ok := r.s.MediaRows[key.mediaID]; ok {
				out = append(out, *m)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.UserRows {
		if u.Email == user.Email || u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	r.s.nextID++
	user.ID = r.s.nextID
	cp := *user
	r.s.UserRows[cp.ID] = &cp
	return nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.UserRows {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *userRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.UserRows[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}
