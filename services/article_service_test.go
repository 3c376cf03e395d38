package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"blog-cms/mocks"
	"blog-cms/models"
)

const (
	ownerID = uint(7)
	otherID = uint(8)
)

type ArticleServiceSuite struct {
	suite.Suite
	ctx   context.Context
	store *mocks.Store
	svc   ArticleService
	now   time.Time
}

func (s *ArticleServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = mocks.NewStore()
	s.now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s.svc = NewArticleService(s.store, zerolog.Nop(), WithClock(func() time.Time { return s.now }))
}

func strPtr(v string) *string { return &v }

func (s *ArticleServiceSuite) seed(owner uint, title, content string, status models.ArticleStatus, slug string) *models.Article {
	a := models.Article{
		UUID:    uuid.NewString(),
		UserID:  owner,
		Title:   title,
		Content: content,
		Status:  status,
	}
	if slug != "" {
		a.Slug = strPtr(slug)
	}
	return s.store.SeedArticle(a)
}

func (s *ArticleServiceSuite) versionNames(articleID uint) []string {
	var names []string
	for _, v := range s.store.VersionsFor(articleID) {
		names = append(names, v.VersionName)
	}
	return names
}

func (s *ArticleServiceSuite) TestCreateDraft() {
	article, err := s.svc.CreateDraft(s.ctx, ownerID)
	s.Require().NoError(err)

	_, parseErr := uuid.Parse(article.UUID)
	s.NoError(parseErr)
	s.Equal(models.StatusDraft, article.Status)
	s.Equal(ownerID, article.UserID)
	s.Empty(article.Title)
	s.Empty(article.Content)
	s.True(strings.HasPrefix(article.SlugValue(), "draft-"))
	s.Len(article.SlugValue(), len("draft-")+10)
	s.Zero(article.WordCount)
	s.Zero(article.ReadingTime)
	s.NotNil(s.store.Article(article.UUID))
}

func (s *ArticleServiceSuite) TestCreateDraft_RetriesTempSlugCollision() {
	s.store.DuplicateSlugFailures = 1

	article, err := s.svc.CreateDraft(s.ctx, ownerID)
	s.Require().NoError(err)
	s.NotNil(s.store.Article(article.UUID))
	s.Equal(2, s.store.TransactionCalls)
}

func (s *ArticleServiceSuite) TestSave_AssignsSlugStatsAndSnapshots() {
	a := s.seed(ownerID, "", "", models.StatusDraft, "draft-abcdefghij")

	saved, err := s.svc.Save(s.ctx, a.UUID, ownerID, models.SaveArticleRequest{
		Title:   strPtr("Hello World"),
		Content: strPtr("<p>one two <b>three</b></p>"),
		SEOData: &models.SEOData{MetaTitle: "Hello"},
	})
	s.Require().NoError(err)
	s.Equal("hello-world", saved.SlugValue())
	s.Equal(3, saved.WordCount)
	s.Equal(1, saved.ReadingTime)
	s.Equal("Hello", saved.SEOData.Data().MetaTitle)

	_, err = s.svc.Save(s.ctx, a.UUID, ownerID, models.SaveArticleRequest{Content: strPtr("<p>changed</p>")})
	s.Require().NoError(err)

	s.Equal([]string{"Snapshot 1", "Snapshot 2"}, s.versionNames(a.ID))
	stored := s.store.Article(a.UUID)
	s.Equal("Hello World", stored.Title)
	s.Equal("<p>changed</p>", stored.Content)
	s.Equal("hello-world", stored.SlugValue())
}

func (s *ArticleServiceSuite) TestSave_ProbesNumberedSlugs() {
	s.seed(otherID, "Hello World", "x", models.StatusPublished, "hello-world")
	s.seed(otherID, "Hello World", "x", models.StatusPublished, "hello-world-1")
	a := s.seed(ownerID, "", "", models.StatusDraft, "draft-abcdefghij")

	saved, err := s.svc.Save(s.ctx, a.UUID, ownerID, models.SaveArticleRequest{Title: strPtr("Hello, World!")})
	s.Require().NoError(err)
	s.Equal("hello-world-2", saved.SlugValue())
}

func (s *ArticleServiceSuite) TestSave_FallbackSlug() {
	a := s.seed(ownerID, "", "", models.StatusDraft, "draft-aaaaaaaaaa")
	b := s.seed(ownerID, "", "", models.StatusDraft, "draft-bbbbbbbbbb")

	first, err := s.svc.Save(s.ctx, a.UUID, ownerID, models.SaveArticleRequest{Title: strPtr("!!!")})
	s.Require().NoError(err)
	s.Equal("article", first.SlugValue())

	second, err := s.svc.Save(s.ctx, b.UUID, ownerID, models.SaveArticleRequest{Title: strPtr("???")})
	s.Require().NoError(err)
	s.Equal("article-1", second.SlugValue())
}

func (s *ArticleServiceSuite) TestSave_SkipsRouteSlug() {
	a := s.seed(ownerID, "", "", models.StatusDraft, "draft-abcdefghij")

	saved, err := s.svc.Save(s.ctx, a.UUID, ownerID, models.SaveArticleRequest{Title: strPtr("Create")})
	s.Require().NoError(err)
	s.Equal("create-1", saved.SlugValue())
}

func (s *ArticleServiceSuite) TestSave_KeepsOwnSlug() {
	a := s.seed(ownerID, "Hello World", "x", models.StatusDraft, "hello-world")

	saved, err := s.svc.Save(s.ctx, a.UUID, ownerID, models.SaveArticleRequest{Title: strPtr("Hello World")})
	s.Require().NoError(err)
	s.Equal("hello-world", saved.SlugValue())
}

func (s *ArticleServiceSuite) TestSave_PublishedSlugIsStable() {
	a := s.seed(ownerID, "Old Title", "x", models.StatusPublished, "old-title")

	saved, err := s.svc.Save(s.ctx, a.UUID, ownerID, models.SaveArticleRequest{Title: strPtr("New Title")})
	s.Require().NoError(err)
	s.Equal("old-title", saved.SlugValue())
	s.Equal("New Title", saved.Title)
}

func (s *ArticleServiceSuite) TestSave_EmptyTitleKeepsSlug() {
	a := s.seed(ownerID, "Something", "x", models.StatusDraft, "something")

	saved, err := s.svc.Save(s.ctx, a.UUID, ownerID, models.SaveArticleRequest{Title: strPtr("")})
	s.Require().NoError(err)
	s.Equal("something", saved.SlugValue())
}

func (s *ArticleServiceSuite) TestSave_NotOwned() {
	a := s.seed(otherID, "Title", "x", models.StatusDraft, "title")

	_, err := s.svc.Save(s.ctx, a.UUID, ownerID, models.SaveArticleRequest{Title: strPtr("Mine")})
	var nf models.ErrorNotFound
	s.True(errors.As(err, &nf))
	s.Equal("Title", s.store.Article(a.UUID).Title)
}

func (s *ArticleServiceSuite) TestSave_IsAllOrNothing() {
	a := s.seed(ownerID, "Before", "before", models.StatusDraft, "before")
	s.store.VersionCreateErr = errors.New("disk full")

	_, err := s.svc.Save(s.ctx, a.UUID, ownerID, models.SaveArticleRequest{
		Title:   strPtr("After"),
		Content: strPtr("after"),
	})
	var ise models.ErrorInternalServer
	s.Require().True(errors.As(err, &ise))
	s.NotContains(ise.Message, "disk full")

	stored := s.store.Article(a.UUID)
	s.Equal("Before", stored.Title)
	s.Equal("before", stored.Content)
	s.Equal("before", stored.SlugValue())
	s.Empty(s.versionNames(a.ID))
}

func (s *ArticleServiceSuite) TestSave_SlugRaceRetries() {
	a := s.seed(ownerID, "", "", models.StatusDraft, "draft-abcdefghij")
	s.store.DuplicateSlugFailures = 1

	saved, err := s.svc.Save(s.ctx, a.UUID, ownerID, models.SaveArticleRequest{Title: strPtr("Race")})
	s.Require().NoError(err)
	s.Equal("race", saved.SlugValue())
	s.Equal(2, s.store.TransactionCalls)
	s.Equal([]string{"Snapshot 1"}, s.versionNames(a.ID))
}

func (s *ArticleServiceSuite) TestSave_SlugRaceGivesUp() {
	a := s.seed(ownerID, "", "", models.StatusDraft, "draft-abcdefghij")
	s.store.DuplicateSlugFailures = 10

	_, err := s.svc.Save(s.ctx, a.UUID, ownerID, models.SaveArticleRequest{Title: strPtr("Race")})
	var ce models.ErrorConflict
	s.True(errors.As(err, &ce))
	s.Equal(maxSlugAttempts, s.store.TransactionCalls)
}

func (s *ArticleServiceSuite) TestUpdateTitle() {
	a := s.seed(ownerID, "", "", models.StatusDraft, "draft-abcdefghij")

	slug, err := s.svc.UpdateTitle(s.ctx, a.UUID, ownerID, "Ça va? Très bien")
	s.Require().NoError(err)
	s.Equal("ca-va-tres-bien", slug)
	s.Equal("Ça va? Très bien", s.store.Article(a.UUID).Title)
	s.Empty(s.versionNames(a.ID))
}

func (s *ArticleServiceSuite) TestUpdateTitle_NotFound() {
	_, err := s.svc.UpdateTitle(s.ctx, uuid.NewString(), ownerID, "x")
	var nf models.ErrorNotFound
	s.True(errors.As(err, &nf))
}

func (s *ArticleServiceSuite) TestUpdateContent_Stats() {
	a := s.seed(ownerID, "T", "", models.StatusDraft, "t")

	long := "<p>" + strings.Repeat("word ", 450) + "</p>"
	stats, err := s.svc.UpdateContent(s.ctx, a.UUID, ownerID, long)
	s.Require().NoError(err)
	s.Equal(models.WordStats{WordCount: 450, ReadingTime: 3}, stats)

	stats, err = s.svc.UpdateContent(s.ctx, a.UUID, ownerID, "")
	s.Require().NoError(err)
	s.Equal(models.WordStats{}, stats)

	stats, err = s.svc.UpdateContent(s.ctx, a.UUID, ownerID, "<p></p>")
	s.Require().NoError(err)
	s.Equal(models.WordStats{WordCount: 0, ReadingTime: 1}, stats)

	stored := s.store.Article(a.UUID)
	s.Equal("<p></p>", stored.Content)
	s.Equal(1, stored.ReadingTime)
}

func (s *ArticleServiceSuite) TestPublish() {
	a := s.seed(ownerID, "My First Post", "<p>body</p>", models.StatusDraft, "draft-abcdefghij")

	published, err := s.svc.Publish(s.ctx, a.UUID, ownerID)
	s.Require().NoError(err)
	s.Equal(models.StatusPublished, published.Status)
	s.Equal("my-first-post", published.SlugValue())
	s.Require().NotNil(published.PublishedAt)
	s.True(published.PublishedAt.Equal(s.now))
	s.Equal([]string{models.PublishedVersionName}, s.versionNames(a.ID))

	got, err := s.svc.GetPublished(s.ctx, "my-first-post")
	s.Require().NoError(err)
	s.Equal(a.UUID, got.UUID)
}

func (s *ArticleServiceSuite) TestPublish_RegeneratesSlugForPublished() {
	past := s.now.Add(-time.Hour)
	a := s.store.SeedArticle(models.Article{
		UUID: uuid.NewString(), UserID: ownerID, Title: "New Title", Content: "x",
		Status: models.StatusPublished, Slug: strPtr("old-title"), PublishedAt: &past,
	})

	published, err := s.svc.Publish(s.ctx, a.UUID, ownerID)
	s.Require().NoError(err)
	s.Equal("new-title", published.SlugValue())
}

func (s *ArticleServiceSuite) TestPublish_RequiresTitleAndContent() {
	tests := []struct {
		name    string
		title   string
		content string
	}{
		{name: "no title", content: "<p>x</p>"},
		{name: "no content", title: "Title"},
		{name: "neither"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			a := s.seed(ownerID, tt.title, tt.content, models.StatusDraft, "")

			_, err := s.svc.Publish(s.ctx, a.UUID, ownerID)
			var ve models.ErrorValidation
			s.Require().True(errors.As(err, &ve))
			s.Equal("Article must have a title and content to be published.", ve.Message)

			stored := s.store.Article(a.UUID)
			s.Equal(models.StatusDraft, stored.Status)
			s.Nil(stored.PublishedAt)
			s.Empty(s.versionNames(a.ID))
		})
	}
}

func (s *ArticleServiceSuite) TestSchedule() {
	a := s.seed(ownerID, "Later", "<p>soon</p>", models.StatusDraft, "draft-abcdefghij")
	at := s.now.Add(2 * time.Hour)

	scheduled, err := s.svc.Schedule(s.ctx, a.UUID, ownerID, at)
	s.Require().NoError(err)
	s.Equal(models.StatusScheduled, scheduled.Status)
	s.Require().NotNil(scheduled.ScheduledAt)
	s.True(scheduled.ScheduledAt.Equal(at))
	s.Nil(scheduled.PublishedAt)
	s.Equal("later", scheduled.SlugValue())

	_, err = s.svc.GetPublished(s.ctx, "later")
	var nf models.ErrorNotFound
	s.True(errors.As(err, &nf))
}

func (s *ArticleServiceSuite) TestSchedule_Validation() {
	ready := s.seed(ownerID, "Ready", "<p>x</p>", models.StatusDraft, "ready")
	empty := s.seed(ownerID, "", "", models.StatusDraft, "")

	var ve models.ErrorValidation

	_, err := s.svc.Schedule(s.ctx, ready.UUID, ownerID, s.now)
	s.True(errors.As(err, &ve), "now is not in the future")

	_, err = s.svc.Schedule(s.ctx, ready.UUID, ownerID, s.now.Add(-time.Minute))
	s.True(errors.As(err, &ve))

	_, err = s.svc.Schedule(s.ctx, empty.UUID, ownerID, s.now.Add(time.Hour))
	s.True(errors.As(err, &ve))

	s.Equal(models.StatusDraft, s.store.Article(ready.UUID).Status)
}

func (s *ArticleServiceSuite) TestDelete_RemovesVersionsDetachesMedia() {
	a := s.seed(ownerID, "Doomed", "x", models.StatusDraft, "doomed")
	keep := s.seed(ownerID, "Keep", "y", models.StatusDraft, "keep")

	_, err := s.svc.Save(s.ctx, a.UUID, ownerID, models.SaveArticleRequest{Content: strPtr("x2")})
	s.Require().NoError(err)
	_, err = s.svc.Save(s.ctx, keep.UUID, ownerID, models.SaveArticleRequest{Content: strPtr("y2")})
	s.Require().NoError(err)

	media := &models.Media{UserID: ownerID, OriginalName: "a.png", Filename: "f.png", MimeType: "image/png", Path: "media/f.png", Size: 1}
	s.Require().NoError(s.store.Media().Create(s.ctx, media))
	s.Require().NoError(s.store.Media().Attach(s.ctx, a.ID, media.ID))
	s.Require().NoError(s.store.Media().Attach(s.ctx, keep.ID, media.ID))

	s.Require().NoError(s.svc.Delete(s.ctx, a.UUID, ownerID))

	s.Nil(s.store.Article(a.UUID))
	s.Empty(s.store.VersionsFor(a.ID))
	s.Len(s.store.VersionsFor(keep.ID), 1)
	s.Contains(s.store.MediaRows, media.ID)

	remaining, err := s.store.Media().ListByArticle(s.ctx, keep.ID)
	s.Require().NoError(err)
	s.Len(remaining, 1)
	gone, err := s.store.Media().ListByArticle(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Empty(gone)
}

func (s *ArticleServiceSuite) TestDelete_NotOwned() {
	a := s.seed(otherID, "Theirs", "x", models.StatusDraft, "theirs")

	err := s.svc.Delete(s.ctx, a.UUID, ownerID)
	var nf models.ErrorNotFound
	s.True(errors.As(err, &nf))
	s.NotNil(s.store.Article(a.UUID))
}

func (s *ArticleServiceSuite) TestGetPublished_Visibility() {
	past := s.now.Add(-time.Minute)
	future := s.now.Add(time.Minute)
	s.store.SeedArticle(models.Article{UUID: uuid.NewString(), UserID: ownerID, Title: "Live", Content: "x",
		Status: models.StatusPublished, Slug: strPtr("live"), PublishedAt: &past})
	s.store.SeedArticle(models.Article{UUID: uuid.NewString(), UserID: ownerID, Title: "Future", Content: "x",
		Status: models.StatusPublished, Slug: strPtr("future"), PublishedAt: &future})
	s.seed(ownerID, "Draft", "x", models.StatusDraft, "draft")

	_, err := s.svc.GetPublished(s.ctx, "live")
	s.NoError(err)

	var nf models.ErrorNotFound
	_, err = s.svc.GetPublished(s.ctx, "future")
	s.True(errors.As(err, &nf))
	_, err = s.svc.GetPublished(s.ctx, "draft")
	s.True(errors.As(err, &nf))
	_, err = s.svc.GetPublished(s.ctx, "missing")
	s.True(errors.As(err, &nf))
}

func (s *ArticleServiceSuite) TestListAndVersions() {
	a := s.seed(ownerID, "A", "a", models.StatusDraft, "a")
	s.seed(ownerID, "B", "b", models.StatusDraft, "b")
	s.seed(otherID, "C", "c", models.StatusDraft, "c")

	list, err := s.svc.List(s.ctx, ownerID)
	s.Require().NoError(err)
	s.Len(list, 2)

	_, err = s.svc.Save(s.ctx, a.UUID, ownerID, models.SaveArticleRequest{})
	s.Require().NoError(err)
	_, err = s.svc.Save(s.ctx, a.UUID, ownerID, models.SaveArticleRequest{})
	s.Require().NoError(err)

	versions, err := s.svc.ListVersions(s.ctx, a.UUID, ownerID)
	s.Require().NoError(err)
	s.Require().Len(versions, 2)
	s.Equal("Snapshot 2", versions[0].VersionName)
}

func (s *ArticleServiceSuite) TestList_PersistenceFailure() {
	s.store.ListErr = errors.New("connection reset")

	_, err := s.svc.List(s.ctx, ownerID)
	var ise models.ErrorInternalServer
	s.True(errors.As(err, &ise))
}

func TestArticleServiceSuite(t *testing.T) {
	suite.Run(t, new(ArticleServiceSuite))
}
