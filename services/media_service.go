package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"blog-cms/models"
	"blog-cms/repositories"
	"blog-cms/storage"
)

const mediaDir = "media"

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/svg+xml"}

// UploadedFile is one file taken from a multipart request.
type UploadedFile struct {
	Name    string
	Size    int64
	Content io.Reader
}

type MediaService interface {
	Upload(ctx context.Context, articleUUID string, ownerID uint, file UploadedFile) (*models.Media, error)
	ListForArticle(ctx context.Context, articleUUID string, ownerID uint) ([]models.Media, error)
}

type mediaService struct {
	store    repositories.Store
	blobs    storage.BlobStore
	maxBytes int64
	log      zerolog.Logger
}

func NewMediaService(store repositories.Store, blobs storage.BlobStore, maxBytes int64, log zerolog.Logger) MediaService {
	return &mediaService{
		store:    store,
		blobs:    blobs,
		maxBytes: maxBytes,
		log:      log.With().Str("component", "media").Logger(),
	}
}

// Upload stores an image under a generated name and links it to the article.
func (s *mediaService) Upload(ctx context.Context, articleUUID string, ownerID uint, file UploadedFile) (*models.Media, error) {
	article, err := s.store.Articles().GetOwned(ctx, articleUUID, ownerID)
	if err != nil {
		return nil, s.fail(err, "failed to upload media")
	}

	if file.Size > s.maxBytes {
		return nil, FileTooLarge(s.maxBytes)
	}
	data, err := io.ReadAll(io.LimitReader(file.Content, s.maxBytes+1))
	if err != nil {
		return nil, s.fail(err, "failed to read upload")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, FileTooLarge(s.maxBytes)
	}
	if len(data) == 0 {
		return nil, models.NewValidation("The file must not be empty.")
	}

	mime := mimetype.Detect(data)
	if !isAllowedImage(mime) {
		return nil, models.NewValidation("The file must be a file of type: jpeg, png, jpg, gif, svg.")
	}

	filename := uuid.NewString() + mime.Extension()
	key := mediaDir + "/" + filename
	if err := s.blobs.Put(ctx, key, bytes.NewReader(data), int64(len(data)), mime.String()); err != nil {
		return nil, s.fail(err, "failed to store media")
	}

	media := &models.Media{
		UserID:       ownerID,
		OriginalName: file.Name,
		Filename:     filename,
		MimeType:     mime.String(),
		Path:         key,
		Size:         int64(len(data)),
		Metadata:     datatypes.NewJSONType(imageMetadata(data, mime)),
	}

	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := tx.Media().Create(ctx, media); err != nil {
			return err
		}
		return tx.Media().Attach(ctx, article.ID, media.ID)
	})
	if err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.log.Warn().Err(delErr).Str("path", key).Msg("Failed to remove orphaned upload")
		}
		return nil, s.fail(err, "failed to record media")
	}

	media.URL = s.blobs.URL(key)
	s.log.Info().Str("article_uuid", articleUUID).Str("path", key).Int64("size", media.Size).Msg("Media uploaded")
	return media, nil
}

func (s *mediaService) ListForArticle(ctx context.Context, articleUUID string, ownerID uint) ([]models.Media, error) {
	article, err := s.store.Articles().GetOwned(ctx, articleUUID, ownerID)
	if err != nil {
		return nil, s.fail(err, "failed to fetch media")
	}

	media, err := s.store.Media().ListByArticle(ctx, article.ID)
	if err != nil {
		return nil, s.fail(err, "failed to fetch media")
	}
	for i := range media {
		media[i].URL = s.blobs.URL(media[i].Path)
	}
	return media, nil
}

// FileTooLarge is the validation error for uploads over maxBytes.
func FileTooLarge(maxBytes int64) error {
	return models.NewValidation(fmt.Sprintf("The file may not be greater than %d kilobytes.", maxBytes/1024))
}

func (s *mediaService) fail(err error, message string) error {
	return classify(s.log, err, message, errArticleNotFound)
}

func isAllowedImage(mime *mimetype.MIME) bool {
	for _, allowed := range allowedImageTypes {
		if mime.Is(allowed) {
			return true
		}
	}
	return false
}

// imageMetadata reads raster dimensions. SVG and undecodable images carry none.
func imageMetadata(data []byte, mime *mimetype.MIME) models.MediaMetadata {
	if mime.Is("image/svg+xml") {
		return models.MediaMetadata{}
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return models.MediaMetadata{}
	}
	width, height := cfg.Width, cfg.Height
	return models.MediaMetadata{Width: &width, Height: &height}
}
