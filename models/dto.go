package models

type RegisterRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=50"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Role     UserRole `json:"role,omitempty" validate:"omitempty,oneof=writer admin"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SaveArticleRequest applies only the fields that are present.
type SaveArticleRequest struct {
	Title   *string  `json:"title" validate:"omitempty,max=255"`
	Content *string  `json:"content"`
	SEOData *SEOData `json:"seo_data"`
}

type UpdateTitleRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

type UpdateContentRequest struct {
	Content string `json:"content"`
}

type PreviewRequest struct {
	UUID string `json:"uuid" validate:"required,uuid"`
}

type ScheduleRequest struct {
	ScheduledAt string `json:"scheduled_at" validate:"required"`
}

type UploadMediaRequest struct {
	ArticleUUID string `form:"article_uuid" validate:"required,uuid"`
}

type WordStats struct {
	WordCount   int `json:"word_count"`
	ReadingTime int `json:"reading_time"`
}

type MediaResponse struct {
	ID       uint   `json:"id"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
}
