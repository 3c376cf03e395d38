package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"blog-cms/config"
	"blog-cms/helper"
	"blog-cms/middleware"
	"blog-cms/services"
	"blog-cms/views"
)

// Services groups what the router dispatches to.
type Services struct {
	Articles services.ArticleService
	Previews services.PreviewService
	Media    services.MediaService
	Auth     services.AuthService
}

// SetupRouter creates and configures the Gin router.
func SetupRouter(svc Services, cfg *config.Config, log zerolog.Logger) (*gin.Engine, error) {
	tmpl, err := views.Templates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.MaxMultipartMemory = cfg.Media.MaxUploadBytes + multipartOverhead

	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.FrontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := helper.NewHTTPHelper()
	auth := middleware.AuthMiddleware(cfg.JWT.Secret, h)

	authHandler := NewAuthHandler(svc.Auth, cfg.JWT.Expiration, h)
	articleHandler := NewArticleHandler(svc.Articles, svc.Previews, cfg.Server.BaseURL, h)
	mediaHandler := NewMediaHandler(svc.Media, cfg.Media.MaxUploadBytes, h)
	publicHandler := NewPublicHandler(svc.Articles, svc.Previews, h)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "blog-cms",
		})
	})
	if cfg.Storage.Driver == "local" {
		router.Static("/storage", cfg.Storage.LocalDir)
	}

	router.GET("/", publicHandler.Home)
	router.GET("/preview/:token", publicHandler.ShowPreview)

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}
	router.GET("/profile", auth, authHandler.GetProfile)

	// The public view shares the /articles prefix, so auth is applied per route.
	articles := router.Group("/articles")
	{
		articles.GET("", auth, articleHandler.List)
		articles.GET("/create", auth, articleHandler.Create)
		articles.POST("/preview", auth, articleHandler.GeneratePreview)
		articles.POST("/media", auth, mediaHandler.Upload)
		articles.GET("/:id", publicHandler.ShowArticle)
		articles.GET("/:id/edit", auth, articleHandler.Edit)
		articles.PUT("/:id", auth, articleHandler.Save)
		articles.PATCH("/:id/title", auth, articleHandler.UpdateTitle)
		articles.PATCH("/:id/content", auth, articleHandler.UpdateContent)
		articles.GET("/:id/versions", auth, articleHandler.Versions)
		articles.POST("/:id/publish", auth, articleHandler.Publish)
		articles.POST("/:id/schedule", auth, articleHandler.Schedule)
		articles.DELETE("/:id", auth, articleHandler.Delete)
	}

	api := router.Group("/api", auth)
	{
		api.GET("/articles/:id/media", mediaHandler.ListForArticle)
	}

	return router, nil
}
