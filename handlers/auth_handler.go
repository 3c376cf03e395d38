package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blog-cms/helper"
	"blog-cms/middleware"
	"blog-cms/models"
	"blog-cms/services"
)

type AuthHandler struct {
	authService services.AuthService
	tokenTTL    time.Duration
	Helper      *helper.HTTPHelper
}

func NewAuthHandler(authService services.AuthService, tokenTTL time.Duration, h *helper.HTTPHelper) *AuthHandler {
	return &AuthHandler{authService: authService, tokenTTL: tokenTTL, Helper: h}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	response, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.setSession(c, response.Token)
	h.Helper.SendSuccess(c, "Register success", response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.setSession(c, response.Token)
	h.Helper.SendSuccess(c, "Login success", response)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.authService.GetUserByID(c.Request.Context(), ownerID(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Profile loaded", user)
}

func (h *AuthHandler) setSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, token, int(h.tokenTTL.Seconds()), "/", "", c.Request.TLS != nil, true)
}
