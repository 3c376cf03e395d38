package helper

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	FlashSuccess = "flash_success"
	FlashError   = "flash_error"

	flashMaxAge = 60
)

// Flash is a one-shot message carried across a redirect.
type Flash struct {
	Success string
	Error   string
}

// RedirectWithFlash sets a flash cookie of the given kind and answers 303.
func (u *HTTPHelper) RedirectWithFlash(c *gin.Context, location, kind, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(kind, message, flashMaxAge, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, location)
}

// PopFlash reads and clears any pending flash messages.
func (u *HTTPHelper) PopFlash(c *gin.Context) Flash {
	var f Flash
	if v, err := c.Cookie(FlashSuccess); err == nil && v != "" {
		f.Success = v
		c.SetCookie(FlashSuccess, "", -1, "/", "", false, true)
	}
	if v, err := c.Cookie(FlashError); err == nil && v != "" {
		f.Error = v
		c.SetCookie(FlashError, "", -1, "/", "", false, true)
	}
	return f
}
