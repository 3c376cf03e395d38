package helper

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	entranslations "gopkg.in/go-playground/validator.v9/translations/en"

	"blog-cms/models"
)

const (
	codeSuccess           = 200
	codeBadRequestError   = 400
	codeUnauthorizedError = 401
	codeDatabaseError     = 402
	codeValidationError   = 403
	codeNotFound          = 404
	codeConflict          = 409
)

// HTTPHelper ...
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

// NewHTTPHelper builds a validator whose messages use json field names.
func NewHTTPHelper() *HTTPHelper {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return Underscore(fld.Name)
	})
	_ = entranslations.RegisterDefaultTranslations(validate, trans)

	return &HTTPHelper{Validate: validate, Translator: trans}
}

// GetStatusCode ...
func (u *HTTPHelper) GetStatusCode(err error) int {
	var (
		nf  models.ErrorNotFound
		ve  models.ErrorValidation
		ce  models.ErrorConflict
		ue  models.ErrorUnauthorized
		ise models.ErrorInternalServer
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ue):
		return http.StatusUnauthorized
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.As(err, &ce):
		return http.StatusConflict
	case errors.As(err, &ise):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessage returns the text safe to show a client. Internal causes are dropped.
func (u *HTTPHelper) ErrorMessage(err error) string {
	var ise models.ErrorInternalServer
	if errors.As(err, &ise) {
		return ise.Message
	}
	if u.GetStatusCode(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}

// BindJSON decodes and validates the body into req. On failure the response is
// already written and false is returned.
func (u *HTTPHelper) BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		u.SendBadRequest(c, "Invalid request body")
		return false
	}
	return u.check(c, req)
}

// BindForm is BindJSON for multipart and urlencoded bodies.
func (u *HTTPHelper) BindForm(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBind(req); err != nil {
		u.SendBadRequest(c, "Invalid request body")
		return false
	}
	return u.check(c, req)
}

func (u *HTTPHelper) check(c *gin.Context, req interface{}) bool {
	err := u.Validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		u.SendValidationError(c, verrs)
	} else {
		u.SendBadRequest(c, err.Error())
	}
	return false
}

// SendPayload writes the envelope with payload merged at the top level.
func (u *HTTPHelper) SendPayload(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{
		"success":      true,
		"code":         codeSuccess,
		"code_type":    "success",
		"code_message": message,
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// SendSuccess ...
// Send success response to consumers.
func (u *HTTPHelper) SendSuccess(c *gin.Context, message string, data interface{}) {
	if message == "" {
		message = "success"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"code":         codeSuccess,
		"code_type":    "success",
		"code_message": message,
		"data":         data,
	})
}

// SendError ...
// Send error response to consumers.
func (u *HTTPHelper) SendError(c *gin.Context, status int, message string) {
	code, codeType := errorCode(status)
	c.JSON(status, gin.H{
		"success":      false,
		"code":         code,
		"code_type":    codeType,
		"code_message": message,
		"error":        message,
		"data":         u.EmptyJsonMap(),
	})
}

// SendServiceError maps a service error onto its status code.
func (u *HTTPHelper) SendServiceError(c *gin.Context, err error) {
	u.SendError(c, u.GetStatusCode(err), u.ErrorMessage(err))
}

// SendBadRequest ...
func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string) {
	u.SendError(c, http.StatusBadRequest, message)
}

// SendUnauthorizedError ...
func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string) {
	u.SendError(c, http.StatusUnauthorized, message)
}

// SendValidationError ...
// Send validation error response to consumers.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	errorResponse := map[string][]string{}
	errorTranslation := validationErrors.Translate(u.Translator)
	for _, err := range validationErrors {
		errKey := err.Field()
		errorResponse[errKey] = append(errorResponse[errKey], errorTranslation[err.Namespace()])
	}

	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"success":      false,
		"code":         codeValidationError,
		"code_type":    "validationError",
		"code_message": errorResponse,
		"error":        "The given data was invalid.",
		"data":         u.EmptyJsonMap(),
	})
}

func (u *HTTPHelper) EmptyJsonMap() map[string]interface{} {
	return make(map[string]interface{})
}

func errorCode(status int) (int, string) {
	switch status {
	case http.StatusBadRequest:
		return codeBadRequestError, "badRequest"
	case http.StatusUnauthorized:
		return codeUnauthorizedError, "unAuthorized"
	case http.StatusNotFound:
		return codeNotFound, "notFound"
	case http.StatusUnprocessableEntity:
		return codeValidationError, "validationError"
	case http.StatusConflict:
		return codeConflict, "conflict"
	default:
		return codeDatabaseError, "databaseError"
	}
}
