package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/blog-platform-api/internal/common"
	"github.com/blog-platform-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// responder writes JSON error bodies and binds request payloads
type responder struct {
	log       zerolog.Logger
	validator *validation.Validator
	// debug exposes internal error details in 500 responses
	debug bool
}

func newResponder(log zerolog.Logger, debug bool) *responder {
	return &responder{
		log:       log,
		validator: validation.NewValidator(),
		debug:     debug,
	}
}

// statusFor maps an error kind to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation), common.IsDuplicate(err):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrFeatureDisabled):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a JSON error response and aborts the chain
func (r *responder) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status != http.StatusInternalServerError {
		c.AbortWithStatusJSON(status, gin.H{"message": common.Message(err)})
		return
	}

	r.log.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Str("request_id", c.GetString(requestIDKey)).
		Msg("Request failed")

	body := gin.H{"message": "internal server error"}
	if r.debug {
		body["error"] = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

// bind decodes the JSON body into req and validates it. On failure the
// response has been written and bind returns false.
func (r *responder) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message": "invalid request body",
		})
		return false
	}
	if errs := r.validator.Validate(req); len(errs) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message": common.ErrValidation.Error(),
			"errors":  errs,
		})
		return false
	}
	return true
}

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message": "invalid " + param,
		})
		return 0, false
	}
	return id, true
}
