package api

import (
	"net/http"

	"github.com/blog-platform-api/internal/config"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler handles registration and session endpoints
type AuthHandler struct {
	services *service.Services
	cfg      *config.Config
	r        *responder
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, cfg *config.Config, r *responder, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		cfg:      cfg,
		r:        r,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !h.r.bind(c, &req) {
		return
	}

	user, token, err := h.services.Auth.Register(c.Request.Context(), &req)
	if err != nil {
		h.r.fail(c, err)
		return
	}

	h.setSession(c, token)
	h.log.Info().Int64("user_id", user.ID).Msg("User registered")
	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered successfully",
		"user":    user.Summary(),
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !h.r.bind(c, &req) {
		return
	}

	user, token, err := h.services.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		h.r.fail(c, err)
		return
	}

	h.setSession(c, token)
	h.log.Debug().Int64("user_id", user.ID).Msg("Session issued")
	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"user":    user.Summary(),
	})
}

// Logout handles POST /auth/logout. It only clears the cookie; issued
// tokens stay valid until they expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSession(c)
	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}

func (h *AuthHandler) setSession(c *gin.Context, token string) {
	maxAge := int(h.services.Auth.TokenTTL().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Auth.CookieName, token, maxAge, "/", "", h.cfg.Auth.CookieSecure, true)
}

func (h *AuthHandler) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Auth.CookieName, "", -1, "/", "", h.cfg.Auth.CookieSecure, true)
}

// ProfileHandler handles the caller's own profile
type ProfileHandler struct {
	services *service.Services
	r        *responder
	log      zerolog.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(services *service.Services, r *responder, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		services: services,
		r:        r,
		log:      log.With().Str("handler", "profile").Logger(),
	}
}

// Get handles GET /auth/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	user, err := h.services.Profile.Get(c.Request.Context())
	if err != nil {
		h.r.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    user.Summary(),
		"profile": user.Profile,
	})
}

// Update handles PUT /auth/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	var req models.UpdateProfileRequest
	if !h.r.bind(c, &req) {
		return
	}

	profile, err := h.services.Profile.Update(c.Request.Context(), &req)
	if err != nil {
		h.r.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "profile updated successfully",
		"profile": profile,
	})
}

// AvatarUpload handles POST /auth/profile/avatar
func (h *ProfileHandler) AvatarUpload(c *gin.Context) {
	var req models.AvatarUploadRequest
	if !h.r.bind(c, &req) {
		return
	}

	upload, err := h.services.Profile.AvatarUpload(c.Request.Context(), &req)
	if err != nil {
		h.r.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, upload)
}
