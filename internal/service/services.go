package service

import (
	"context"
	"time"

	"github.com/blog-platform-api/internal/auth"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/policy"
	"github.com/blog-platform-api/internal/repository"
	"github.com/rs/zerolog"
)

// Every operation except Register, Login and ResolveToken expects the
// caller's policy.Identity in ctx and returns common.ErrUnauthorized without it.

// AuthService defines registration, login and session resolution
type AuthService interface {
	// Register creates a user and profile atomically and returns a session token
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error)
	// ResolveToken verifies a session token and loads the live user behind it
	ResolveToken(ctx context.Context, token string) (policy.Identity, error)
	TokenTTL() time.Duration
}

// ProfileService defines operations on the caller's own profile
type ProfileService interface {
	Get(ctx context.Context) (*models.User, error)
	Update(ctx context.Context, req *models.UpdateProfileRequest) (*models.Profile, error)
	AvatarUpload(ctx context.Context, req *models.AvatarUploadRequest) (*models.AvatarUpload, error)
}

// UserService defines admin user management
type UserService interface {
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, req *models.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	// EnsureAdmin creates or promotes the configured administrator; it needs no caller
	EnsureAdmin(ctx context.Context, username, email, password string) (*models.User, error)
}

// ArticleService defines article operations
type ArticleService interface {
	Create(ctx context.Context, req *models.CreateArticleRequest) (*models.Article, error)
	ListPublished(ctx context.Context) ([]*models.Article, error)
	Get(ctx context.Context, id int64) (*models.Article, error)
	ListMine(ctx context.Context) ([]*models.Article, error)
	GetMine(ctx context.Context, id int64) (*models.Article, error)
	Update(ctx context.Context, id int64, req *models.UpdateArticleRequest) (*models.Article, error)
	Delete(ctx context.Context, id int64) error
}

// TagService defines tag operations
type TagService interface {
	Create(ctx context.Context, req *models.TagRequest) (*models.Tag, error)
	List(ctx context.Context) ([]*models.Tag, error)
	Get(ctx context.Context, id int64) (*models.Tag, error)
	Update(ctx context.Context, id int64, req *models.UpdateTagRequest) (*models.Tag, error)
	Delete(ctx context.Context, id int64) error
}

// ArticleTagService defines single link operations between articles and tags
type ArticleTagService interface {
	Attach(ctx context.Context, req *models.ArticleTagRequest) (*models.ArticleTag, error)
	Detach(ctx context.Context, id int64) error
}

// HealthService reports dependency health
type HealthService interface {
	Check(ctx context.Context) error
}

// AvatarPresigner issues upload URLs for profile pictures
type AvatarPresigner interface {
	PresignPut(ctx context.Context, key, contentType string) (uploadURL, publicURL string, expiresAt time.Time, err error)
}

// Pinger checks connectivity of a backing store
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies are the collaborators services need beyond repositories.
// Avatars may be nil, which disables avatar uploads.
type Dependencies struct {
	Tokens  *auth.TokenService
	Avatars AvatarPresigner
	DB      Pinger
}

// Services holds all service interfaces
type Services struct {
	Auth       AuthService
	Profile    ProfileService
	User       UserService
	Article    ArticleService
	Tag        TagService
	ArticleTag ArticleTagService
	Health     HealthService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, deps Dependencies, log zerolog.Logger) *Services {
	tags := newTagLoader(repos)

	return &Services{
		Auth:       newAuthService(repos, deps.Tokens, log),
		Profile:    newProfileService(repos, deps.Avatars, log),
		User:       newUserService(repos, tags, log),
		Article:    newArticleService(repos, tags, log),
		Tag:        newTagService(repos, tags, log),
		ArticleTag: newArticleTagService(repos, log),
		Health:     newHealthService(deps.DB),
	}
}
