package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blog-platform-api/internal/auth"
	"github.com/blog-platform-api/internal/common"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/policy"
	"github.com/blog-platform-api/internal/repository"
	"github.com/rs/zerolog"
)

// authService is the concrete implementation of AuthService
type authService struct {
	repos  *repository.Repositories
	tokens *auth.TokenService
	log    zerolog.Logger
}

func newAuthService(repos *repository.Repositories, tokens *auth.TokenService, log zerolog.Logger) *authService {
	return &authService{
		repos:  repos,
		tokens: tokens,
		log:    log.With().Str("service", "auth").Logger(),
	}
}

func identityOf(user *models.User) policy.Identity {
	return policy.Identity{ID: user.ID, Email: user.Email, Role: user.Role}
}

// Register creates the user and its profile in one transaction
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: hash,
		Role:     models.RoleUser,
	}

	err = s.repos.Tx.WithinTx(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		return createAccount(ctx, tx, user, &models.Profile{
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
	})
	if err != nil {
		return nil, "", err
	}

	token, _, err := s.tokens.Issue(identityOf(user))
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	return user, token, nil
}

// createAccount checks uniqueness against every user, soft-deleted ones
// included, then inserts the user and its profile.
func createAccount(ctx context.Context, tx *repository.Repositories, user *models.User, profile *models.Profile) error {
	taken, err := tx.User.EmailTaken(ctx, user.Email, 0)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return common.ErrDuplicateEmail
	}

	taken, err = tx.User.UsernameTaken(ctx, user.Username, 0)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if taken {
		return common.ErrDuplicateUsername
	}

	if err := tx.User.Create(ctx, user); err != nil {
		if common.IsDuplicate(err) {
			return err
		}
		return fmt.Errorf("create user: %w", err)
	}

	profile.UserID = user.ID
	if err := tx.Profile.Create(ctx, profile); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	user.Profile = profile
	return nil
}

// Login verifies credentials of a live user and returns a session token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error) {
	user, err := s.repos.User.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		auth.BurnPasswordCheck(req.Password)
		return nil, "", common.ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		s.log.Warn().Int64("user_id", user.ID).Msg("Failed login attempt")
		return nil, "", common.ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(identityOf(user))
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("User logged in")
	return user, token, nil
}

// ResolveToken returns the identity of a live user. The role comes from the
// stored user so that role changes apply to existing sessions.
func (s *authService) ResolveToken(ctx context.Context, token string) (policy.Identity, error) {
	claimed, err := s.tokens.Verify(token)
	if err != nil {
		if cause := common.Cause(err); cause != nil {
			s.log.Debug().Err(cause).Msg("Session token rejected")
		}
		return policy.Identity{}, err
	}

	user, err := s.repos.User.GetByID(ctx, claimed.ID)
	if err != nil {
		return policy.Identity{}, err
	}
	if user == nil {
		return policy.Identity{}, common.Errorf(common.ErrUnauthorized, "user not found")
	}
	return identityOf(user), nil
}

func (s *authService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}
