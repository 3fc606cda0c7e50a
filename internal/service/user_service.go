package service

import (
	"context"

	"github.com/blog-platform-api/internal/auth"
	"github.com/blog-platform-api/internal/common"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/policy"
	"github.com/blog-platform-api/internal/repository"
	"github.com/rs/zerolog"
)

// userService is the concrete implementation of UserService
type userService struct {
	repos *repository.Repositories
	tags  *tagLoader
	log   zerolog.Logger
}

func newUserService(repos *repository.Repositories, tags *tagLoader, log zerolog.Logger) *userService {
	return &userService{
		repos: repos,
		tags:  tags,
		log:   log.With().Str("service", "user").Logger(),
	}
}

// List returns every user, soft-deleted ones included, with profiles and articles
func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	identity, err := policy.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if err := policy.RequireAdmin(identity); err != nil {
		return nil, err
	}

	users, err := s.repos.User.ListUnscoped(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.expand(ctx, users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// Get returns one user, soft-deleted or not, with profile and articles
func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, _, err := s.loadForAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.expand(ctx, []*models.User{user}); err != nil {
		return nil, err
	}
	return user, nil
}

// Update changes username, email and role. Uniqueness is checked against
// every other user, soft-deleted ones included.
func (s *userService) Update(ctx context.Context, id int64, req *models.UpdateUserRequest) (*models.User, error) {
	user, identity, err := s.loadForAdmin(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.repos.User.EmailTaken(ctx, *req.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, common.ErrDuplicateEmail
		}
		user.Email = *req.Email
	}
	if req.Username != nil && *req.Username != user.Username {
		taken, err := s.repos.User.UsernameTaken(ctx, *req.Username, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, common.ErrDuplicateUsername
		}
		user.Username = *req.Username
	}
	if req.Role != nil {
		user.Role = models.Role(*req.Role)
	}

	if err := s.repos.User.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("user_id", user.ID).
		Int64("admin_id", identity.ID).
		Str("role", string(user.Role)).
		Msg("User updated by admin")

	return s.Get(ctx, user.ID)
}

// Delete soft-deletes a live user
func (s *userService) Delete(ctx context.Context, id int64) error {
	identity, err := policy.Authenticated(ctx)
	if err != nil {
		return err
	}

	user, err := s.repos.User.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return common.NotFound("user")
	}
	if err := policy.RequireAdmin(identity); err != nil {
		return err
	}

	if err := s.repos.User.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("user_id", id).Int64("admin_id", identity.ID).Msg("User soft-deleted")
	return nil
}

// EnsureAdmin promotes the live user with email to admin, or creates one
func (s *userService) EnsureAdmin(ctx context.Context, username, email, password string) (*models.User, error) {
	existing, err := s.repos.User.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.IsAdmin() {
			return existing, nil
		}
		existing.Role = models.RoleAdmin
		if err := s.repos.User.Update(ctx, existing); err != nil {
			return nil, err
		}
		s.log.Info().Int64("user_id", existing.ID).Msg("Promoted existing user to admin")
		return existing, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Username: username, Email: email, Password: hash, Role: models.RoleAdmin}

	err = s.repos.Tx.WithinTx(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		return createAccount(ctx, tx, user, &models.Profile{FirstName: "Site", LastName: "Admin"})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("Created admin user")
	return user, nil
}

// loadForAdmin resolves the target first so that a missing user reports
// not found before the role check.
func (s *userService) loadForAdmin(ctx context.Context, id int64) (*models.User, policy.Identity, error) {
	identity, err := policy.Authenticated(ctx)
	if err != nil {
		return nil, identity, err
	}

	user, err := s.repos.User.GetByIDUnscoped(ctx, id)
	if err != nil {
		return nil, identity, err
	}
	if user == nil {
		return nil, identity, common.NotFound("user")
	}
	if err := policy.RequireAdmin(identity); err != nil {
		return nil, identity, err
	}
	return user, identity, nil
}

// expand attaches profiles and live articles to users
func (s *userService) expand(ctx context.Context, users []*models.User) error {
	if len(users) == 0 {
		return nil
	}

	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	profiles, err := s.repos.Profile.GetByUserIDs(ctx, ids)
	if err != nil {
		return err
	}
	articles, err := s.repos.Article.ListByUserIDs(ctx, ids)
	if err != nil {
		return err
	}

	var all []*models.Article
	for _, u := range users {
		u.Profile = profiles[u.ID]
		u.Articles = articles[u.ID]
		if u.Articles == nil {
			u.Articles = []*models.Article{}
		}
		all = append(all, u.Articles...)
	}
	return s.tags.populate(ctx, all)
}
