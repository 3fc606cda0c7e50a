package service

import (
	"context"
	"fmt"

	"github.com/blog-platform-api/internal/common"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/policy"
	"github.com/blog-platform-api/internal/repository"
	"github.com/blog-platform-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// profileService is the concrete implementation of ProfileService
type profileService struct {
	repos   *repository.Repositories
	avatars AvatarPresigner
	log     zerolog.Logger
}

func newProfileService(repos *repository.Repositories, avatars AvatarPresigner, log zerolog.Logger) *profileService {
	return &profileService{
		repos:   repos,
		avatars: avatars,
		log:     log.With().Str("service", "profile").Logger(),
	}
}

// Get returns the caller with their profile attached
func (s *profileService) Get(ctx context.Context) (*models.User, error) {
	identity, err := policy.Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.repos.User.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.NotFound("user")
	}

	profile, err := s.repos.Profile.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, common.NotFound("profile")
	}
	user.Profile = profile
	return user, nil
}

// Update applies the non-nil fields of req to the caller's profile
func (s *profileService) Update(ctx context.Context, req *models.UpdateProfileRequest) (*models.Profile, error) {
	identity, err := policy.Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.repos.Profile.GetByUserID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, common.NotFound("profile")
	}

	if req.FirstName != nil {
		profile.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		profile.LastName = *req.LastName
	}
	if req.Biography != nil {
		profile.Biography = nilIfEmpty(*req.Biography)
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = nilIfEmpty(*req.AvatarURL)
	}
	if req.BirthDate != nil && *req.BirthDate == "" {
		profile.BirthDate = nil
	} else if req.BirthDate != nil {
		birthDate, err := validation.ParseDate(*req.BirthDate)
		if err != nil {
			return nil, common.Errorf(common.ErrValidation, "birth_date must be a valid ISO 8601 date")
		}
		profile.BirthDate = &birthDate
	}

	if err := s.repos.Profile.Update(ctx, profile); err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", identity.ID).Msg("Profile updated")
	return profile, nil
}

// AvatarUpload presigns an upload target for a new profile picture. The
// client stores the returned avatar_url through Update once the upload succeeds.
func (s *profileService) AvatarUpload(ctx context.Context, req *models.AvatarUploadRequest) (*models.AvatarUpload, error) {
	identity, err := policy.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if s.avatars == nil {
		return nil, common.Errorf(common.ErrFeatureDisabled, "avatar uploads are not configured")
	}

	ext, ok := avatarExtensions[req.ContentType]
	if !ok {
		return nil, common.Errorf(common.ErrValidation, "unsupported content type %q", req.ContentType)
	}

	key := fmt.Sprintf("avatars/%d/%s%s", identity.ID, uuid.NewString(), ext)
	uploadURL, publicURL, expiresAt, err := s.avatars.PresignPut(ctx, key, req.ContentType)
	if err != nil {
		return nil, err
	}

	return &models.AvatarUpload{
		UploadURL: uploadURL,
		AvatarURL: publicURL,
		Method:    "PUT",
		ExpiresAt: expiresAt,
	}, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
