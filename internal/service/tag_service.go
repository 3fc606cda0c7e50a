package service

import (
	"context"

	"github.com/blog-platform-api/internal/common"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/policy"
	"github.com/blog-platform-api/internal/repository"
	"github.com/rs/zerolog"
)

// tagService is the concrete implementation of TagService
type tagService struct {
	repos *repository.Repositories
	tags  *tagLoader
	log   zerolog.Logger
}

func newTagService(repos *repository.Repositories, tags *tagLoader, log zerolog.Logger) *tagService {
	return &tagService{
		repos: repos,
		tags:  tags,
		log:   log.With().Str("service", "tag").Logger(),
	}
}

// Create adds a tag; admin only
func (s *tagService) Create(ctx context.Context, req *models.TagRequest) (*models.Tag, error) {
	identity, err := policy.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if err := policy.RequireAdmin(identity); err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	tag := &models.Tag{Name: req.Name}
	if err := s.repos.Tag.Create(ctx, tag); err != nil {
		return nil, err
	}

	s.log.Info().Int64("tag_id", tag.ID).Str("name", tag.Name).Msg("Tag created")
	return tag, nil
}

// List returns all tags ordered by name
func (s *tagService) List(ctx context.Context) ([]*models.Tag, error) {
	if _, err := policy.Authenticated(ctx); err != nil {
		return nil, err
	}
	return s.repos.Tag.List(ctx)
}

// Get returns a tag with its live articles
func (s *tagService) Get(ctx context.Context, id int64) (*models.Tag, error) {
	if _, err := policy.Authenticated(ctx); err != nil {
		return nil, err
	}

	tag, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	articles, err := s.repos.Article.ListByTag(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.tags.populate(ctx, articles); err != nil {
		return nil, err
	}
	tag.Articles = articles
	return tag, nil
}

// Update renames a tag; admin only
func (s *tagService) Update(ctx context.Context, id int64, req *models.UpdateTagRequest) (*models.Tag, error) {
	identity, err := policy.Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	tag, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.RequireAdmin(identity); err != nil {
		return nil, err
	}

	if req.Name == nil || *req.Name == tag.Name {
		return tag, nil
	}
	if err := s.ensureNameFree(ctx, *req.Name, tag.ID); err != nil {
		return nil, err
	}

	tag.Name = *req.Name
	if err := s.repos.Tag.Update(ctx, tag); err != nil {
		return nil, err
	}

	s.log.Info().Int64("tag_id", tag.ID).Str("name", tag.Name).Msg("Tag renamed")
	return tag, nil
}

// Delete removes a tag and all its article links; admin only
func (s *tagService) Delete(ctx context.Context, id int64) error {
	identity, err := policy.Authenticated(ctx)
	if err != nil {
		return err
	}

	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := policy.RequireAdmin(identity); err != nil {
		return err
	}

	if err := s.repos.Tag.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("tag_id", id).Msg("Tag deleted")
	return nil
}

func (s *tagService) load(ctx context.Context, id int64) (*models.Tag, error) {
	tag, err := s.repos.Tag.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, common.NotFound("tag")
	}
	return tag, nil
}

func (s *tagService) ensureNameFree(ctx context.Context, name string, excludeID int64) error {
	taken, err := s.repos.Tag.NameTaken(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return common.Errorf(common.ErrDuplicateTag, "tag %q already exists", name)
	}
	return nil
}
