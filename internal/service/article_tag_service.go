package service

import (
	"context"

	"github.com/blog-platform-api/internal/common"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/policy"
	"github.com/blog-platform-api/internal/repository"
	"github.com/rs/zerolog"
)

// articleTagService is the concrete implementation of ArticleTagService
type articleTagService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newArticleTagService(repos *repository.Repositories, log zerolog.Logger) *articleTagService {
	return &articleTagService{
		repos: repos,
		log:   log.With().Str("service", "article_tag").Logger(),
	}
}

// Attach links a tag to an article owned by the caller, or any article for admins.
// The duplicate check and the insert share one transaction.
func (s *articleTagService) Attach(ctx context.Context, req *models.ArticleTagRequest) (*models.ArticleTag, error) {
	identity, err := policy.Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	article, err := s.repos.Article.GetByID(ctx, req.ArticleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, common.NotFound("article")
	}
	tag, err := s.repos.Tag.GetByID(ctx, req.TagID)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, common.NotFound("tag")
	}
	if err := policy.RequireOwnerOrAdmin(identity, article); err != nil {
		return nil, err
	}

	rel := &models.ArticleTag{ArticleID: article.ID, TagID: tag.ID}
	err = s.repos.Tx.WithinTx(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		exists, err := tx.ArticleTag.Exists(ctx, rel.ArticleID, rel.TagID)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrDuplicateRelation
		}
		return tx.ArticleTag.Create(ctx, rel)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("relation_id", rel.ID).
		Int64("article_id", article.ID).
		Int64("tag_id", tag.ID).
		Msg("Tag attached to article")
	return rel, nil
}

// Detach removes a link by ID under the same ownership rule as Attach
func (s *articleTagService) Detach(ctx context.Context, id int64) error {
	identity, err := policy.Authenticated(ctx)
	if err != nil {
		return err
	}

	rel, err := s.repos.ArticleTag.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rel == nil {
		return common.NotFound("relation")
	}
	article, err := s.repos.Article.GetByID(ctx, rel.ArticleID)
	if err != nil {
		return err
	}
	if article == nil {
		return common.NotFound("article")
	}
	if err := policy.RequireOwnerOrAdmin(identity, article); err != nil {
		return err
	}

	if err := s.repos.ArticleTag.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("relation_id", id).Int64("article_id", article.ID).Msg("Tag detached from article")
	return nil
}
