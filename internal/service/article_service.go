package service

import (
	"context"

	"github.com/blog-platform-api/internal/common"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/policy"
	"github.com/blog-platform-api/internal/repository"
	"github.com/rs/zerolog"
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	repos *repository.Repositories
	tags  *tagLoader
	log   zerolog.Logger
}

func newArticleService(repos *repository.Repositories, tags *tagLoader, log zerolog.Logger) *articleService {
	return &articleService{
		repos: repos,
		tags:  tags,
		log:   log.With().Str("service", "article").Logger(),
	}
}

// Create stores an article owned by the caller and links its tags atomically
func (s *articleService) Create(ctx context.Context, req *models.CreateArticleRequest) (*models.Article, error) {
	identity, err := policy.Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	article := &models.Article{
		Title:   req.Title,
		Content: req.Content,
		Excerpt: req.Excerpt,
		Status:  models.StatusPublished,
		UserID:  identity.ID,
	}
	if req.Status != "" {
		article.Status = models.ArticleStatus(req.Status)
	}
	tagIDs := dedupeIDs(req.TagIDs)

	err = s.repos.Tx.WithinTx(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		if err := resolveTags(ctx, tx.Tag, tagIDs); err != nil {
			return err
		}
		if err := tx.Article.Create(ctx, article); err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			if err := tx.ArticleTag.Create(ctx, &models.ArticleTag{ArticleID: article.ID, TagID: tagID}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("article_id", article.ID).
		Int64("user_id", identity.ID).
		Int("tags", len(tagIDs)).
		Msg("Article created")

	return s.load(ctx, article.ID)
}

// ListPublished returns every published article, newest first
func (s *articleService) ListPublished(ctx context.Context) ([]*models.Article, error) {
	if _, err := policy.Authenticated(ctx); err != nil {
		return nil, err
	}
	articles, err := s.repos.Article.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	return articles, s.tags.populate(ctx, articles)
}

// Get returns one live article regardless of status
func (s *articleService) Get(ctx context.Context, id int64) (*models.Article, error) {
	if _, err := policy.Authenticated(ctx); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// ListMine returns the caller's published articles, newest first
func (s *articleService) ListMine(ctx context.Context) ([]*models.Article, error) {
	identity, err := policy.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	articles, err := s.repos.Article.ListPublishedByUser(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	return articles, s.tags.populate(ctx, articles)
}

// GetMine returns one of the caller's articles. Articles of other users
// are reported as not found.
func (s *articleService) GetMine(ctx context.Context, id int64) (*models.Article, error) {
	identity, err := policy.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.UserID != identity.ID {
		return nil, common.NotFound("article")
	}
	return article, nil
}

// Update applies the non-nil fields of req. A non-nil TagIDs replaces the
// whole tag set; the field changes and the tag changes commit together.
func (s *articleService) Update(ctx context.Context, id int64, req *models.UpdateArticleRequest) (*models.Article, error) {
	identity, err := policy.Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	article, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, common.NotFound("article")
	}
	if err := policy.RequireOwnerOrAdmin(identity, article); err != nil {
		return nil, err
	}

	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Content != nil {
		article.Content = *req.Content
	}
	if req.Excerpt != nil {
		article.Excerpt = req.Excerpt
	}
	if req.Status != nil {
		article.Status = models.ArticleStatus(*req.Status)
	}

	var added, removed []int64
	err = s.repos.Tx.WithinTx(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		if err := tx.Article.Update(ctx, article); err != nil {
			return err
		}
		if req.TagIDs == nil {
			return nil
		}

		desired := dedupeIDs(*req.TagIDs)
		if err := resolveTags(ctx, tx.Tag, desired); err != nil {
			return err
		}
		current, err := tx.ArticleTag.TagIDs(ctx, article.ID)
		if err != nil {
			return err
		}

		added, removed = reconcileTags(current, desired)
		if err := tx.ArticleTag.DeletePairs(ctx, article.ID, removed); err != nil {
			return err
		}
		for _, tagID := range added {
			if err := tx.ArticleTag.Create(ctx, &models.ArticleTag{ArticleID: article.ID, TagID: tagID}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("article_id", article.ID).
		Int64("user_id", identity.ID).
		Int("tags_added", len(added)).
		Int("tags_removed", len(removed)).
		Msg("Article updated")

	return s.load(ctx, article.ID)
}

// Delete soft-deletes an article owned by the caller, or any article for admins
func (s *articleService) Delete(ctx context.Context, id int64) error {
	identity, err := policy.Authenticated(ctx)
	if err != nil {
		return err
	}

	article, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if article == nil {
		return common.NotFound("article")
	}
	if err := policy.RequireOwnerOrAdmin(identity, article); err != nil {
		return err
	}

	if err := s.repos.Article.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("article_id", id).Int64("user_id", identity.ID).Msg("Article soft-deleted")
	return nil
}

func (s *articleService) load(ctx context.Context, id int64) (*models.Article, error) {
	article, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, common.NotFound("article")
	}
	if err := s.tags.populate(ctx, []*models.Article{article}); err != nil {
		return nil, err
	}
	return article, nil
}
