package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/blog-platform-api/internal/database"
	"github.com/blog-platform-api/internal/models"
	"github.com/lib/pq"
)

// articleTagRepo is the concrete implementation of ArticleTagRepository
type articleTagRepo struct {
	db database.DBTX
}

// NewArticleTagRepo creates a new article/tag link repository
func NewArticleTagRepo(db database.DBTX) ArticleTagRepository {
	return &articleTagRepo{db: db}
}

// Create links an article to a tag
func (r *articleTagRepo) Create(ctx context.Context, rel *models.ArticleTag) error {
	query := `
		INSERT INTO article_tags (article_id, tag_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, rel.ArticleID, rel.TagID).Scan(&rel.ID, &rel.CreatedAt)
	return translateError(err)
}

// GetByID retrieves a link by ID
func (r *articleTagRepo) GetByID(ctx context.Context, id int64) (*models.ArticleTag, error) {
	query := `SELECT id, article_id, tag_id, created_at FROM article_tags WHERE id = $1`

	var rel models.ArticleTag
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rel.ID, &rel.ArticleID, &rel.TagID, &rel.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// Exists checks whether the pair is already linked
func (r *articleTagRepo) Exists(ctx context.Context, articleID, tagID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM article_tags WHERE article_id = $1 AND tag_id = $2)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, articleID, tagID).Scan(&exists)
	return exists, err
}

// TagIDs returns the IDs of the tags linked to an article
func (r *articleTagRepo) TagIDs(ctx context.Context, articleID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tag_id FROM article_tags WHERE article_id = $1 ORDER BY tag_id`, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TagsByArticleIDs returns the tags of several articles keyed by article ID, each list ordered by name
func (r *articleTagRepo) TagsByArticleIDs(ctx context.Context, articleIDs []int64) (map[int64][]*models.Tag, error) {
	byArticle := make(map[int64][]*models.Tag, len(articleIDs))
	if len(articleIDs) == 0 {
		return byArticle, nil
	}

	query := `
		SELECT at.article_id, t.id, t.name, t.created_at, t.updated_at
		FROM article_tags at
		JOIN tags t ON t.id = at.tag_id
		WHERE at.article_id = ANY($1)
		ORDER BY t.name
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(articleIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var articleID int64
		var tag models.Tag
		if err := rows.Scan(&articleID, &tag.ID, &tag.Name, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			return nil, err
		}
		byArticle[articleID] = append(byArticle[articleID], &tag)
	}
	return byArticle, rows.Err()
}

// Delete removes a link by ID
func (r *articleTagRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM article_tags WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(result, "relation")
}

// DeletePairs unlinks tagIDs from an article
func (r *articleTagRepo) DeletePairs(ctx context.Context, articleID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM article_tags WHERE article_id = $1 AND tag_id = ANY($2)`,
		articleID, pq.Array(tagIDs))
	return err
}
