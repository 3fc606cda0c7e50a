package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/blog-platform-api/internal/common"
	"github.com/blog-platform-api/internal/database"
	"github.com/blog-platform-api/internal/models"
	"github.com/lib/pq"
)

// articleSelect joins the author so every read returns a populated Author
const articleSelect = `
	SELECT a.id, a.title, a.content, a.excerpt, a.status, a.user_id,
		a.created_at, a.updated_at, u.id, u.username, u.email
	FROM articles a
	JOIN users u ON u.id = a.user_id
`

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db database.DBTX
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db database.DBTX) ArticleRepository {
	return &articleRepo{db: db}
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var a models.Article
	var author models.UserSummary
	err := row.Scan(
		&a.ID, &a.Title, &a.Content, &a.Excerpt, &a.Status, &a.UserID,
		&a.CreatedAt, &a.UpdatedAt, &author.ID, &author.Username, &author.Email,
	)
	if err != nil {
		return nil, err
	}
	a.Author = &author
	return &a, nil
}

// Create inserts a new article
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (title, content, excerpt, status, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		article.Title, article.Content, article.Excerpt, article.Status, article.UserID,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
}

// GetByID retrieves a live article with its author
func (r *articleRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	query := articleSelect + `WHERE a.id = $1 AND a.deleted_at IS NULL`

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return article, nil
}

// ListPublished returns published articles, newest first
func (r *articleRepo) ListPublished(ctx context.Context) ([]*models.Article, error) {
	query := articleSelect + `
		WHERE a.deleted_at IS NULL AND a.status = 'published'
		ORDER BY a.created_at DESC, a.id DESC
	`
	return r.list(ctx, query)
}

// ListPublishedByUser returns the published articles of one user, newest first
func (r *articleRepo) ListPublishedByUser(ctx context.Context, userID int64) ([]*models.Article, error) {
	query := articleSelect + `
		WHERE a.deleted_at IS NULL AND a.status = 'published' AND a.user_id = $1
		ORDER BY a.created_at DESC, a.id DESC
	`
	return r.list(ctx, query, userID)
}

// ListByUserIDs returns the live articles of several users keyed by user ID
func (r *articleRepo) ListByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]*models.Article, error) {
	byUser := make(map[int64][]*models.Article, len(userIDs))
	if len(userIDs) == 0 {
		return byUser, nil
	}

	query := articleSelect + `
		WHERE a.deleted_at IS NULL AND a.user_id = ANY($1)
		ORDER BY a.created_at DESC, a.id DESC
	`
	articles, err := r.list(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	for _, a := range articles {
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}
	return byUser, nil
}

// ListByTag returns the live articles carrying a tag
func (r *articleRepo) ListByTag(ctx context.Context, tagID int64) ([]*models.Article, error) {
	query := articleSelect + `
		JOIN article_tags at ON at.article_id = a.id
		WHERE at.tag_id = $1 AND a.deleted_at IS NULL
		ORDER BY a.created_at DESC, a.id DESC
	`
	return r.list(ctx, query, tagID)
}

func (r *articleRepo) list(ctx context.Context, query string, args ...any) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := []*models.Article{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// Update writes the editable fields of a live article
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles
		SET title = $1, content = $2, excerpt = $3, status = $4, updated_at = NOW()
		WHERE id = $5 AND deleted_at IS NULL
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		article.Title, article.Content, article.Excerpt, article.Status, article.ID,
	).Scan(&article.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return common.NotFound("article")
	}
	return err
}

// SoftDelete marks a live article as deleted
func (r *articleRepo) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE articles SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return expectAffected(result, "article")
}
