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

// tagRepo is the concrete implementation of TagRepository
type tagRepo struct {
	db database.DBTX
}

// NewTagRepo creates a new tag repository
func NewTagRepo(db database.DBTX) TagRepository {
	return &tagRepo{db: db}
}

func scanTag(row rowScanner) (*models.Tag, error) {
	var tag models.Tag
	if err := row.Scan(&tag.ID, &tag.Name, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
		return nil, err
	}
	return &tag, nil
}

// Create inserts a new tag
func (r *tagRepo) Create(ctx context.Context, tag *models.Tag) error {
	query := `INSERT INTO tags (name) VALUES ($1) RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, tag.Name).Scan(&tag.ID, &tag.CreatedAt, &tag.UpdatedAt)
	return translateError(err)
}

// GetByID retrieves a tag by ID
func (r *tagRepo) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	query := `SELECT id, name, created_at, updated_at FROM tags WHERE id = $1`

	tag, err := scanTag(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// GetByIDs retrieves the tags that exist among ids, ordered by name
func (r *tagRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.Tag, error) {
	if len(ids) == 0 {
		return []*models.Tag{}, nil
	}
	query := `SELECT id, name, created_at, updated_at FROM tags WHERE id = ANY($1) ORDER BY name`
	return r.list(ctx, query, pq.Array(ids))
}

// List returns all tags ordered by name
func (r *tagRepo) List(ctx context.Context) ([]*models.Tag, error) {
	query := `SELECT id, name, created_at, updated_at FROM tags ORDER BY name ASC`
	return r.list(ctx, query)
}

func (r *tagRepo) list(ctx context.Context, query string, args ...any) ([]*models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []*models.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// NameTaken checks whether a tag other than excludeID uses name
func (r *tagRepo) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tags WHERE name = $1 AND id <> $2)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, name, excludeID).Scan(&exists)
	return exists, err
}

// Update renames a tag
func (r *tagRepo) Update(ctx context.Context, tag *models.Tag) error {
	query := `UPDATE tags SET name = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, tag.Name, tag.ID).Scan(&tag.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return common.NotFound("tag")
	}
	return translateError(err)
}

// Delete removes a tag; its article links cascade
func (r *tagRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(result, "tag")
}
