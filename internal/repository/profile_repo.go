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

const profileColumns = `id, user_id, first_name, last_name, biography, avatar_url, birth_date, created_at, updated_at`

// profileRepo is the concrete implementation of ProfileRepository
type profileRepo struct {
	db database.DBTX
}

// NewProfileRepo creates a new profile repository
func NewProfileRepo(db database.DBTX) ProfileRepository {
	return &profileRepo{db: db}
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Biography,
		&p.AvatarURL, &p.BirthDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts the profile of a user
func (r *profileRepo) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, first_name, last_name, biography, avatar_url, birth_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		profile.UserID, profile.FirstName, profile.LastName,
		profile.Biography, profile.AvatarURL, profile.BirthDate,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	return translateError(err)
}

// GetByUserID retrieves the profile of a user
func (r *profileRepo) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// GetByUserIDs retrieves profiles keyed by user ID
func (r *profileRepo) GetByUserIDs(ctx context.Context, userIDs []int64) (map[int64]*models.Profile, error) {
	profiles := make(map[int64]*models.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return profiles, nil
	}

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles[profile.UserID] = profile
	}
	return profiles, rows.Err()
}

// Update writes all editable profile fields
func (r *profileRepo) Update(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET first_name = $1, last_name = $2, biography = $3, avatar_url = $4,
			birth_date = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		profile.FirstName, profile.LastName, profile.Biography,
		profile.AvatarURL, profile.BirthDate, profile.ID,
	).Scan(&profile.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return common.NotFound("profile")
	}
	return err
}
