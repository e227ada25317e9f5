package repository

import (
	"context"
	"database/sql"

	"github.com/sports-central-api/internal/models"
)

// profileRepo is the concrete implementation of ProfileRepository
type profileRepo struct {
	db querier
}

// NewProfileRepo creates a new profile repository
func NewProfileRepo(db querier) ProfileRepository {
	return &profileRepo{db: db}
}

// GetByID retrieves a profile by user id. A missing profile is (nil, nil).
func (r *profileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	var avatar sql.NullString

	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, avatar_url FROM profiles WHERE id = $1", id,
	).Scan(&profile.ID, &profile.Username, &avatar)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if avatar.Valid {
		profile.AvatarURL = &avatar.String
	}
	return &profile, nil
}
