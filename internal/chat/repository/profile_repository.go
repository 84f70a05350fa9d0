package repository

import (
	"context"
	"errors"

	"community_chat_service/internal/chat/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ErrProfileNotFound no member row for the requested user
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository read-only lookup of a sender's display profile.
// The member table is owned by the member service; this subsystem never
// writes to it.
type ProfileRepository interface {
	FindProfileByUserID(ctx context.Context, userID string) (*domain.SenderProfile, error)
}

type profileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository create a ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindProfileByUserID(ctx context.Context, userID string) (*domain.SenderProfile, error) {
	row := r.db.QueryRow(ctx,
		"SELECT member_id, username, banner, profile_image_url FROM member WHERE member_id = $1", userID)

	var p domain.SenderProfile
	if err := row.Scan(&p.UserID, &p.Username, &p.Banner, &p.ProfileImageURL); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &p, nil
}
