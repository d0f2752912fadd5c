// ABOUTME: Read-only access to profiles, owned by the surrounding application.
// ABOUTME: Used for request listings and notification addressing; UpsertProfile exists for test seeding.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Profile is the display data for a user. This service never mutates profiles
// in production paths.
type Profile struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	AvatarURL   string
	CreatedAt   time.Time
}

// GetProfile returns the profile for userID, or (nil, nil) if none exists.
func (s *Store) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var p Profile
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, display_name, email, avatar_url, created_at FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.DisplayName, &p.Email, &p.AvatarURL, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// UpsertProfile inserts or updates a profile row. The surrounding application
// owns this table; the method exists for test fixtures and local seeding.
func (s *Store) UpsertProfile(ctx context.Context, userID uuid.UUID, displayName, email string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (user_id, display_name, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET display_name = EXCLUDED.display_name, email = EXCLUDED.email`,
		userID, displayName, email)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
