package db

import (
	"context"

	"github.com/serikimmo/serik/internal/identity/entity"
)

func (s *DB) CreateUser(ctx context.Context, in entity.NewUser) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	query := `INSERT INTO users (id, email, first_name, last_name, phone, password, role, email_verified)
		VALUES ($1, $2, $3, $4, nullif($5, ''), nullif($6, ''), $7, $8)`

	_, err = s.conn.Exec(ctx, query,
		in.ID, in.Email, in.FirstName, in.LastName,
		in.Phone, in.Password, in.Role.Ensure(), in.EmailVerified,
	)
	err = s.mapError(err)
	return err
}

// UpsertGoogleUser inserts the asserted identity or refreshes the existing
// row keyed by email, and returns the row either way.
func (s *DB) UpsertGoogleUser(ctx context.Context, in entity.GoogleUser) (u *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "UpsertGoogleUser")
	defer func() { s.endSpan(span, err) }()

	query := `INSERT INTO users (id, email, first_name, last_name, avatar_url, role, email_verified)
		VALUES ($1, $2, $3, $4, nullif($5, ''), $6, $7)
		ON CONFLICT (email) DO UPDATE SET
			avatar_url = coalesce(nullif(excluded.avatar_url, ''), users.avatar_url),
			email_verified = true,
			updated_at = now()
		RETURNING ` + userColumns

	u, err = s.scanUser(s.conn.QueryRow(ctx, query,
		in.ID, in.Email, in.FirstName, in.LastName,
		in.AvatarURL, entity.RoleUser, in.EmailVerified,
	))
	return u, err
}

func (s *DB) CreateSession(ctx context.Context, in entity.Session) (err error) {
	ctx, span := s.startSpan(ctx, "CreateSession")
	defer func() { s.endSpan(span, err) }()

	query := `INSERT INTO sessions (id, user_id, token, expires_at, metadata)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = s.conn.Exec(ctx, query, in.ID, in.UserID, in.Token, in.ExpiresAt, in.Metadata)
	err = s.mapError(err)
	return err
}
