package db

import (
	"context"
	"fmt"
	"time"

	"github.com/serikimmo/serik/internal/identity/entity"
	"github.com/serikimmo/serik/internal/pkg/secret"
)

const userColumns = `id, email, first_name, last_name,
	coalesce(phone, ''), coalesce(avatar_url, ''), role,
	coalesce(password, ''), email_verified, created_at, updated_at`

func (s *DB) scanUser(row interface{ Scan(dest ...any) error }) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName,
		&u.Phone, &u.AvatarURL, &u.Role,
		&u.Password, &u.EmailVerified, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &u, nil
}

func (s *DB) GetUserByEmail(ctx context.Context, email string) (u *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`
	u, err = s.scanUser(s.conn.QueryRow(ctx, query, email))
	return u, err
}

func (s *DB) GetUserByID(ctx context.Context, id int64) (u *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	u, err = s.scanUser(s.conn.QueryRow(ctx, query, id))
	return u, err
}

func (s *DB) scanUserSecret(row interface{ Scan(dest ...any) error }) (*entity.UserSecret, error) {
	var (
		us        entity.UserSecret
		hash      *string
		expiresAt *time.Time
	)

	err := row.Scan(
		&us.UserID, &us.Email, &us.FirstName, &us.LastName,
		&us.Role, &us.EmailVerified,
		&hash, &expiresAt, &us.Secret.Attempts,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	if hash != nil {
		us.Secret.Hash = *hash
	}
	if expiresAt != nil {
		us.Secret.ExpiresAt = *expiresAt
	}

	return &us, nil
}

// LoadSecret returns the user and their secret slot for the purpose. The
// slot may be empty, callers check Record.Active.
func (s *DB) LoadSecret(ctx context.Context, email string, p secret.Purpose) (us *entity.UserSecret, err error) {
	ctx, span := s.startSpan(ctx, "LoadSecret")
	defer func() { s.endSpan(span, err) }()

	hashCol, expiresCol, attemptsCol, err := secretColumns(p)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, email, first_name, last_name, role, email_verified,
		%s, %s, coalesce(%s, 0)
		FROM users WHERE email = $1 AND deleted_at IS NULL`, hashCol, expiresCol, attemptsCol)

	us, err = s.scanUserSecret(s.conn.QueryRow(ctx, query, email))
	return us, err
}

// LoadSecretByHash resolves the owner of a presented digest, used by the
// password reset flow where the token itself identifies the user.
func (s *DB) LoadSecretByHash(ctx context.Context, tokenHash string, p secret.Purpose) (us *entity.UserSecret, err error) {
	ctx, span := s.startSpan(ctx, "LoadSecretByHash")
	defer func() { s.endSpan(span, err) }()

	hashCol, expiresCol, attemptsCol, err := secretColumns(p)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, email, first_name, last_name, role, email_verified,
		%s, %s, coalesce(%s, 0)
		FROM users WHERE %s = $1 AND deleted_at IS NULL`, hashCol, expiresCol, attemptsCol, hashCol)

	us, err = s.scanUserSecret(s.conn.QueryRow(ctx, query, tokenHash))
	return us, err
}
