package db

import (
	"context"
	"fmt"
	"time"

	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/secret"
)

// IssueSecret overwrites the purpose's slot unconditionally and resets the
// attempt counter. Single-row update, so concurrent issuers settle on the
// last writer.
func (s *DB) IssueSecret(ctx context.Context, userID int64, p secret.Purpose, hash string, expiresAt time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "IssueSecret")
	defer func() { s.endSpan(span, err) }()

	hashCol, expiresCol, attemptsCol, err := secretColumns(p)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE users SET %s = $2, %s = $3, %s = 0, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, hashCol, expiresCol, attemptsCol)

	tag, err := s.conn.Exec(ctx, query, userID, hash, expiresAt)
	if err != nil {
		err = s.mapError(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		err = goerror.ErrNotFound
		return err
	}

	return nil
}

func (s *DB) ClearSecret(ctx context.Context, userID int64, p secret.Purpose) (err error) {
	ctx, span := s.startSpan(ctx, "ClearSecret")
	defer func() { s.endSpan(span, err) }()

	hashCol, expiresCol, attemptsCol, err := secretColumns(p)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE users SET %s = NULL, %s = NULL, %s = 0, updated_at = now()
		WHERE id = $1`, hashCol, expiresCol, attemptsCol)

	_, err = s.conn.Exec(ctx, query, userID)
	err = s.mapError(err)
	return err
}

// BumpSecretAttempts only counts against a slot that still holds a value,
// so a concurrent clear or reissue is never charged a stale failure.
func (s *DB) BumpSecretAttempts(ctx context.Context, userID int64, p secret.Purpose) (err error) {
	ctx, span := s.startSpan(ctx, "BumpSecretAttempts")
	defer func() { s.endSpan(span, err) }()

	hashCol, _, attemptsCol, err := secretColumns(p)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE users SET %s = %s + 1, updated_at = now()
		WHERE id = $1 AND %s IS NOT NULL`, attemptsCol, attemptsCol, hashCol)

	_, err = s.conn.Exec(ctx, query, userID)
	err = s.mapError(err)
	return err
}

// MarkEmailVerified flags the email and clears the verification slot in the
// same statement, so the granted effect and the cleanup cannot diverge.
func (s *DB) MarkEmailVerified(ctx context.Context, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "MarkEmailVerified")
	defer func() { s.endSpan(span, err) }()

	query := `UPDATE users SET email_verified = true,
		verify_secret_hash = NULL, verify_secret_expires_at = NULL, verify_secret_attempts = 0,
		updated_at = now()
		WHERE id = $1`

	_, err = s.conn.Exec(ctx, query, userID)
	err = s.mapError(err)
	return err
}

// ResetPassword swaps the password and clears the reset slot in the same
// statement.
func (s *DB) ResetPassword(ctx context.Context, userID int64, passwordHash string) (err error) {
	ctx, span := s.startSpan(ctx, "ResetPassword")
	defer func() { s.endSpan(span, err) }()

	query := `UPDATE users SET password = $2,
		reset_secret_hash = NULL, reset_secret_expires_at = NULL, reset_secret_attempts = 0,
		updated_at = now()
		WHERE id = $1`

	_, err = s.conn.Exec(ctx, query, userID, passwordHash)
	err = s.mapError(err)
	return err
}

func (s *DB) RevokeSession(ctx context.Context, tokenHash string) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeSession")
	defer func() { s.endSpan(span, err) }()

	query := `UPDATE sessions SET revoked = true WHERE token = $1`

	_, err = s.conn.Exec(ctx, query, tokenHash)
	err = s.mapError(err)
	return err
}
