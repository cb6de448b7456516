package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/instrument"
	"github.com/serikimmo/serik/internal/pkg/secret"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return goerror.ErrConflict
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// secretColumns maps a purpose to its column triple on the users table.
// Closed switch, so interpolating the names into SQL is safe.
func secretColumns(p secret.Purpose) (hashCol, expiresCol, attemptsCol string, err error) {
	switch p {
	case secret.PurposeEmailVerify:
		return "verify_secret_hash", "verify_secret_expires_at", "verify_secret_attempts", nil
	case secret.PurposePasswordReset:
		return "reset_secret_hash", "reset_secret_expires_at", "reset_secret_attempts", nil
	default:
		return "", "", "", fmt.Errorf("identity db: unknown secret purpose %q", p)
	}
}
