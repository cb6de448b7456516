package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serikimmo/serik/internal/notification/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/instrument"
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
	return s.ins.Tracer("notification.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *DB) GetTemplateByTriggerChannel(ctx context.Context, tk entity.TriggerKey, ch entity.Channel) (tpl *entity.Template, err error) {
	ctx, span := s.startSpan(ctx, "GetTemplateByTriggerChannel")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT id, trigger_key, channel, subject, body, updated_at
		FROM notification_templates WHERE trigger_key = $1 AND channel = $2`

	var t entity.Template
	err = s.mapError(s.conn.QueryRow(ctx, query, tk, ch).Scan(
		&t.ID, &t.TriggerKey, &t.Channel, &t.Subject, &t.Body, &t.UpdatedAt,
	))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *DB) ListTemplates(ctx context.Context) (templates []entity.Template, err error) {
	ctx, span := s.startSpan(ctx, "ListTemplates")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT id, trigger_key, channel, subject, body, updated_at
		FROM notification_templates ORDER BY trigger_key, channel`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var t entity.Template
		if err = rows.Scan(&t.ID, &t.TriggerKey, &t.Channel, &t.Subject, &t.Body, &t.UpdatedAt); err != nil {
			return nil, s.mapError(err)
		}
		templates = append(templates, t)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return templates, nil
}

func (s *DB) UpsertTemplate(ctx context.Context, in entity.UpsertTemplate) (err error) {
	ctx, span := s.startSpan(ctx, "UpsertTemplate")
	defer func() { s.endSpan(span, err) }()

	query := `INSERT INTO notification_templates (id, trigger_key, channel, subject, body)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (trigger_key, channel) DO UPDATE SET
			subject = excluded.subject, body = excluded.body, updated_at = now()`

	_, err = s.conn.Exec(ctx, query, in.ID, in.TriggerKey, in.Channel, in.Subject, in.Body)
	err = s.mapError(err)
	return err
}

func (s *DB) CreateDeliveryLog(ctx context.Context, in entity.CreateDeliveryLog) (err error) {
	ctx, span := s.startSpan(ctx, "CreateDeliveryLog")
	defer func() { s.endSpan(span, err) }()

	query := `INSERT INTO notification_delivery_logs (id, user_id, recipient, trigger_key, channel, status)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = s.conn.Exec(ctx, query, in.ID, in.UserID, in.Recipient, in.TriggerKey, in.Channel, in.Status)
	err = s.mapError(err)
	return err
}

func (s *DB) UpdateDeliveryLog(ctx context.Context, in entity.UpdateDeliveryLog) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateDeliveryLog")
	defer func() { s.endSpan(span, err) }()

	query := `UPDATE notification_delivery_logs
		SET status = $2, provider_response = $3, next_retry_at = $4
		WHERE id = $1`

	_, err = s.conn.Exec(ctx, query, in.ID, in.Status, in.ProviderResponse, in.NextRetryAt)
	err = s.mapError(err)
	return err
}
