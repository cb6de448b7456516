package db

import (
	"context"
	"fmt"
)

// toggleFlag inserts an active row or flips the existing one, then returns
// the new state and the active count for the house. The table name comes
// from a closed call-site set.
func (s *DB) toggleFlag(ctx context.Context, table string, userID, houseID int64) (active bool, count int64, err error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return false, 0, s.mapError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	upsert := fmt.Sprintf(`INSERT INTO %s (user_id, house_id, active)
		VALUES ($1, $2, true)
		ON CONFLICT (user_id, house_id) DO UPDATE SET active = NOT %s.active, updated_at = now()
		RETURNING active`, table, table)

	if err = tx.QueryRow(ctx, upsert, userID, houseID).Scan(&active); err != nil {
		return false, 0, s.mapError(err)
	}

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE house_id = $1 AND active`, table)
	if err = tx.QueryRow(ctx, countQuery, houseID).Scan(&count); err != nil {
		return false, 0, s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return false, 0, s.mapError(err)
	}

	return active, count, nil
}

func (s *DB) ToggleBookmark(ctx context.Context, userID, houseID int64) (active bool, count int64, err error) {
	ctx, span := s.startSpan(ctx, "ToggleBookmark")
	defer func() { s.endSpan(span, err) }()

	return s.toggleFlag(ctx, "house_bookmarks", userID, houseID)
}

func (s *DB) ToggleInterest(ctx context.Context, userID, houseID int64) (active bool, count int64, err error) {
	ctx, span := s.startSpan(ctx, "ToggleInterest")
	defer func() { s.endSpan(span, err) }()

	return s.toggleFlag(ctx, "house_interests", userID, houseID)
}
