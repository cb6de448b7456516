package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/serikimmo/serik/internal/listing/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
)

// toStrings widens enum slices so the pg driver encodes them as text arrays.
func toStrings[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

const houseColumns = `h.id, h.title, h.description, h.price, h.location,
	h.property_type, h.intent, h.status, h.rooms, h.bedrooms,
	h.swimming_pool, h.private_parking, h.property_size, h.land_size,
	h.image_urls, h.view_count, h.posted_by, h.created_at, h.updated_at`

func scanHouse(row interface{ Scan(dest ...any) error }, h *entity.House) error {
	return row.Scan(
		&h.ID, &h.Title, &h.Description, &h.Price, &h.Location,
		&h.PropertyType, &h.Intent, &h.Status, &h.Rooms, &h.Bedrooms,
		&h.SwimmingPool, &h.PrivateParking, &h.PropertySize, &h.LandSize,
		&h.ImageURLs, &h.ViewCount, &h.PostedBy, &h.CreatedAt, &h.UpdatedAt,
	)
}

func (s *DB) GetHouseByID(ctx context.Context, id int64) (h *entity.House, err error) {
	ctx, span := s.startSpan(ctx, "GetHouseByID")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + houseColumns + ` FROM houses h WHERE h.id = $1 AND h.deleted_at IS NULL`

	var house entity.House
	if err = s.mapError(scanHouse(s.conn.QueryRow(ctx, query, id), &house)); err != nil {
		return nil, err
	}
	return &house, nil
}

// GetHouseDetail loads the house, the poster summary, the engagement
// counts, and the viewer's own flags. viewerID 0 means anonymous, the
// flag subqueries then match nothing.
func (s *DB) GetHouseDetail(ctx context.Context, id, viewerID int64) (d *entity.HouseDetail, err error) {
	ctx, span := s.startSpan(ctx, "GetHouseDetail")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + houseColumns + `,
		u.id, u.first_name, u.last_name, coalesce(u.avatar_url, ''), coalesce(u.phone, ''),
		(SELECT count(*) FROM house_bookmarks b WHERE b.house_id = h.id AND b.active),
		(SELECT count(*) FROM house_interests i WHERE i.house_id = h.id AND i.active),
		EXISTS(SELECT 1 FROM house_bookmarks b WHERE b.house_id = h.id AND b.user_id = $2 AND b.active),
		EXISTS(SELECT 1 FROM house_interests i WHERE i.house_id = h.id AND i.user_id = $2 AND i.active)
		FROM houses h
		JOIN users u ON u.id = h.posted_by
		WHERE h.id = $1 AND h.deleted_at IS NULL`

	var detail entity.HouseDetail
	row := s.conn.QueryRow(ctx, query, id, viewerID)
	err = s.mapError(row.Scan(
		&detail.House.ID, &detail.House.Title, &detail.House.Description, &detail.House.Price, &detail.House.Location,
		&detail.House.PropertyType, &detail.House.Intent, &detail.House.Status, &detail.House.Rooms, &detail.House.Bedrooms,
		&detail.House.SwimmingPool, &detail.House.PrivateParking, &detail.House.PropertySize, &detail.House.LandSize,
		&detail.House.ImageURLs, &detail.House.ViewCount, &detail.House.PostedBy, &detail.House.CreatedAt, &detail.House.UpdatedAt,
		&detail.Poster.ID, &detail.Poster.FirstName, &detail.Poster.LastName, &detail.Poster.AvatarURL, &detail.Poster.Phone,
		&detail.BookmarkCount, &detail.InterestCount,
		&detail.ViewerBookmark, &detail.ViewerInterest,
	))
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *DB) GetHouseList(ctx context.Context, filter entity.HouseFilter) (houses []entity.House, total int64, err error) {
	ctx, span := s.startSpan(ctx, "GetHouseList")
	defer func() { s.endSpan(span, err) }()

	conds := []string{"h.deleted_at IS NULL"}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Statuses) > 0 {
		conds = append(conds, "h.status = ANY("+arg(toStrings(filter.Statuses))+")")
	}
	if len(filter.PropertyTypes) > 0 {
		conds = append(conds, "h.property_type = ANY("+arg(toStrings(filter.PropertyTypes))+")")
	}
	if len(filter.Intents) > 0 {
		conds = append(conds, "h.intent = ANY("+arg(toStrings(filter.Intents))+")")
	}
	if filter.Location != "" {
		conds = append(conds, "h.location ILIKE "+arg("%"+filter.Location+"%"))
	}

	where := strings.Join(conds, " AND ")

	countQuery := `SELECT count(*) FROM houses h WHERE ` + where
	if err = s.mapError(s.conn.QueryRow(ctx, countQuery, args...).Scan(&total)); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + houseColumns + ` FROM houses h WHERE ` + where +
		` ORDER BY h.created_at DESC LIMIT ` + arg(filter.Size) + ` OFFSET ` + arg(filter.Offset)

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var h entity.House
		if err = scanHouse(rows, &h); err != nil {
			return nil, 0, s.mapError(err)
		}
		houses = append(houses, h)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	return houses, total, nil
}

func (s *DB) CreateHouse(ctx context.Context, in entity.NewHouse) (err error) {
	ctx, span := s.startSpan(ctx, "CreateHouse")
	defer func() { s.endSpan(span, err) }()

	query := `INSERT INTO houses (id, title, description, price, location,
		property_type, intent, status, rooms, bedrooms,
		swimming_pool, private_parking, property_size, land_size, image_urls, posted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err = s.conn.Exec(ctx, query,
		in.ID, in.Title, in.Description, in.Price, in.Location,
		in.PropertyType, in.Intent, in.Status, in.Rooms, in.Bedrooms,
		in.SwimmingPool, in.PrivateParking, in.PropertySize, in.LandSize, in.ImageURLs, in.PostedBy,
	)
	err = s.mapError(err)
	return err
}

func (s *DB) UpdateHouse(ctx context.Context, in entity.PatchHouse) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateHouse")
	defer func() { s.endSpan(span, err) }()

	query := `UPDATE houses SET title = $2, description = $3, price = $4, location = $5,
		property_type = $6, intent = $7, status = $8, rooms = $9, bedrooms = $10,
		swimming_pool = $11, private_parking = $12, property_size = $13, land_size = $14,
		image_urls = $15, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := s.conn.Exec(ctx, query,
		in.ID, in.Title, in.Description, in.Price, in.Location,
		in.PropertyType, in.Intent, in.Status, in.Rooms, in.Bedrooms,
		in.SwimmingPool, in.PrivateParking, in.PropertySize, in.LandSize, in.ImageURLs,
	)
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

func (s *DB) MarkHouseDeleted(ctx context.Context, id, byID int64) (err error) {
	ctx, span := s.startSpan(ctx, "MarkHouseDeleted")
	defer func() { s.endSpan(span, err) }()

	query := `UPDATE houses SET deleted_at = now(), deleted_by = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`

	_, err = s.conn.Exec(ctx, query, id, byID)
	err = s.mapError(err)
	return err
}

func (s *DB) IncrementViewCount(ctx context.Context, houseID int64) (err error) {
	ctx, span := s.startSpan(ctx, "IncrementViewCount")
	defer func() { s.endSpan(span, err) }()

	query := `UPDATE houses SET view_count = view_count + 1 WHERE id = $1 AND deleted_at IS NULL`

	tag, err := s.conn.Exec(ctx, query, houseID)
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
