package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/rbac"
)

type ImageDeleteInput struct {
	Key string `validate:"required,max=500"`
}

// ImageDelete removes a stored image. Deleting a key that is already gone
// succeeds, so retried requests settle cleanly.
func (s *Usecase) ImageDelete(ctx context.Context, in ImageDeleteInput) error {
	ctx, span := s.startSpan(ctx, "ImageDelete")
	defer span.End()

	clm, err := s.gate.Authorize(ctx, rbac.ObjectHouses, rbac.ActionManage)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	key := strings.TrimPrefix(strings.TrimSpace(in.Key), "/")
	if strings.Contains(key, "..") {
		return goerror.NewInvalidInput(nil, "key", "invalid object key")
	}

	bucket := strings.TrimSpace(s.cfg.GetString("modules.listing.image_bucket"))
	if err := s.storage.DeleteObject(ctx, bucket, key); err != nil {
		slog.ErrorContext(ctx, "failed to delete listing image", "key", key, "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
