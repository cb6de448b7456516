package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/rbac"
)

type HouseDeleteInput struct {
	ID int64 `validate:"required,gt=0"`
}

func (s *Usecase) HouseDelete(ctx context.Context, in HouseDeleteInput) error {
	ctx, span := s.startSpan(ctx, "HouseDelete")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	house, err := s.repoDB.GetHouseByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		// Already gone, deleting again is a no-op.
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get house by id", "house_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	clm, err := s.gate.AuthorizeOwner(ctx, house.PostedBy, rbac.ObjectHouses, rbac.ActionManage)
	if err != nil {
		return err
	}

	if err := s.repoDB.MarkHouseDeleted(ctx, house.ID, clm.UserID); err != nil {
		slog.ErrorContext(ctx, "failed to repo mark house deleted", "house_id", house.ID, "by_user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
