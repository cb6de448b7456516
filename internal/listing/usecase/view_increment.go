package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/rbac"
)

type ViewIncrementInput struct {
	HouseID int64 `validate:"required,gt=0"`
}

func (s *Usecase) ViewIncrement(ctx context.Context, in ViewIncrementInput) error {
	ctx, span := s.startSpan(ctx, "ViewIncrement")
	defer span.End()

	clm, err := s.gate.Authorize(ctx, rbac.ObjectHouses, rbac.ActionEngage)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	err = s.repoDB.IncrementViewCount(ctx, in.HouseID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Listing not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo increment view count", "house_id", in.HouseID, "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
