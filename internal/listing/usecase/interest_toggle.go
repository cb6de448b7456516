package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/rbac"
)

type InterestToggleInput struct {
	HouseID int64 `validate:"required,gt=0"`
}

type InterestToggleOutput struct {
	Interested bool
	Count      int64
}

func (s *Usecase) InterestToggle(ctx context.Context, in InterestToggleInput) (*InterestToggleOutput, error) {
	ctx, span := s.startSpan(ctx, "InterestToggle")
	defer span.End()

	clm, err := s.gate.Authorize(ctx, rbac.ObjectHouses, rbac.ActionEngage)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	interested, count, err := s.repoDB.ToggleInterest(ctx, clm.UserID, in.HouseID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Listing not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo toggle interest", "house_id", in.HouseID, "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &InterestToggleOutput{Interested: interested, Count: count}, nil
}
