package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/rbac"
)

type BookmarkToggleInput struct {
	HouseID int64 `validate:"required,gt=0"`
}

type BookmarkToggleOutput struct {
	Bookmarked bool
	Count      int64
}

func (s *Usecase) BookmarkToggle(ctx context.Context, in BookmarkToggleInput) (*BookmarkToggleOutput, error) {
	ctx, span := s.startSpan(ctx, "BookmarkToggle")
	defer span.End()

	clm, err := s.gate.Authorize(ctx, rbac.ObjectHouses, rbac.ActionEngage)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	bookmarked, count, err := s.repoDB.ToggleBookmark(ctx, clm.UserID, in.HouseID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Listing not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo toggle bookmark", "house_id", in.HouseID, "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &BookmarkToggleOutput{Bookmarked: bookmarked, Count: count}, nil
}
