package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/serikimmo/serik/internal/listing/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/jwt"
)

type HouseDetailInput struct {
	ID int64 `validate:"required,gt=0"`
}

func (s *Usecase) HouseDetail(ctx context.Context, in HouseDetailInput) (*entity.HouseDetail, error) {
	ctx, span := s.startSpan(ctx, "HouseDetail")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	// Public endpoint. A signed-in viewer additionally gets their own
	// bookmark and interest flags.
	var viewerID int64
	if clm := jwt.GetAuth(ctx); clm != nil {
		viewerID = clm.UserID
	}

	detail, err := s.repoDB.GetHouseDetail(ctx, in.ID, viewerID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Listing not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get house detail", "house_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return detail, nil
}
