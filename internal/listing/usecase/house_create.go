package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/serikimmo/serik/internal/listing/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/rbac"
)

type HouseCreateInput struct {
	Title          string   `validate:"required,max=200"`
	Description    string   `validate:"required,max=5000"`
	Price          int64    `validate:"required,gt=0"`
	Location       string   `validate:"required,max=300"`
	PropertyType   string   `validate:"required,oneof=HOUSE LAND APARTMENT BUILDING FARMING SHOP"`
	Intent         string   `validate:"required,oneof=SELL RENT"`
	Rooms          int32    `validate:"gte=0"`
	Bedrooms       int32    `validate:"gte=0"`
	SwimmingPool   bool     `validate:"-"`
	PrivateParking bool     `validate:"-"`
	PropertySize   float64  `validate:"gte=0"`
	LandSize       float64  `validate:"gte=0"`
	ImageURLs      []string `validate:"max=10,dive,url"`
}

type HouseCreateOutput struct {
	ID int64
}

func (s *Usecase) HouseCreate(ctx context.Context, in HouseCreateInput) (*HouseCreateOutput, error) {
	ctx, span := s.startSpan(ctx, "HouseCreate")
	defer span.End()

	clm, err := s.gate.Authorize(ctx, rbac.ObjectHouses, rbac.ActionWrite)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	house := entity.NewHouse{
		ID:             s.uid.Generate(),
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
		Price:          in.Price,
		Location:       strings.TrimSpace(in.Location),
		PropertyType:   entity.PropertyType(in.PropertyType),
		Intent:         entity.Intent(in.Intent),
		Status:         entity.HouseStatusAvailable,
		Rooms:          in.Rooms,
		Bedrooms:       in.Bedrooms,
		SwimmingPool:   in.SwimmingPool,
		PrivateParking: in.PrivateParking,
		PropertySize:   in.PropertySize,
		LandSize:       in.LandSize,
		ImageURLs:      in.ImageURLs,
		PostedBy:       clm.UserID,
	}

	if err := s.repoDB.CreateHouse(ctx, house); err != nil {
		slog.ErrorContext(ctx, "failed to repo create house", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &HouseCreateOutput{ID: house.ID}, nil
}
