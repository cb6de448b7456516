package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/serikimmo/serik/internal/listing/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/rbac"
)

type HouseUpdateInput struct {
	ID             int64    `validate:"required,gt=0"`
	Title          string   `validate:"required,max=200"`
	Description    string   `validate:"required,max=5000"`
	Price          int64    `validate:"required,gt=0"`
	Location       string   `validate:"required,max=300"`
	PropertyType   string   `validate:"required,oneof=HOUSE LAND APARTMENT BUILDING FARMING SHOP"`
	Intent         string   `validate:"required,oneof=SELL RENT"`
	Status         string   `validate:"required,oneof=AVAILABLE SOLD RENTED PENDING"`
	Rooms          int32    `validate:"gte=0"`
	Bedrooms       int32    `validate:"gte=0"`
	SwimmingPool   bool     `validate:"-"`
	PrivateParking bool     `validate:"-"`
	PropertySize   float64  `validate:"gte=0"`
	LandSize       float64  `validate:"gte=0"`
	ImageURLs      []string `validate:"max=10,dive,url"`
}

func (s *Usecase) HouseUpdate(ctx context.Context, in HouseUpdateInput) error {
	ctx, span := s.startSpan(ctx, "HouseUpdate")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	house, err := s.repoDB.GetHouseByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Listing not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get house by id", "house_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	// Owner can edit their own listing, anyone else needs manage rights.
	clm, err := s.gate.AuthorizeOwner(ctx, house.PostedBy, rbac.ObjectHouses, rbac.ActionManage)
	if err != nil {
		return err
	}

	if err := s.repoDB.UpdateHouse(ctx, entity.PatchHouse{
		ID:             in.ID,
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
		Price:          in.Price,
		Location:       strings.TrimSpace(in.Location),
		PropertyType:   entity.PropertyType(in.PropertyType),
		Intent:         entity.Intent(in.Intent),
		Status:         entity.HouseStatus(in.Status),
		Rooms:          in.Rooms,
		Bedrooms:       in.Bedrooms,
		SwimmingPool:   in.SwimmingPool,
		PrivateParking: in.PrivateParking,
		PropertySize:   in.PropertySize,
		LandSize:       in.LandSize,
		ImageURLs:      in.ImageURLs,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo update house", "house_id", in.ID, "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
