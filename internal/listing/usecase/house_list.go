package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/serikimmo/serik/internal/listing/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
)

type HouseListInput struct {
	Statuses      []string
	PropertyTypes []string
	Intents       []string
	Location      string // value already trimmed by inbound
	Size          int32
	Page          int32
}

type HouseListOutput struct {
	Page   int32
	Size   int32
	Total  int64
	Houses []entity.House
}

func (s *Usecase) HouseList(ctx context.Context, in HouseListInput) (*HouseListOutput, error) {
	ctx, span := s.startSpan(ctx, "HouseList")
	defer span.End()

	if in.Size <= 0 || in.Size > 100 {
		in.Size = 20 // default limit
	}

	filter := entity.HouseFilter{
		Statuses:      entity.ParseSafeHouseStatuses(in.Statuses),
		PropertyTypes: entity.ParseSafePropertyTypes(in.PropertyTypes),
		Intents:       entity.ParseSafeIntents(in.Intents),
		Location:      strings.TrimSpace(in.Location),
		Size:          in.Size,
		Offset:        (max(in.Page, 1) - 1) * in.Size,
	}

	houses, count, err := s.repoDB.GetHouseList(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list houses", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &HouseListOutput{
		Page:   max(in.Page, 1),
		Size:   in.Size,
		Total:  count,
		Houses: houses,
	}, nil
}
