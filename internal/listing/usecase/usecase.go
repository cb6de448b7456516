package usecase

import (
	"context"

	"github.com/serikimmo/serik/internal/listing/entity"
	"github.com/serikimmo/serik/internal/pkg/clock"
	"github.com/serikimmo/serik/internal/pkg/config"
	"github.com/serikimmo/serik/internal/pkg/idempotency"
	"github.com/serikimmo/serik/internal/pkg/instrument"
	"github.com/serikimmo/serik/internal/pkg/rbac"
	"github.com/serikimmo/serik/internal/pkg/storage"
	"github.com/serikimmo/serik/internal/pkg/uid"
	"github.com/serikimmo/serik/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetHouseByID(ctx context.Context, id int64) (*entity.House, error)
	GetHouseDetail(ctx context.Context, id, viewerID int64) (*entity.HouseDetail, error)
	GetHouseList(ctx context.Context, filter entity.HouseFilter) ([]entity.House, int64, error)

	CreateHouse(ctx context.Context, in entity.NewHouse) error
	UpdateHouse(ctx context.Context, in entity.PatchHouse) error
	MarkHouseDeleted(ctx context.Context, id, byID int64) error

	ToggleBookmark(ctx context.Context, userID, houseID int64) (bool, int64, error)
	ToggleInterest(ctx context.Context, userID, houseID int64) (bool, int64, error)
	IncrementViewCount(ctx context.Context, houseID int64) error
}

type Usecase struct {
	repoDB    repoDB
	gate      rbac.Authorizer
	storage   storage.Storage
	idemp     idempotency.Idempotency
	validator validator.Validator
	cfg       config.Config
	uid       uid.NumberID
	uuid      uid.StringID
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB      repoDB
	Gate        rbac.Authorizer
	Storage     storage.Storage
	Idempotency idempotency.Idempotency
	Validator   validator.Validator
	Config      config.Config
	UID         uid.NumberID
	UUID        uid.StringID
	Clock       clock.Clocker
	Instrument  instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		gate:      dep.Gate,
		storage:   dep.Storage,
		idemp:     dep.Idempotency,
		validator: dep.Validator,
		cfg:       dep.Config,
		uid:       dep.UID,
		uuid:      dep.UUID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("listing.usecase").Start(ctx, name)
}
