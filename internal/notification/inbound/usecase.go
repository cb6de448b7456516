package inbound

import (
	"context"

	"github.com/serikimmo/serik/internal/notification/entity"
	"github.com/serikimmo/serik/internal/notification/usecase"
)

type uc interface {
	ConsumeUserOTPRequested(ctx context.Context, in usecase.ConsumeUserOTPRequestedInput) error
	ConsumeUserPasswordResetRequested(ctx context.Context, in usecase.ConsumeUserPasswordResetRequestedInput) error

	TemplateUpsert(ctx context.Context, in usecase.TemplateUpsertInput) error
	TemplateList(ctx context.Context) ([]entity.Template, error)
}
