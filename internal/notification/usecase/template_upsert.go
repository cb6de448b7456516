package usecase

import (
	"context"
	"log/slog"

	"github.com/serikimmo/serik/internal/notification/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/rbac"
)

type TemplateUpsertInput struct {
	TriggerKey string `validate:"required,oneof=user_otp_requested user_password_reset_requested"`
	Channel    string `validate:"required,oneof=EMAIL"`
	Subject    string `validate:"required,max=300"`
	Body       string `validate:"required"`
}

func (s *Usecase) TemplateUpsert(ctx context.Context, in TemplateUpsertInput) error {
	ctx, span := s.startSpan(ctx, "TemplateUpsert")
	defer span.End()

	clm, err := s.gate.Authorize(ctx, rbac.ObjectTemplates, rbac.ActionWrite)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	// Reject templates that will not render at delivery time.
	if _, err := s.renderTemplate("body", in.Body, s.baseEmailTemplateData()); err != nil {
		return goerror.NewInvalidInput(err, "body", "template body does not parse")
	}

	if err := s.repoDB.UpsertTemplate(ctx, entity.UpsertTemplate{
		ID:         s.uid.Generate(),
		TriggerKey: entity.TriggerKey(in.TriggerKey),
		Channel:    entity.Channel(in.Channel),
		Subject:    in.Subject,
		Body:       in.Body,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo upsert template", "trigger_key", in.TriggerKey, "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
