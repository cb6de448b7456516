package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/serikimmo/serik/internal/notification/entity"
	"github.com/serikimmo/serik/internal/pkg/mail"
	"github.com/serikimmo/serik/internal/pkg/valueobject"
	"github.com/sethvargo/go-retry"
)

type emailDeliveryInput struct {
	UserID       int64
	Email        string
	TriggerKey   entity.TriggerKey
	TemplateData map[string]any
}

// deliverEmail renders the trigger's template, writes the delivery log
// before touching SMTP, then sends with capped fibonacci retries. Failures
// mark the log FAILED and stay server-side, the issuing request already
// returned.
func (s *Usecase) deliverEmail(ctx context.Context, in emailDeliveryInput) {
	tpl := s.getTemplate(ctx, in.TriggerKey, entity.ChannelEmail)
	if tpl == nil {
		return
	}

	body, err := s.renderTemplate("body", tpl.Body, in.TemplateData)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render email body", "user_id", in.UserID, "trigger_key", in.TriggerKey.String(), "error", err)
		return
	}

	subject, err := s.renderTemplate("subject", tpl.Subject, in.TemplateData)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render email subject", "user_id", in.UserID, "trigger_key", in.TriggerKey.String(), "error", err)
		return
	}

	logID := s.uid.Generate()
	if err := s.repoDB.CreateDeliveryLog(ctx, entity.CreateDeliveryLog{
		ID:         logID,
		UserID:     in.UserID,
		Recipient:  in.Email,
		TriggerKey: in.TriggerKey,
		Channel:    entity.ChannelEmail,
		Status:     entity.DeliveryStatusQueued,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create delivery log", "user_id", in.UserID, "trigger_key", in.TriggerKey.String(), "error", err)
		return
	}

	mailErr := s.sendWithRetry(ctx, mail.Message{
		To:       []string{in.Email},
		Subject:  subject,
		HTMLBody: body,
	})
	if mailErr == nil {
		if err := s.repoDB.UpdateDeliveryLog(ctx, entity.UpdateDeliveryLog{
			ID:               logID,
			Status:           entity.DeliveryStatusSent,
			ProviderResponse: valueobject.JSONMap{},
		}); err != nil {
			slog.ErrorContext(ctx, "failed to repo update delivery log status sent", "log_id", logID, "error", err)
		}
		return
	}

	nextRetry := s.clock.Now().Add(s.cfg.GetMinute("modules.notification.retry_after_minutes"))
	if err := s.repoDB.UpdateDeliveryLog(ctx, entity.UpdateDeliveryLog{
		ID:               logID,
		Status:           entity.DeliveryStatusFailed,
		ProviderResponse: valueobject.JSONMap{"error": mailErr.Error()},
		NextRetryAt:      &nextRetry,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo update delivery log status failed", "log_id", logID, "error", err)
	}

	slog.ErrorContext(ctx, "failed to send notification email", "log_id", logID, "user_id", in.UserID, "trigger_key", in.TriggerKey.String(), "error", mailErr)
}

func (s *Usecase) sendWithRetry(ctx context.Context, msg mail.Message) error {
	b := retry.NewFibonacci(500 * time.Millisecond)
	b = retry.WithCappedDuration(10*time.Second, b)
	b = retry.WithMaxRetries(3, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := s.repoMail.Send(ctx, msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
