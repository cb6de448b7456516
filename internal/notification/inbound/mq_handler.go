package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/serikimmo/serik/internal/notification/usecase"
	"github.com/serikimmo/serik/internal/pkg/instrument"
	"github.com/serikimmo/serik/internal/pkg/messaging"
	"github.com/serikimmo/serik/internal/pkg/uid"
	"github.com/serikimmo/serik/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) UserOTPRequestedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "UserOTPRequestedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: user otp requested notification", "user_id", jsonField(body, "user_id"))

	var payload event.UserOTPRequestedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of user otp requested notification", "error", err)
		return nil
	}

	if err := h.uc.ConsumeUserOTPRequested(ctx, usecase.ConsumeUserOTPRequestedInput{
		UserID:   payload.UserID,
		Email:    payload.Email,
		FullName: payload.FullName,
		Code:     payload.Code,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume user otp requested", "user_id", payload.UserID, "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) UserPasswordResetRequestedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "UserPasswordResetRequestedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: user password reset requested notification", "user_id", jsonField(body, "user_id"))

	var payload event.UserPasswordResetRequestedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of user password reset requested notification", "error", err)
		return nil
	}

	if err := h.uc.ConsumeUserPasswordResetRequested(ctx, usecase.ConsumeUserPasswordResetRequestedInput{
		UserID:   payload.UserID,
		Email:    payload.Email,
		FullName: payload.FullName,
		Token:    payload.Token,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume user password reset requested", "user_id", payload.UserID, "error", err)
		return err
	}

	return nil
}

// jsonField pulls one field out of a raw payload for log context. These
// events carry one-time codes, logging whole bodies would leak them.
func jsonField(body []byte, key string) any {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return nil
	}
	return m[key]
}
