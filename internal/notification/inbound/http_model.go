package inbound

import (
	"time"

	"github.com/serikimmo/serik/internal/notification/entity"
)

type TemplateUpsertRequest struct {
	TriggerKey string `json:"trigger_key"`
	Channel    string `json:"channel"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
}

type TemplateUpsertResponse struct{}

func (TemplateUpsertResponse) Message() string {
	return "Template saved."
}

type TemplateResponse struct {
	ID         int64     `json:"id,string"`
	TriggerKey string    `json:"trigger_key"`
	Channel    string    `json:"channel"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

func toTemplateResponse(t entity.Template) TemplateResponse {
	return TemplateResponse{
		ID:         t.ID,
		TriggerKey: t.TriggerKey.String(),
		Channel:    t.Channel.String(),
		Subject:    t.Subject,
		Body:       t.Body,
		UpdatedAt:  t.UpdatedAt,
	}
}
