package inbound

import (
	"github.com/serikimmo/serik/internal/notification/usecase"
	"github.com/serikimmo/serik/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for notification template management.
type HTTPEndpoint struct {
	uc uc
}

// TemplateList returns every stored notification template.
// @Summary List notification templates
// @Tags Notification
// @Produce json
// @Success 200 {object} router.successResponse{data=TemplateListResponse} "Stored templates"
// @Failure 403 {object} router.errorResponse "Caller lacks template access"
// @Router /api/v1/notifications/templates [get]
func (h *HTTPEndpoint) TemplateList(r *router.Request) (any, error) {
	templates, err := h.uc.TemplateList(r.Context())
	if err != nil {
		return nil, err
	}

	out := TemplateListResponse{Templates: make([]TemplateResponse, 0, len(templates))}
	for _, t := range templates {
		out.Templates = append(out.Templates, toTemplateResponse(t))
	}

	return out, nil
}

func (h *HTTPEndpoint) TemplateUpsert(r *router.Request) (any, error) {
	var req TemplateUpsertRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.TemplateUpsert(r.Context(), usecase.TemplateUpsertInput{
		TriggerKey: req.TriggerKey,
		Channel:    req.Channel,
		Subject:    req.Subject,
		Body:       req.Body,
	}); err != nil {
		return nil, err
	}

	return TemplateUpsertResponse{}, nil
}
