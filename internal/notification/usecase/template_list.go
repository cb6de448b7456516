package usecase

import (
	"context"
	"log/slog"

	"github.com/serikimmo/serik/internal/notification/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/rbac"
)

func (s *Usecase) TemplateList(ctx context.Context) ([]entity.Template, error) {
	ctx, span := s.startSpan(ctx, "TemplateList")
	defer span.End()

	if _, err := s.gate.Authorize(ctx, rbac.ObjectTemplates, rbac.ActionWrite); err != nil {
		return nil, err
	}

	templates, err := s.repoDB.ListTemplates(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list templates", "error", err)
		return nil, goerror.NewServer(err)
	}

	return templates, nil
}
