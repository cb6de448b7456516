package usecase

import (
	"context"
	"log/slog"

	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/jwt"
)

type LogoutInput struct {
	SessionToken string
}

func (s *Usecase) Logout(ctx context.Context, in LogoutInput) error {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	// Session tokens are 64 hex chars. Anything else cannot match a row.
	if len(in.SessionToken) != 64 {
		return nil
	}

	tokenHash, err := s.hmac.Hash(in.SessionToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash session token", "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.RevokeSession(ctx, string(tokenHash)); err != nil {
		slog.ErrorContext(ctx, "failed to repo revoke session", "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
