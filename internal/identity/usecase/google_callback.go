package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/serikimmo/serik/internal/identity/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
)

type GoogleCallbackInput struct {
	Code string `validate:"required"`
}

type GoogleCallbackOutput struct {
	AccessToken  string
	SessionToken string
}

func (s *Usecase) GoogleCallback(ctx context.Context, in GoogleCallbackInput) (*GoogleCallbackOutput, error) {
	ctx, span := s.startSpan(ctx, "GoogleCallback")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	profile, err := s.google.Exchange(ctx, in.Code)
	if err != nil {
		slog.WarnContext(ctx, "google code exchange failed", "error", err)
		return nil, goerror.NewBusiness("Google sign-in failed", goerror.CodeUnauthorized)
	}

	if !profile.EmailVerified {
		slog.WarnContext(ctx, "google account email not verified", "email", profile.Email)
		return nil, goerror.NewBusiness("Google account email is not verified", goerror.CodeForbidden)
	}

	user, err := s.repoDB.UpsertGoogleUser(ctx, entity.GoogleUser{
		ID:            s.uid.Generate(),
		Email:         strings.ToLower(profile.Email),
		FirstName:     profile.FirstName,
		LastName:      profile.LastName,
		AvatarURL:     profile.AvatarURL,
		EmailVerified: true,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo upsert google user", "email", profile.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	access, session, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	return &GoogleCallbackOutput{AccessToken: access, SessionToken: session}, nil
}
