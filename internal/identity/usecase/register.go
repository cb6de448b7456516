package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/serikimmo/serik/internal/identity/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
)

type RegisterInput struct {
	FirstName string `validate:"required,alphaspace,max=100"`
	LastName  string `validate:"required,alphaspace,max=100"`
	Email     string `validate:"required,email"`
	Phone     string `validate:"required,phone"`
	Password  string `validate:"omitempty,password"`
}

func (s *Usecase) Register(ctx context.Context, in RegisterInput) error {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	var passwordHash string
	if in.Password != "" {
		hashed, err := s.password.Hash(in.Password)
		if err != nil {
			slog.ErrorContext(ctx, "failed to hash password", "error", err)
			return goerror.NewServer(err)
		}
		passwordHash = string(hashed)
	}

	user := entity.NewUser{
		ID:        s.uid.Generate(),
		Email:     in.Email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Phone:     in.Phone,
		Password:  passwordHash,
		Role:      entity.RoleUser,
	}

	if err := s.repoDB.CreateUser(ctx, user); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			slog.WarnContext(ctx, "registration with taken email or phone", "email", in.Email)
			return goerror.NewBusiness("Email or phone number is already registered", goerror.CodeConflict)
		}

		slog.ErrorContext(ctx, "failed to repo create user", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	// New accounts start unverified. The code is issued here so the first
	// verification mail goes out without a second request.
	if err := s.issueLoginOTP(ctx, user.ID, user.Email, strings.TrimSpace(in.FirstName+" "+in.LastName)); err != nil {
		return err
	}

	return nil
}
