package inbound

import (
	"context"

	"github.com/serikimmo/serik/internal/identity/usecase"
	"github.com/serikimmo/serik/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) error
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)

	OTPRequest(ctx context.Context, in usecase.OTPRequestInput) error
	OTPResend(ctx context.Context, in usecase.OTPResendInput) error
	OTPVerify(ctx context.Context, in usecase.OTPVerifyInput) (*usecase.OTPVerifyOutput, error)

	PasswordForgot(ctx context.Context, in usecase.PasswordForgotInput) error
	PasswordReset(ctx context.Context, in usecase.PasswordResetInput) error

	GoogleAuthURL(ctx context.Context) (*usecase.GoogleAuthURLOutput, error)
	GoogleCallback(ctx context.Context, in usecase.GoogleCallbackInput) (*usecase.GoogleCallbackOutput, error)

	Logout(ctx context.Context, in usecase.LogoutInput) error
	Profile(ctx context.Context) (*usecase.ProfileOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Registration & password login
	r.POST("/api/v1/auth/register", end.Register)
	r.POST("/api/v1/auth/login", end.Login)

	// Email verification codes
	r.POST("/api/v1/auth/otp/request", end.OTPRequest)
	r.POST("/api/v1/auth/otp/resend", end.OTPResend)
	r.POST("/api/v1/auth/otp/verify", end.OTPVerify)

	// Password recovery
	r.POST("/api/v1/auth/password/forgot", end.PasswordForgot)
	r.POST("/api/v1/auth/password/reset", end.PasswordReset)

	// Google OAuth
	r.GET("/api/v1/auth/google", end.GoogleAuthURL)
	r.GET("/api/v1/auth/google/callback", end.GoogleCallback)

	// Session (need authenticated)
	r.POST("/api/v1/auth/logout", end.Logout)
	r.GET("/api/v1/auth/profile", end.Profile)
}
