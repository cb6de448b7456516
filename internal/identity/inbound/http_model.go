package inbound

import "time"

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password,omitempty"`
}

type RegisterResponse struct{}

func (RegisterResponse) Message() string {
	return "Registration successful. Please check your email for the verification code."
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	SessionToken string `json:"session_token"`
}

type OTPRequestRequest struct {
	Email string `json:"email"`
}

type OTPRequestResponse struct{}

func (OTPRequestResponse) Message() string {
	return "A verification code has been sent to your email."
}

type OTPVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type OTPVerifyResponse struct {
	AccessToken  string `json:"access_token"`
	SessionToken string `json:"session_token"`
}

type PasswordForgotRequest struct {
	Email string `json:"email"`
}

type PasswordForgotResponse struct{}

func (PasswordForgotResponse) Message() string {
	return "If an account with that email exists, we have sent a reset token."
}

type PasswordResetRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type PasswordResetResponse struct{}

func (PasswordResetResponse) Message() string {
	return "Password has been reset. You can now log in."
}

type GoogleAuthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

type GoogleCallbackResponse struct {
	AccessToken  string `json:"access_token"`
	SessionToken string `json:"session_token"`
}

type LogoutRequest struct {
	SessionToken string `json:"session_token"`
}

type LogoutResponse struct{}

func (LogoutResponse) Message() string {
	return "Logged out."
}

type ProfileResponse struct {
	ID            int64     `json:"id,string"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Phone         string    `json:"phone,omitempty"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}
