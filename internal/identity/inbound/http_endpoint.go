package inbound

import (
	"github.com/serikimmo/serik/internal/identity/usecase"
	"github.com/serikimmo/serik/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for authentication and profile workflows.
type HTTPEndpoint struct {
	uc uc
}

// Register creates a new account and triggers the first verification mail.
// @Summary Register account
// @Description Creates an account. Password is optional; OTP-only accounts log in with email codes.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration payload"
// @Success 200 {object} router.successResponse "Account created"
// @Failure 409 {object} router.errorResponse "Email or phone already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/auth/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Register(r.Context(), usecase.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
	}); err != nil {
		return nil, err
	}

	return RegisterResponse{}, nil
}

// Login authenticates with email and password and issues tokens.
// @Summary Authenticate user
// @Description Validates credentials and returns an access token plus an opaque session token.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} router.successResponse{data=LoginResponse} "Authentication result"
// @Failure 401 {object} router.errorResponse "Invalid credentials"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/auth/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{
		AccessToken:  resp.AccessToken,
		SessionToken: resp.SessionToken,
	}, nil
}

func (h *HTTPEndpoint) OTPRequest(r *router.Request) (any, error) {
	var req OTPRequestRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.OTPRequest(r.Context(), usecase.OTPRequestInput{Email: req.Email}); err != nil {
		return nil, err
	}

	return OTPRequestResponse{}, nil
}

func (h *HTTPEndpoint) OTPResend(r *router.Request) (any, error) {
	var req OTPRequestRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.OTPResend(r.Context(), usecase.OTPResendInput{Email: req.Email}); err != nil {
		return nil, err
	}

	return OTPRequestResponse{}, nil
}

// OTPVerify checks the emailed code and, on success, logs the user in.
// @Summary Verify email code
// @Description Verifies the one-time code. Success marks the email verified and issues tokens.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body OTPVerifyRequest true "Verification payload"
// @Success 200 {object} router.successResponse{data=OTPVerifyResponse} "Authentication result"
// @Failure 401 {object} router.errorResponse "Invalid code"
// @Failure 410 {object} router.errorResponse "Code expired"
// @Failure 429 {object} router.errorResponse "Too many attempts"
// @Router /api/v1/auth/otp/verify [post]
func (h *HTTPEndpoint) OTPVerify(r *router.Request) (any, error) {
	var req OTPVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.OTPVerify(r.Context(), usecase.OTPVerifyInput{
		Email: req.Email,
		Code:  req.Code,
	})
	if err != nil {
		return nil, err
	}

	return OTPVerifyResponse{
		AccessToken:  resp.AccessToken,
		SessionToken: resp.SessionToken,
	}, nil
}

func (h *HTTPEndpoint) PasswordForgot(r *router.Request) (any, error) {
	var req PasswordForgotRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordForgot(r.Context(), usecase.PasswordForgotInput{Email: req.Email}); err != nil {
		return nil, err
	}

	return PasswordForgotResponse{}, nil
}

func (h *HTTPEndpoint) PasswordReset(r *router.Request) (any, error) {
	var req PasswordResetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordReset(r.Context(), usecase.PasswordResetInput{
		Token:           req.Token,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}); err != nil {
		return nil, err
	}

	return PasswordResetResponse{}, nil
}

func (h *HTTPEndpoint) GoogleAuthURL(r *router.Request) (any, error) {
	resp, err := h.uc.GoogleAuthURL(r.Context())
	if err != nil {
		return nil, err
	}

	return GoogleAuthURLResponse{URL: resp.URL, State: resp.State}, nil
}

func (h *HTTPEndpoint) GoogleCallback(r *router.Request) (any, error) {
	resp, err := h.uc.GoogleCallback(r.Context(), usecase.GoogleCallbackInput{
		Code: r.GetQuery("code"),
	})
	if err != nil {
		return nil, err
	}

	return GoogleCallbackResponse{
		AccessToken:  resp.AccessToken,
		SessionToken: resp.SessionToken,
	}, nil
}

func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	var req LogoutRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Logout(r.Context(), usecase.LogoutInput{SessionToken: req.SessionToken}); err != nil {
		return nil, err
	}

	return LogoutResponse{}, nil
}

func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	return ProfileResponse{
		ID:            resp.ID,
		Email:         resp.Email,
		FirstName:     resp.FirstName,
		LastName:      resp.LastName,
		Phone:         resp.Phone,
		AvatarURL:     resp.AvatarURL,
		Role:          resp.Role,
		EmailVerified: resp.EmailVerified,
		CreatedAt:     resp.CreatedAt,
	}, nil
}
