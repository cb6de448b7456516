package event

const UserOTPRequestedDestination string = "user_otp_requested"
const UserOTPRequestedConsumerNotification string = "user_otp_requested_notification"

// UserOTPRequestedMessage is published after an email verification code has
// been issued and persisted. Code is the plaintext value for delivery; only
// its digest is stored.
type UserOTPRequestedMessage struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Code     string `json:"code"`
}
