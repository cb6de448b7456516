package event

const UserPasswordResetRequestedDestination string = "user_password_reset_requested"
const UserPasswordResetRequestedConsumerNotification string = "user_password_reset_requested_notification"

// UserPasswordResetRequestedMessage is published after a reset token has
// been issued and persisted.
type UserPasswordResetRequestedMessage struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Token    string `json:"token"`
}
