package entity

// TriggerKey names the event a template answers to.
type TriggerKey string

const (
	TriggerKeyOTPRequested  TriggerKey = "user_otp_requested"
	TriggerKeyPasswordReset TriggerKey = "user_password_reset_requested"
)

func (t TriggerKey) String() string {
	return string(t)
}

func (t TriggerKey) IsValid() bool {
	return t == TriggerKeyOTPRequested || t == TriggerKeyPasswordReset
}

type Channel string

const (
	ChannelEmail Channel = "EMAIL"
)

func (c Channel) String() string {
	return string(c)
}

func (c Channel) IsValid() bool {
	return c == ChannelEmail
}

type DeliveryStatus string

const (
	DeliveryStatusQueued DeliveryStatus = "QUEUED"
	DeliveryStatusSent   DeliveryStatus = "SENT"
	DeliveryStatusFailed DeliveryStatus = "FAILED"
)

func (d DeliveryStatus) String() string {
	return string(d)
}
