package entity

import (
	"time"

	"github.com/serikimmo/serik/internal/pkg/valueobject"
)

type Template struct {
	ID         int64
	TriggerKey TriggerKey
	Channel    Channel
	Subject    string
	Body       string
	UpdatedAt  time.Time
}

type DeliveryLog struct {
	ID               int64
	UserID           int64
	Recipient        string
	TriggerKey       TriggerKey
	Channel          Channel
	Status           DeliveryStatus
	ProviderResponse valueobject.JSONMap
	NextRetryAt      *time.Time
	CreatedAt        time.Time
}

// ---- //

type CreateDeliveryLog struct {
	ID         int64
	UserID     int64
	Recipient  string
	TriggerKey TriggerKey
	Channel    Channel
	Status     DeliveryStatus
}

type UpdateDeliveryLog struct {
	ID               int64
	Status           DeliveryStatus
	ProviderResponse valueobject.JSONMap
	NextRetryAt      *time.Time
}

type UpsertTemplate struct {
	ID         int64
	TriggerKey TriggerKey
	Channel    Channel
	Subject    string
	Body       string
}
