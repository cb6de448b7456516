package uid

import "github.com/google/uuid"

// UUID generates time-ordered UUIDv7 strings. Image keys and delivery log
// correlation IDs use these so lexical order follows creation order.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUID string, falling back to v4 when the v7 clock
// source fails.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
