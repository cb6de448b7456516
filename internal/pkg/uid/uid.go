// Package uid groups the identifier generators used across the application:
// snowflake for numeric primary keys, UUIDv7 for correlation IDs, and a
// 32-byte object ID for opaque tokens.
package uid

// NumberID generates numeric identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}
