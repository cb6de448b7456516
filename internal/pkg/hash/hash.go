// Package hash provides keyed hashing for the two secret shapes the
// application stores: user passwords (bcrypt or argon2id, slow on purpose)
// and one-time codes (HMAC-SHA256, deterministic so the stored digest can be
// matched by value).
package hash

// Hash abstracts a one-way hash with verification.
type Hash interface {
	Hash(plaintext string) ([]byte, error)
	Verify(hashed, plaintext string) bool
}

// NewPassword returns the password hasher selected by algo. Unknown values
// fall back to bcrypt.
func NewPassword(algo string, cost int, pepper string) Hash {
	if algo == "argon2id" {
		return NewArgon2id(pepper)
	}
	return NewBcrypt(cost, pepper)
}
