// Package secret implements the one-time secret lifecycle shared by email
// verification codes and password reset tokens: a single numeric generator,
// the stored record shape, and a pure verifier over that record.
package secret

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"time"
)

const (
	// OTPDigits is the length of email verification codes.
	OTPDigits = 6

	// ResetDigits is the length of password reset tokens.
	ResetDigits = 8

	// DefaultTTL is how long an issued secret stays valid.
	DefaultTTL = 10 * time.Minute

	// DefaultMaxAttempts invalidates a secret after this many failed
	// verifications.
	DefaultMaxAttempts = 5
)

// Purpose distinguishes the independent secret slots a user can hold.
type Purpose string

const (
	PurposeEmailVerify   Purpose = "EMAIL_VERIFY"
	PurposePasswordReset Purpose = "PASSWORD_RESET"
)

// Generator produces one-time numeric codes.
type Generator interface {
	Generate(digits int) (string, error)
}

// NumericGenerator draws uniform digit strings from crypto/rand. Leading
// zeros are allowed, so a 6-digit code ranges over the full 000000-999999
// space.
type NumericGenerator struct{}

// NewNumericGenerator creates a NumericGenerator.
func NewNumericGenerator() *NumericGenerator {
	return &NumericGenerator{}
}

// Generate returns a code of exactly the given number of digits.
func (g *NumericGenerator) Generate(digits int) (string, error) {
	if digits <= 0 {
		digits = OTPDigits
	}

	out := make([]byte, digits)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		out[i] = byte('0' + n.Int64())
	}

	return string(out), nil
}

// Record is the persisted state of an issued secret. Hash holds the keyed
// digest of the code, never the code itself.
type Record struct {
	Hash      string
	ExpiresAt time.Time
	Attempts  int
}

// Active reports whether a secret is currently issued.
func (r Record) Active() bool {
	return r.Hash != ""
}

// Outcome is the verifier's verdict for a presented value.
type Outcome int

const (
	// OutcomeOK means the presented value matches the active secret.
	OutcomeOK Outcome = iota
	// OutcomeNoActive means no secret is currently issued.
	OutcomeNoActive
	// OutcomeExpired means the secret passed its deadline.
	OutcomeExpired
	// OutcomeLocked means the secret already absorbed too many failures.
	OutcomeLocked
	// OutcomeMismatch means the presented value is wrong.
	OutcomeMismatch
)

// String returns a short name for the outcome, used in logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNoActive:
		return "no_active"
	case OutcomeExpired:
		return "expired"
	case OutcomeLocked:
		return "locked"
	case OutcomeMismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// Evaluate verifies a presented hash against the stored record at the given
// instant. Checks run in a fixed order: presence, expiry, lockout, then the
// constant-time digest comparison. maxAttempts <= 0 falls back to
// DefaultMaxAttempts.
//
// The caller owns the follow-up writes: clear the record on OutcomeOK,
// OutcomeExpired and OutcomeLocked, bump Attempts on OutcomeMismatch.
func Evaluate(rec Record, presentedHash string, now time.Time, maxAttempts int) Outcome {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	if !rec.Active() {
		return OutcomeNoActive
	}

	if now.After(rec.ExpiresAt) {
		return OutcomeExpired
	}

	if rec.Attempts >= maxAttempts {
		return OutcomeLocked
	}

	if subtle.ConstantTimeCompare([]byte(rec.Hash), []byte(presentedHash)) != 1 {
		return OutcomeMismatch
	}

	return OutcomeOK
}
