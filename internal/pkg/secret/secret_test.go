package secret

import (
	"testing"
	"time"
)

func TestNumericGenerator(t *testing.T) {
	gen := NewNumericGenerator()

	t.Run("ExactDigits", func(t *testing.T) {
		code, err := gen.Generate(OTPDigits)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(code) != OTPDigits {
			t.Fatalf("expected %d digits, got %q", OTPDigits, code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("expected numeric code, got %q", code)
			}
		}
	})

	t.Run("NonPositiveFallsBack", func(t *testing.T) {
		code, err := gen.Generate(0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(code) != OTPDigits {
			t.Fatalf("expected fallback to %d digits, got %q", OTPDigits, code)
		}
	})
}

func TestEvaluateLifecycle(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := Record{
		Hash:      "digest-of-right-code",
		ExpiresAt: issuedAt.Add(DefaultTTL),
	}

	t.Run("WrongCodeAfterTenSeconds", func(t *testing.T) {
		got := Evaluate(rec, "digest-of-wrong-code", issuedAt.Add(10*time.Second), DefaultMaxAttempts)
		if got != OutcomeMismatch {
			t.Fatalf("expected mismatch, got %s", got)
		}
	})

	t.Run("RightCodeAfterTwentySeconds", func(t *testing.T) {
		bumped := rec
		bumped.Attempts = 1
		got := Evaluate(bumped, "digest-of-right-code", issuedAt.Add(20*time.Second), DefaultMaxAttempts)
		if got != OutcomeOK {
			t.Fatalf("expected ok, got %s", got)
		}
	})

	t.Run("ClearedRecordHasNoActiveSecret", func(t *testing.T) {
		got := Evaluate(Record{}, "digest-of-right-code", issuedAt.Add(21*time.Second), DefaultMaxAttempts)
		if got != OutcomeNoActive {
			t.Fatalf("expected no_active, got %s", got)
		}
	})

	t.Run("PastDeadline", func(t *testing.T) {
		got := Evaluate(rec, "digest-of-right-code", issuedAt.Add(DefaultTTL+time.Second), DefaultMaxAttempts)
		if got != OutcomeExpired {
			t.Fatalf("expected expired, got %s", got)
		}
	})

	t.Run("ExpiryBeatsLockout", func(t *testing.T) {
		locked := rec
		locked.Attempts = DefaultMaxAttempts
		got := Evaluate(locked, "digest-of-right-code", issuedAt.Add(DefaultTTL+time.Second), DefaultMaxAttempts)
		if got != OutcomeExpired {
			t.Fatalf("expected expired, got %s", got)
		}
	})

	t.Run("LockedAfterMaxFailures", func(t *testing.T) {
		locked := rec
		locked.Attempts = DefaultMaxAttempts
		got := Evaluate(locked, "digest-of-right-code", issuedAt.Add(30*time.Second), DefaultMaxAttempts)
		if got != OutcomeLocked {
			t.Fatalf("expected locked, got %s", got)
		}
	})

	t.Run("LockoutCountsEvenTheRightCode", func(t *testing.T) {
		locked := rec
		locked.Attempts = DefaultMaxAttempts + 3
		got := Evaluate(locked, "digest-of-right-code", issuedAt.Add(time.Minute), 0)
		if got != OutcomeLocked {
			t.Fatalf("expected locked with default max attempts, got %s", got)
		}
	})

	t.Run("ExactDeadlineStillValid", func(t *testing.T) {
		got := Evaluate(rec, "digest-of-right-code", rec.ExpiresAt, DefaultMaxAttempts)
		if got != OutcomeOK {
			t.Fatalf("expected ok at the exact deadline, got %s", got)
		}
	})
}
