package usecase

import (
	"context"
)

type GoogleAuthURLOutput struct {
	URL   string
	State string
}

// GoogleAuthURL returns the consent page URL the client should redirect to.
// The opaque state value comes back on the callback for CSRF pairing.
func (s *Usecase) GoogleAuthURL(ctx context.Context) (*GoogleAuthURLOutput, error) {
	_, span := s.startSpan(ctx, "GoogleAuthURL")
	defer span.End()

	state := s.oid.Generate()

	return &GoogleAuthURLOutput{
		URL:   s.google.AuthURL(state),
		State: state,
	}, nil
}
