// Package google wraps the Google OAuth consent and userinfo exchange
// behind the small surface the usecase needs.
package google

import (
	"context"

	"github.com/serikimmo/serik/internal/identity/usecase"
	"github.com/serikimmo/serik/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type Client struct {
	oauth *oauth2.Config
	ins   instrument.Instrumentation
}

func NewClient(cfg Config, ins instrument.Instrumentation) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				oauth2api.UserinfoEmailScope,
				oauth2api.UserinfoProfileScope,
			},
			Endpoint: googleoauth.Endpoint,
		},
		ins: ins,
	}
}

func (c *Client) AuthURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for tokens and fetches the
// userinfo document they grant access to.
func (c *Client) Exchange(ctx context.Context, code string) (*usecase.GoogleProfile, error) {
	ctx, span := c.ins.Tracer("identity.outbound.google").Start(ctx, "Exchange")
	defer span.End()

	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(c.oauth.TokenSource(ctx, token)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	verified := info.VerifiedEmail != nil && *info.VerifiedEmail

	return &usecase.GoogleProfile{
		Email:         info.Email,
		FirstName:     info.GivenName,
		LastName:      info.FamilyName,
		AvatarURL:     info.Picture,
		EmailVerified: verified,
	}, nil
}
