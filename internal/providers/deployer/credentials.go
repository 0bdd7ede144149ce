package deployer

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// CredentialSource hands out bearer tokens for the deployer API. Fresh forces
// a brand-new token regardless of what is cached, for operations that must
// not run under a credential of unknown age.
type CredentialSource interface {
	Token(ctx context.Context) (string, error)
	Fresh(ctx context.Context) (string, error)
}

type oauthCredentials struct {
	cfg clientcredentials.Config
	// cached reuses tokens across poll ticks until they expire.
	cached oauth2.TokenSource
}

func NewOAuthCredentials(tokenURL, clientID, clientSecret string) CredentialSource {
	cfg := clientcredentials.Config{
		TokenURL:     tokenURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}
	return &oauthCredentials{
		cfg:    cfg,
		cached: cfg.TokenSource(context.Background()),
	}
}

func (c *oauthCredentials) Token(ctx context.Context) (string, error) {
	token, err := c.cached.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCredential, err)
	}
	return token.AccessToken, nil
}

func (c *oauthCredentials) Fresh(ctx context.Context) (string, error) {
	// A throwaway source skips the reuse cache entirely.
	token, err := c.cfg.TokenSource(ctx).Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCredential, err)
	}
	return token.AccessToken, nil
}

// StaticCredentials is for tests and local development.
type StaticCredentials struct {
	Value string
	Err   error
}

func (s StaticCredentials) Token(ctx context.Context) (string, error) {
	return s.Value, s.Err
}

func (s StaticCredentials) Fresh(ctx context.Context) (string, error) {
	return s.Value, s.Err
}
