package auth

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2"
)

// ErrNoCredentials is returned when no bearer credential is configured.
var ErrNoCredentials = errors.New("no bearer credentials configured")

// TokenSource returns the oauth2 token source described by conf.
func TokenSource(ctx context.Context, conf Conf) (oauth2.TokenSource, error) {
	switch {
	case conf.AccessToken != "":
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: conf.AccessToken, TokenType: "Bearer"}), nil
	case conf.ClientID != "":
		cc := conf.toOauth2Config()
		return oauth2.ReuseTokenSource(nil, cc.TokenSource(ctx)), nil
	default:
		return nil, ErrNoCredentials
	}
}

// HTTPClient wraps base so every request carries a bearer token from conf.
// Without credentials base is returned unchanged.
func HTTPClient(ctx context.Context, conf Conf, base *http.Client) (*http.Client, error) {
	if base == nil {
		base = http.DefaultClient
	}
	ts, err := TokenSource(ctx, conf)
	if errors.Is(err, ErrNoCredentials) {
		return base, nil
	}
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Timeout:   base.Timeout,
		Transport: &oauth2.Transport{Source: ts, Base: base.Transport},
	}, nil
}
