package oauth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"flightdeals-service/internal/domain/entity"
	"flightdeals-service/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	amadeusTokenPath = "/v1/security/oauth2/token"

	// requestTimeout bounds the token exchange and every API call
	requestTimeout = 30 * time.Second
)

// AmadeusOAuth handles the client-credentials exchange with the travel API
type AmadeusOAuth struct {
	config *clientcredentials.Config
	logger logger.Logger
}

// NewAmadeusOAuth creates a new client-credentials handler for baseURL
func NewAmadeusOAuth(baseURL, apiKey, apiSecret string, logger logger.Logger) *AmadeusOAuth {
	config := &clientcredentials.Config{
		ClientID:     apiKey,
		ClientSecret: apiSecret,
		TokenURL:     baseURL + amadeusTokenPath,
		// Amadeus expects client_id/client_secret in the form body
		AuthStyle: oauth2.AuthStyleInParams,
	}

	return &AmadeusOAuth{
		config: config,
		logger: logger,
	}
}

// GetTokenSource returns a caching token source that refreshes once the
// server-declared expiry has passed. Token failures wrap entity.ErrAuth.
func (o *AmadeusOAuth) GetTokenSource(ctx context.Context) oauth2.TokenSource {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: requestTimeout})
	return &loggingTokenSource{
		src:    o.config.TokenSource(ctx),
		logger: o.logger,
	}
}

// HTTPClient returns an HTTP client that attaches the bearer token to every
// request. Requests time out after requestTimeout.
func (o *AmadeusOAuth) HTTPClient(ctx context.Context) *http.Client {
	client := oauth2.NewClient(ctx, o.GetTokenSource(ctx))
	client.Timeout = requestTimeout
	return client
}

type loggingTokenSource struct {
	src    oauth2.TokenSource
	logger logger.Logger

	mu   sync.Mutex
	last string
}

func (s *loggingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.src.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrAuth, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken != s.last {
		s.last = token.AccessToken
		s.logger.Info("Obtained travel API token",
			"expiresIn", time.Until(token.Expiry).Round(time.Second).String())
	}

	return token, nil
}
