package dropbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cimillas/cert-checkout/internal/clock"
	"github.com/cimillas/cert-checkout/internal/domain"
	"github.com/rs/zerolog"
)

// TokenSource exchanges the long-lived refresh token for short-lived
// access tokens and hands out a valid one to every storage call. The
// credential is considered expired one refresh interval after it was
// obtained, regardless of what the token endpoint reports.
type TokenSource struct {
	cfg        Config
	httpClient *http.Client
	clock      clock.Clock
	logger     zerolog.Logger

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

func NewTokenSource(cfg Config, clk clock.Clock, logger zerolog.Logger) *TokenSource {
	cfg = cfg.withDefaults()
	return &TokenSource{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		clock:      clk,
		logger:     logger,
	}
}

// Token returns a non-expired access token, refreshing first if the
// stored one is missing or past its expiration. Concurrent callers
// serialize on the refresh instead of racing it.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := ts.clock.Now()
	if ts.accessToken != "" && now.Before(ts.expiresAt) {
		return ts.accessToken, nil
	}
	if err := ts.refreshLocked(ctx); err != nil {
		return "", err
	}
	return ts.accessToken, nil
}

// Refresh forces a token exchange. On failure the previous credential
// is left untouched.
func (ts *TokenSource) Refresh(ctx context.Context) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.refreshLocked(ctx)
}

func (ts *TokenSource) refreshLocked(ctx context.Context) error {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {ts.cfg.RefreshToken},
		"client_id":     {ts.cfg.AppKey},
		"client_secret": {ts.cfg.AppSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCredentialRefresh, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCredentialRefresh, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrCredentialRefresh, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: token endpoint returned %d", domain.ErrCredentialRefresh, resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrCredentialRefresh, err)
	}
	if payload.AccessToken == "" {
		return fmt.Errorf("%w: no access token in response", domain.ErrCredentialRefresh)
	}

	ts.accessToken = payload.AccessToken
	ts.expiresAt = ts.clock.Now().Add(ts.cfg.RefreshInterval)
	ts.logger.Info().Time("expires_at", ts.expiresAt).Msg("access token refreshed")
	return nil
}

// RunRefreshLoop refreshes the credential on a fixed interval until the
// context is canceled. A failed tick keeps the previous credential; the
// next storage call (or tick) retries.
func (ts *TokenSource) RunRefreshLoop(ctx context.Context) {
	ticker := time.NewTicker(ts.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ts.Refresh(ctx); err != nil {
				ts.logger.Warn().Err(err).Msg("periodic token refresh failed")
			}
		}
	}
}
