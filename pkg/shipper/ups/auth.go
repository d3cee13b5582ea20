package ups

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/tournevent/ratebridge/pkg/shipper"
	"github.com/tournevent/ratebridge/pkg/transport"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// tokenExpiryMargin is subtracted from the token lifetime so a token is never
// sent when it could expire in flight.
const tokenExpiryMargin = 10 * time.Second

const refreshKey = "client_credentials"

type tokenState struct {
	accessToken string
	expiresAt   time.Time
}

// TokenManager owns the UPS OAuth bearer token. It is safe for concurrent use;
// concurrent callers that find no valid token share a single refresh.
type TokenManager struct {
	config    Config
	transport transport.Client
	logger    *otelzap.Logger
	now       func() time.Time

	mu    sync.Mutex
	state *tokenState

	refresh singleflight.Group
}

// NewTokenManager creates a token manager. A nil now uses time.Now.
func NewTokenManager(cfg Config, tr transport.Client, logger *otelzap.Logger, now func() time.Time) *TokenManager {
	if now == nil {
		now = time.Now
	}
	return &TokenManager{
		config:    cfg.withDefaults(),
		transport: tr,
		logger:    logger,
		now:       now,
	}
}

// AccessToken returns a valid bearer token, refreshing it when absent or
// within tokenExpiryMargin of expiry. Failures are *shipper.CarrierError.
func (m *TokenManager) AccessToken(ctx context.Context) (string, error) {
	if token, ok := m.cached(); ok {
		return token, nil
	}

	ch := m.refresh.DoChan(refreshKey, func() (any, error) {
		// A refresh that finished just before this one was scheduled already
		// stored a fresh token.
		if token, ok := m.cached(); ok {
			return token, nil
		}
		// The refresh outlives any single waiter; the transport timeout bounds it.
		return m.fetch(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", shipper.Classify(ctx.Err(), "failed to acquire UPS access token", opOAuth, carrierName)
	}
}

// Invalidate drops the cached token so the next call refreshes.
func (m *TokenManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = nil
}

func (m *TokenManager) cached() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil && m.now().Before(m.state.expiresAt.Add(-tokenExpiryMargin)) {
		return m.state.accessToken, true
	}
	return "", false
}

func (m *TokenManager) fetch(ctx context.Context) (string, error) {
	token, err := m.requestToken(ctx)
	if err != nil {
		carrierErr := shipper.Classify(err, "failed to acquire UPS access token", opOAuth, carrierName)
		m.logger.Ctx(ctx).Warn("UPS token refresh failed",
			zap.String("kind", string(carrierErr.Kind)),
			zap.Int("status", carrierErr.StatusCode),
			zap.Bool("retryable", carrierErr.Retryable),
		)
		return "", carrierErr
	}
	return token, nil
}

func (m *TokenManager) requestToken(ctx context.Context) (string, error) {
	credentials := base64.StdEncoding.EncodeToString(
		[]byte(m.config.ClientID + ":" + m.config.ClientSecret))

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	resp, err := m.transport.Do(ctx, &transport.Request{
		Method: http.MethodPost,
		URL:    m.config.BaseURL + m.config.TokenPath,
		Header: http.Header{
			"Authorization": {"Basic " + credentials},
			"Content-Type":  {"application/x-www-form-urlencoded"},
		},
		Body:    []byte(form.Encode()),
		Timeout: m.config.Timeout,
	})
	if err != nil {
		return "", err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		retryable := resp.StatusCode >= http.StatusInternalServerError ||
			resp.StatusCode == http.StatusTooManyRequests
		return "", withUpstream(
			shipper.NewCarrierError(shipper.KindAuth, carrierName, opOAuth, "UPS auth request failed").
				WithStatusCode(resp.StatusCode).
				WithRetryable(retryable),
			resp)
	}

	var body TokenResponse
	if err := decodeJSON(resp, &body, opOAuth, "UPS auth response was malformed"); err != nil {
		return "", err
	}

	state := &tokenState{
		accessToken: body.AccessToken,
		expiresAt:   m.now().Add(time.Duration(body.ExpiresIn) * time.Second),
	}

	m.mu.Lock()
	m.state = state
	m.mu.Unlock()

	m.logger.Ctx(ctx).Debug("UPS token refreshed", zap.Time("expires_at", state.expiresAt))
	return state.accessToken, nil
}
