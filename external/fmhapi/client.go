// Package fmhapi is the HTTP client for the Fantasy Manager Hub backend API.
package fmhapi

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/player"
	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/trade"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/logging"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/metrics"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-manager-hub/internal/usecase"
)

const (
	defaultBaseURL  = "http://127.0.0.1:8000"
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 4 << 20
	circuitName     = "fmhapi"
)

const (
	endpointWelcome   = "welcome"
	endpointHealth    = "health"
	endpointSearch    = "trade_calculator.search"
	endpointSimulate  = "trade_calculator.simulate"
	endpointPlayers   = "player_trends.players"
	endpointPositions = "player_trends.positions"
	endpointTeams     = "player_trends.teams"
)

var errAPITransient = crerr.New("fmh api transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	Logger         *logging.Logger
	Metrics        *metrics.Recorder
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the backend. Identical concurrent GETs share one request, and a circuit breaker
// fails fast while the backend keeps erroring.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	logger         *logging.Logger
	metrics        *metrics.Recorder
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.Group[[]byte]
	validate       *validator.Validate
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = timeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	breakerCfg := cfg.CircuitBreaker.Normalized()
	breaker := resilience.NewCircuitBreaker(breakerCfg)
	recorder := cfg.Metrics
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("fmh api circuit breaker changed state", "from", from, "to", to)
		recorder.SetCircuitOpen(circuitName, to != resilience.CircuitStateClosed)
	})

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		logger:         logger,
		metrics:        recorder,
		breaker:        breaker,
		circuitEnabled: breakerCfg.Enabled,
		validate:       validator.New(),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Welcome(ctx context.Context) (player.Welcome, error) {
	var payload welcomeDTO
	if err := c.getJSON(ctx, endpointWelcome, "/", "", &payload); err != nil {
		return player.Welcome{}, err
	}
	return player.Welcome{Title: payload.Title, Message: payload.Message}, nil
}

// Health reports nil when the backend answers {"ok": true}.
func (c *Client) Health(ctx context.Context) error {
	var payload healthDTO
	if err := c.getJSON(ctx, endpointHealth, "/health", "", &payload); err != nil {
		return err
	}
	if !payload.OK {
		return fmt.Errorf("%w: backend health reported not ok", usecase.ErrDependencyUnavailable)
	}
	return nil
}

func (c *Client) Search(ctx context.Context, query string) ([]player.Lite, error) {
	var payload []playerLiteDTO
	rawQuery := "q=" + url.QueryEscape(query)
	if err := c.getJSON(ctx, endpointSearch, "/trade_calculator/search", rawQuery, &payload); err != nil {
		return nil, err
	}

	out := make([]player.Lite, 0, len(payload))
	for _, item := range payload {
		out = append(out, item.toDomain())
	}
	return out, nil
}

// ListTrending fetches a trending page. rawQuery is sent as-is, so the caller controls key order.
func (c *Client) ListTrending(ctx context.Context, rawQuery string) (player.Page, error) {
	var payload playersPageDTO
	if err := c.getJSON(ctx, endpointPlayers, "/player_trends/players", rawQuery, &payload); err != nil {
		return player.Page{}, err
	}

	page := payload.toDomain()
	if err := page.Validate(); err != nil {
		c.logger.WarnContext(ctx, "trending page failed validation", "query", rawQuery, "error", err)
	}
	return page, nil
}

func (c *Client) Positions(ctx context.Context) ([]player.PositionCount, error) {
	var payload []positionCountDTO
	if err := c.getJSON(ctx, endpointPositions, "/player_trends/positions", "", &payload); err != nil {
		return nil, err
	}

	out := make([]player.PositionCount, 0, len(payload))
	for _, item := range payload {
		out = append(out, player.PositionCount{Position: item.Position, Count: item.Count})
	}
	return out, nil
}

func (c *Client) Teams(ctx context.Context) ([]player.TeamCount, error) {
	var payload []teamCountDTO
	if err := c.getJSON(ctx, endpointTeams, "/player_trends/teams", "", &payload); err != nil {
		return nil, err
	}

	out := make([]player.TeamCount, 0, len(payload))
	for _, item := range payload {
		out = append(out, player.TeamCount{Team: item.Team, Count: item.Count})
	}
	return out, nil
}

func (c *Client) Simulate(ctx context.Context, req trade.SimulationRequest) (trade.SimulationResult, error) {
	if err := c.validate.StructCtx(ctx, req); err != nil {
		return trade.SimulationResult{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	body, err := sonic.Marshal(simulateRequestDTO{
		SideA: nonNil(req.SideA),
		SideB: nonNil(req.SideB),
	})
	if err != nil {
		return trade.SimulationResult{}, crerr.Wrap(err, "encode simulate request")
	}

	raw, err := c.guarded(ctx, endpointSimulate, func() ([]byte, error) {
		return c.execute(ctx, http.MethodPost, c.baseURL+"/trade_calculator/simulate", body)
	})
	if err != nil {
		return trade.SimulationResult{}, err
	}

	var payload simulationResultDTO
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return trade.SimulationResult{}, crerr.Wrap(err, "decode simulate response")
	}
	return payload.toDomain(), nil
}

type flightResult struct {
	raw []byte
	err error
}

// getJSON issues a de-duplicated GET. The shared request runs detached from any single caller's
// cancellation, bounded by the client timeout; each caller still returns as soon as its own
// context ends.
func (c *Client) getJSON(ctx context.Context, endpoint, path, rawQuery string, target any) error {
	fullURL := c.baseURL + path
	if rawQuery != "" {
		fullURL += "?" + rawQuery
	}

	done := make(chan flightResult, 1)
	go func() {
		raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
			return c.guarded(ctx, endpoint, func() ([]byte, error) {
				return c.execute(context.WithoutCancel(ctx), http.MethodGet, fullURL, nil)
			})
		})
		done <- flightResult{raw: raw, err: err}
	}()

	var res flightResult
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return res.err
	}

	if err := sonic.Unmarshal(res.raw, target); err != nil {
		return crerr.Wrapf(err, "decode %s response", endpoint)
	}
	return nil
}

// guarded runs fn behind the circuit breaker and records metrics for endpoint.
func (c *Client) guarded(ctx context.Context, endpoint string, fn func() ([]byte, error)) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.metrics.RecordAPICall(endpoint, metrics.OutcomeRejected, 0)
			c.logger.WarnContext(ctx, "fmh api circuit breaker rejected request", "endpoint", endpoint, "state", c.breaker.State())
			return nil, fmt.Errorf("%w: player API is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	start := time.Now()
	raw, err := fn()
	if c.circuitEnabled {
		c.breaker.Record(err, isCircuitFailure)
	}

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
		c.logger.WarnContext(ctx, "fmh api request failed", "endpoint", endpoint, "error", err)
	}
	c.metrics.RecordAPICall(endpoint, outcome, time.Since(start))
	return raw, err
}

func (c *Client) execute(ctx context.Context, method, fullURL string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, crerr.Mark(crerr.Wrap(err, "send request"), errAPITransient))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, crerr.Mark(crerr.Wrap(err, "read response body"), errAPITransient))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &usecase.APIError{StatusCode: resp.StatusCode, Detail: decodeDetail(raw)}
		if isRetryableStatus(resp.StatusCode) {
			return nil, crerr.Mark(apiErr, errAPITransient)
		}
		return nil, apiErr
	}

	return raw, nil
}

// decodeDetail extracts a string "detail" field from an error body. Structured details (such as
// validation error lists) are ignored so callers fall back to their own message.
func decodeDetail(raw []byte) string {
	var payload errorDTO
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	detail, ok := payload.Detail.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(detail)
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errAPITransient) || crerr.Is(err, errAPITransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
