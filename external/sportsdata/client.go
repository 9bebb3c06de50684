package sportsdata

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/fixture"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/platform/logging"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/platform/resilience"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/usecase"
	"github.com/sourcegraph/conc/pool"
)

const (
	defaultBaseURL        = "https://api.sportsdata.example.com/v1/epl"
	defaultEventFetchers  = 4
	maxResponseBytes      = 6 << 20
	maxLoggedResponseSize = 512
)

var apiTokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)
var errProviderTransient = crerr.New("sports data transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	EventFetchers  int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads the weekly fixture list and per-fixture goal events from the
// sports data provider. It satisfies the fixture catalog contract; a cache
// decorator usually sits in front of it.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	eventFetchers  int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	eventFetchers := cfg.EventFetchers
	if eventFetchers <= 0 {
		eventFetchers = defaultEventFetchers
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		eventFetchers:  eventFetchers,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type fixtureListEnvelope struct {
	Data []fixtureItem `json:"data"`
}

type fixtureItem struct {
	ID           string `json:"id"`
	Gameweek     int    `json:"gameweek"`
	CatalogOrder int    `json:"catalogOrder"`
	HomeTeamID   string `json:"homeTeamId"`
	AwayTeamID   string `json:"awayTeamId"`
	HomeTeam     string `json:"homeTeam"`
	AwayTeam     string `json:"awayTeam"`
	KickoffAt    string `json:"kickoffAt"`
	HomeScore    *int   `json:"homeScore"`
	AwayScore    *int   `json:"awayScore"`
	Status       string `json:"status"`
}

type eventListEnvelope struct {
	Data []eventItem `json:"data"`
}

type eventItem struct {
	Type       string `json:"type"`
	TeamID     string `json:"teamId"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Minute     int    `json:"minute"`
}

// ListByGameweek fetches the gameweek's fixtures and, for finished ones,
// hydrates goal events over a bounded fan-out. One broken fixture's event
// fetch fails the whole read: a settlement must never run on a partially
// hydrated result.
func (c *Client) ListByGameweek(ctx context.Context, gameweek int) ([]fixture.Fixture, error) {
	if gameweek <= 0 {
		return nil, crerr.Newf("gameweek must be greater than zero, got %d", gameweek)
	}

	var envelope fixtureListEnvelope
	if err := c.doJSON(ctx, "/fixtures", map[string]string{"gameweek": strconv.Itoa(gameweek)}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch fixtures gameweek=%d: %w", gameweek, err)
	}

	fixtures := make([]fixture.Fixture, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		mapped, err := mapFixtureItem(item)
		if err != nil {
			c.logger.WarnContext(ctx, "skipping unmappable provider fixture", "fixture_id", item.ID, "error", err)
			continue
		}
		fixtures = append(fixtures, mapped)
	}

	finished := make([]int, 0, len(fixtures))
	for i := range fixtures {
		if fixtures[i].Finished {
			finished = append(finished, i)
		}
	}
	if len(finished) == 0 {
		return fixtures, nil
	}

	type hydrated struct {
		index  int
		events []fixture.GoalEvent
	}
	p := pool.NewWithResults[hydrated]().WithContext(ctx).WithMaxGoroutines(c.eventFetchers)
	for _, idx := range finished {
		idx := idx
		fixtureID := fixtures[idx].ID
		p.Go(func(ctx context.Context) (hydrated, error) {
			events, err := c.fetchGoalEvents(ctx, fixtureID)
			if err != nil {
				return hydrated{}, fmt.Errorf("fetch events fixture=%s: %w", fixtureID, err)
			}
			return hydrated{index: idx, events: events}, nil
		})
	}
	results, err := p.Wait()
	if err != nil {
		return nil, err
	}
	for _, h := range results {
		fixtures[h.index].GoalEvents = h.events
	}

	sort.SliceStable(fixtures, func(i, j int) bool {
		return fixtures[i].CatalogOrder < fixtures[j].CatalogOrder
	})
	return fixtures, nil
}

func (c *Client) fetchGoalEvents(ctx context.Context, fixtureID string) ([]fixture.GoalEvent, error) {
	var envelope eventListEnvelope
	if err := c.doJSON(ctx, "/fixtures/"+url.PathEscape(fixtureID)+"/events", nil, &envelope); err != nil {
		return nil, err
	}

	events := make([]fixture.GoalEvent, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		if !strings.EqualFold(item.Type, "goal") {
			continue
		}
		events = append(events, fixture.GoalEvent{
			TeamID:     item.TeamID,
			PlayerID:   item.PlayerID,
			PlayerName: item.PlayerName,
			Minute:     item.Minute,
		})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Minute < events[j].Minute })
	return events, nil
}

func mapFixtureItem(item fixtureItem) (fixture.Fixture, error) {
	kickoff, err := parseProviderDateTime(item.KickoffAt)
	if err != nil {
		return fixture.Fixture{}, crerr.Wrapf(err, "parse kickoff %q", item.KickoffAt)
	}

	finished := strings.EqualFold(item.Status, "finished") || strings.EqualFold(item.Status, "ft")
	f := fixture.Fixture{
		ID:           item.ID,
		Gameweek:     item.Gameweek,
		CatalogOrder: item.CatalogOrder,
		HomeTeamID:   item.HomeTeamID,
		AwayTeamID:   item.AwayTeamID,
		HomeTeam:     item.HomeTeam,
		AwayTeam:     item.AwayTeam,
		KickoffAt:    kickoff,
		Finished:     finished,
	}
	if finished {
		f.HomeScore = item.HomeScore
		f.AwayScore = item.AwayScore
	}
	return f, nil
}

func parseProviderDateTime(raw string) (time.Time, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return time.Time{}, crerr.New("kickoff timestamp is empty")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, candidate); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, crerr.Newf("unrecognized timestamp format %q", candidate)
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "sports data circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: sports data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("api_token", c.token)

	fullURL := c.baseURL + path + "?" + values.Encode()

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errProviderTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errProviderTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errProviderTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "sports data request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "***")
	}
	return apiTokenParamRegex.ReplaceAllString(value, "api_token=***")
}

func redactAPIURL(raw string) string {
	return apiTokenParamRegex.ReplaceAllString(raw, "api_token=***")
}

func abbreviateBody(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if len(text) > maxLoggedResponseSize {
		return text[:maxLoggedResponseSize] + "...(truncated)"
	}
	return text
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
