package jobqueue

import (
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
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/platform/id"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/platform/logging"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var errWebhookTransient = crerr.New("settlement webhook transient failure")

// WebhookPublisherConfig points settlement notifications at the dashboard's
// inbound webhook.
type WebhookPublisherConfig struct {
	WebhookURL     string
	InternalToken  string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookPublisher delivers settled-gameweek notifications over HTTP. The
// receiving side treats the dedup header as idempotency key, so a replayed
// settlement never double-notifies.
type WebhookPublisher struct {
	client         *http.Client
	webhookURL     string
	internalToken  string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	ids            id.Generator
}

func NewWebhookPublisher(cfg WebhookPublisherConfig, logger *logging.Logger) *WebhookPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &WebhookPublisher{
		client: &http.Client{
			Timeout: timeout,
		},
		webhookURL:     strings.TrimRight(strings.TrimSpace(cfg.WebhookURL), "/"),
		internalToken:  strings.TrimSpace(cfg.InternalToken),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		ids:            id.NewRandomGenerator(),
	}
}

type settlementNotification struct {
	ContestID   string `json:"contestId"`
	Gameweek    int    `json:"gameweek"`
	WinnerCount int    `json:"winnerCount"`
	SettledAt   string `json:"settledAt"`
}

// PublishSettlement posts one settlement outcome. Transient failures trip
// the circuit breaker; 4xx responses other than 408/429 count as permanent
// and leave the circuit alone.
func (p *WebhookPublisher) PublishSettlement(ctx context.Context, contestID string, gameweek int, winnerCount int) error {
	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "settlement webhook circuit breaker rejected request", "state", p.breaker.State())
			return fmt.Errorf("settlement webhook is temporarily unavailable: %w", err)
		}
	}

	webhookURL, err := validateHTTPBaseURL(p.webhookURL)
	if err != nil {
		return crerr.Wrap(err, "invalid SETTLEMENT_WEBHOOK_URL")
	}

	payload := settlementNotification{
		ContestID:   contestID,
		Gameweek:    gameweek,
		WinnerCount: winnerCount,
		SettledAt:   time.Now().UTC().Format(time.RFC3339),
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal settlement notification")
	}

	dedupID := fmt.Sprintf("settlement-%s-gw%d", contestID, gameweek)
	bodyText := truncateForLog(string(body), 4096)
	curlPreview := buildWebhookCurlPreview(webhookURL, dedupID, bodyText, p.internalToken != "")

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("webhook.url", webhookURL),
			attribute.String("webhook.deduplication_id", dedupID),
			attribute.String("webhook.request_body", bodyText),
			attribute.String("webhook.request_curl_preview", curlPreview),
		)
	}
	p.logger.InfoContext(ctx, "settlement webhook request",
		"contest_id", contestID, "gameweek", gameweek, "url", webhookURL, "curl_preview", curlPreview)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, strings.NewReader(string(body)))
	if err != nil {
		return crerr.Wrap(err, "create settlement webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Deduplication-Id", dedupID)
	// The dedup id is stable across retries; the delivery id is unique per
	// attempt so the receiver can tell a replay from a retry.
	if p.ids != nil {
		if deliveryID, idErr := p.ids.NewID(); idErr == nil {
			req.Header.Set("X-Delivery-Id", deliveryID)
		}
	}
	if p.internalToken != "" {
		req.Header.Set("X-Internal-Job-Token", p.internalToken)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		callErr := fmt.Errorf("%w: post settlement webhook url=%s: %v", errWebhookTransient, webhookURL, err)
		p.recordCircuitResult(callErr)
		return callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if isRetryableStatus(resp.StatusCode) {
			callErr := fmt.Errorf("%w: post settlement webhook status=%d url=%s body=%s",
				errWebhookTransient, resp.StatusCode, webhookURL, strings.TrimSpace(string(raw)))
			p.recordCircuitResult(callErr)
			return callErr
		}

		callErr := fmt.Errorf("post settlement webhook status=%d url=%s body=%s",
			resp.StatusCode, webhookURL, strings.TrimSpace(string(raw)))
		p.recordCircuitResult(callErr)
		return callErr
	}

	p.logger.InfoContext(ctx, "settlement webhook delivered",
		"contest_id", contestID, "gameweek", gameweek, "winner_count", winnerCount)
	p.recordCircuitResult(nil)
	return nil
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildWebhookCurlPreview(webhookURL, dedupID, body string, withToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}
	appendFlagHeader := func(value string) {
		appendPart("-H")
		appendPart(shellQuote(value))
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(webhookURL))
	appendFlagHeader("Content-Type: application/json")
	appendFlagHeader("X-Deduplication-Id: " + dedupID)
	if withToken {
		appendFlagHeader("X-Internal-Job-Token: ***")
	}
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func (p *WebhookPublisher) recordCircuitResult(err error) {
	if !p.circuitEnabled || p.breaker == nil {
		return
	}
	if err == nil {
		p.breaker.RecordSuccess()
		return
	}
	if stderrors.Is(err, errWebhookTransient) {
		p.breaker.RecordFailure()
		return
	}
	p.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
