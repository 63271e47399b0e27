package espn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/pickemleague/pickem-api/internal/platform/logging"
	"github.com/pickemleague/pickem-api/internal/platform/resilience"
	"github.com/pickemleague/pickem-api/internal/usecase"
)

const (
	defaultBaseURL    = "https://site.api.espn.com/apis/site/v2/sports/football/nfl"
	regularSeasonType = 2
)

var errESPNTransient = crerr.New("espn transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads the public ESPN site scoreboard. The endpoint needs no
// credentials but rate limits aggressively, so requests go through the
// circuit breaker and in-flight deduplication.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
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
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchWeek returns the regular-season scoreboard for one week.
func (c *Client) FetchWeek(ctx context.Context, season, week int) ([]usecase.ExternalGame, error) {
	if season <= 0 {
		return nil, fmt.Errorf("season must be greater than zero")
	}
	if week <= 0 {
		return nil, fmt.Errorf("week must be greater than zero")
	}

	query := map[string]string{
		"dates":      strconv.Itoa(season),
		"seasontype": strconv.Itoa(regularSeasonType),
		"week":       strconv.Itoa(week),
	}

	var envelope scoreboardEnvelope
	if err := c.doJSON(ctx, "/scoreboard", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch scoreboard season=%d week=%d: %w", season, week, err)
	}

	out := make([]usecase.ExternalGame, 0, len(envelope.Events))
	for _, event := range envelope.Events {
		item, ok := mapEvent(event, season, week)
		if !ok {
			c.logger.WarnContext(ctx, "skip malformed scoreboard event", "event_id", event.ID, "week", week)
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: scoreboard provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errESPNTransient) {
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
		return fmt.Errorf("decode scoreboard payload: %w", err)
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
			lastErr = fmt.Errorf("%w: send request: %v", errESPNTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errESPNTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errESPNTransient, resp.StatusCode, abbreviateBody(raw))
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
	c.logger.WarnContext(ctx, "espn request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func mapEvent(event scoreboardEvent, season, week int) (usecase.ExternalGame, bool) {
	if strings.TrimSpace(event.ID) == "" || len(event.Competitions) == 0 {
		return usecase.ExternalGame{}, false
	}
	competition := event.Competitions[0]

	var home, away *scoreboardCompetitor
	for i := range competition.Competitors {
		switch strings.ToLower(competition.Competitors[i].HomeAway) {
		case "home":
			home = &competition.Competitors[i]
		case "away":
			away = &competition.Competitors[i]
		}
	}
	if home == nil || away == nil {
		return usecase.ExternalGame{}, false
	}

	kickoff, err := parseEventDate(firstNonEmpty(competition.Date, event.Date))
	if err != nil {
		return usecase.ExternalGame{}, false
	}

	status := mapEventStatus(competition.Status.Type)

	item := usecase.ExternalGame{
		ExternalID: event.ID,
		Week:       week,
		Season:     season,
		HomeTeam:   strings.ToUpper(strings.TrimSpace(home.Team.Abbreviation)),
		AwayTeam:   strings.ToUpper(strings.TrimSpace(away.Team.Abbreviation)),
		KickoffAt:  kickoff,
		Status:     status,
	}
	if event.Week.Number > 0 {
		item.Week = event.Week.Number
	}
	if event.Season.Year > 0 {
		item.Season = event.Season.Year
	}
	if item.HomeTeam == "" || item.AwayTeam == "" {
		return usecase.ExternalGame{}, false
	}

	item.HomeScore = parseScore(home.Score)
	item.AwayScore = parseScore(away.Score)
	if status == "FINISHED" {
		finishedAt := kickoff
		item.FinishedAt = &finishedAt
	}
	return item, true
}

func mapEventStatus(statusType scoreboardStatusType) string {
	if statusType.Completed {
		return "FINISHED"
	}
	switch strings.ToLower(strings.TrimSpace(statusType.State)) {
	case "in":
		return "LIVE"
	case "post":
		return "FINISHED"
	default:
		return "SCHEDULED"
	}
}

// parseEventDate accepts the minute-precision RFC 3339 variant the
// scoreboard feed emits ("2025-09-07T17:00Z") plus the full form.
func parseEventDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty event date")
	}
	for _, layout := range []string{"2006-01-02T15:04Z07:00", time.RFC3339} {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized event date %q", value)
}

func parseScore(raw string) *int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &value
}

func isRetryableStatus(status int) bool {
	if status == http.StatusTooManyRequests || status == http.StatusRequestTimeout {
		return true
	}
	return status >= 500
}

func abbreviateBody(raw []byte) string {
	const maxLen = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > maxLen {
		return body[:maxLen] + "..."
	}
	return body
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
