package grammar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultLanguageToolURL is a locally hosted LanguageTool server.
	DefaultLanguageToolURL = "http://localhost:8081/v2"
	// DefaultLanguage is the only language the service corrects.
	DefaultLanguage = "en-US"
	// DefaultTimeout bounds a single check request.
	DefaultTimeout = 10 * time.Second
)

// EngineError reports a non-2xx response from the grammar server.
type EngineError struct {
	StatusCode int
	Body       string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("grammar engine returned status %d: %s", e.StatusCode, e.Body)
}

// LanguageTool is an Engine backed by the LanguageTool HTTP API.
// Calls are throttled by a shared rate limiter.
type LanguageTool struct {
	baseURL  string
	language string
	client   *http.Client
	limiter  *rate.Limiter
}

// Option configures a LanguageTool client.
type Option func(*LanguageTool)

// WithLanguage sets the language code sent with each request.
func WithLanguage(lang string) Option {
	return func(lt *LanguageTool) {
		if lang != "" {
			lt.language = lang
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(lt *LanguageTool) {
		if c != nil {
			lt.client = c
		}
	}
}

// WithRateLimit allows perSecond requests per second with the given burst.
// A non-positive rate disables throttling.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(lt *LanguageTool) {
		if perSecond <= 0 {
			lt.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		lt.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewLanguageTool creates a client for the server at baseURL
// (for example http://localhost:8081/v2).
func NewLanguageTool(baseURL string, opts ...Option) *LanguageTool {
	if baseURL == "" {
		baseURL = DefaultLanguageToolURL
	}
	lt := &LanguageTool{
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: DefaultLanguage,
		client:   &http.Client{Timeout: DefaultTimeout},
		limiter:  rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(lt)
	}
	return lt
}

type ltResponse struct {
	Matches []struct {
		Message      string `json:"message"`
		Offset       int    `json:"offset"`
		Length       int    `json:"length"`
		Replacements []struct {
			Value string `json:"value"`
		} `json:"replacements"`
		Rule struct {
			ID string `json:"id"`
		} `json:"rule"`
	} `json:"matches"`
}

// Check posts text to the /check endpoint and returns the reported matches.
func (lt *LanguageTool) Check(ctx context.Context, text string) ([]Match, error) {
	if err := lt.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for grammar rate limit: %w", err)
	}

	form := url.Values{"text": {text}, "language": {lt.language}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, lt.baseURL+"/check", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building grammar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := lt.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling grammar engine: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &EngineError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var res ltResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decoding grammar response: %w", err)
	}

	matches := make([]Match, 0, len(res.Matches))
	for _, m := range res.Matches {
		match := Match{
			Offset:  m.Offset,
			Length:  m.Length,
			Message: m.Message,
			RuleID:  m.Rule.ID,
		}
		for _, r := range m.Replacements {
			match.Replacements = append(match.Replacements, r.Value)
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// Correct checks text and applies the first suggested replacement of each match.
func (lt *LanguageTool) Correct(ctx context.Context, text string) (string, error) {
	matches, err := lt.Check(ctx, text)
	if err != nil {
		return "", err
	}
	return ApplyMatches(text, matches), nil
}
