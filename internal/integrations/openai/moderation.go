package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	defaultBaseURL         = "https://api.openai.com/v1"
	defaultModerationModel = "omni-moderation-latest"
)

type moderationRequest struct {
	Model string   `json:"model,omitempty"`
	Input []string `json:"input"`
}

// moderationResponse is the minimal response shape for the Moderations endpoint.
type moderationResponse struct {
	Results []struct {
		Flagged    bool            `json:"flagged"`
		Categories map[string]bool `json:"categories"`
	} `json:"results"`
}

// tokenPayload is the expected JSON shape stored in SSM for the API token.
type tokenPayload struct {
	Token string `json:"token"`
}

type Getter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// HTTPStatusError captures non-2xx upstream responses with status-aware context.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("openai: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// ModerationClient screens free-text wizard answers with the OpenAI Moderations API.
type ModerationClient struct {
	baseURL     string
	model       string
	httpClient  *http.Client
	getter      Getter
	paramPrefix string

	keyMu     sync.RWMutex
	keyLoaded bool
	apiKey    string
}

type Option func(*ModerationClient)

func WithBaseURL(baseURL string) Option {
	return func(c *ModerationClient) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *ModerationClient) {
		c.httpClient = httpClient
	}
}

func WithModel(model string) Option {
	return func(c *ModerationClient) {
		if m := strings.TrimSpace(model); m != "" {
			c.model = m
		}
	}
}

// NewModerationClient creates a client whose API key is read from the
// parameter store on first use. A failed read is retried on the next call.
func NewModerationClient(ps Getter, paramPrefix string, opts ...Option) (*ModerationClient, error) {
	if ps == nil {
		return nil, errors.New("openai: paramstore getter must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("openai: parameter prefix must not be empty")
	}
	c := &ModerationClient{
		baseURL:     defaultBaseURL,
		model:       defaultModerationModel,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		getter:      ps,
		paramPrefix: paramPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *ModerationClient) resolveAPIKey(ctx context.Context) (string, error) {
	c.keyMu.RLock()
	if c.keyLoaded {
		key := c.apiKey
		c.keyMu.RUnlock()
		return key, nil
	}
	c.keyMu.RUnlock()

	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	if c.keyLoaded {
		return c.apiKey, nil
	}
	key, err := fetchAPIKeyFromParamStore(ctx, c.getter, c.tokenParameterName())
	if err != nil {
		return "", err
	}
	c.apiKey = key
	c.keyLoaded = true
	return key, nil
}

func (c *ModerationClient) tokenParameterName() string {
	return c.paramPrefix + "/open-ai-token"
}

func (c *ModerationClient) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func moderationURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/moderations"
	}
	return base + "/v1/moderations"
}

// Moderate screens every non-blank input in one request and returns true if
// any of them is flagged.
func (c *ModerationClient) Moderate(ctx context.Context, inputs ...string) (bool, error) {
	batch := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if strings.TrimSpace(in) != "" {
			batch = append(batch, in)
		}
	}
	if len(batch) == 0 {
		return false, nil
	}
	apiKey, err := c.resolveAPIKey(ctx)
	if err != nil {
		return false, err
	}

	body, err := json.Marshal(moderationRequest{Model: c.model, Input: batch})
	if err != nil {
		return false, fmt.Errorf("openai: marshal moderation request: %w", err)
	}

	url := moderationURL(c.baseURL)

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if reqErr != nil {
		return false, fmt.Errorf("openai: create moderation request: %w", reqErr)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	raw, err := c.doJSONRequest(req, url)
	if err != nil {
		return false, fmt.Errorf("openai: moderation request failed: %w", err)
	}

	var payload moderationResponse
	if decErr := json.Unmarshal(raw, &payload); decErr != nil {
		return false, fmt.Errorf("openai: decode moderation response: %w", decErr)
	}
	if len(payload.Results) == 0 {
		return false, errors.New("openai: no results in moderation response")
	}
	flagged := false
	for i, result := range payload.Results {
		if result.Flagged {
			slog.Warn("answer flagged by moderation", "index", i, "categories", flaggedCategories(result.Categories))
			flagged = true
		}
	}
	return flagged, nil
}

func flaggedCategories(categories map[string]bool) []string {
	out := make([]string, 0, len(categories))
	for name, hit := range categories {
		if hit {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (c *ModerationClient) doJSONRequest(req *http.Request, url string) ([]byte, error) {
	res, doErr := c.resolvedHTTPClient().Do(req)
	if doErr != nil {
		return nil, doErr
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(buf),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return buf, nil
}

func fetchAPIKeyFromParamStore(ctx context.Context, getter Getter, name string) (string, error) {
	if getter == nil {
		return "", errors.New("openai: paramstore getter is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("openai: token parameter name is empty")
	}

	raw, err := getter.GetParameter(ctx, name)
	if err != nil {
		return "", fmt.Errorf("openai: fetch token from paramstore: %w", err)
	}
	var tp tokenPayload
	if err := json.Unmarshal([]byte(raw), &tp); err != nil {
		return "", fmt.Errorf("openai: unmarshal paramstore token value as JSON: %w", err)
	}
	if tp.Token == "" {
		return "", fmt.Errorf("openai: API token is empty")
	}
	return tp.Token, nil
}
