// Package icegrams looks up unigram frequencies from an HTTP n-gram service.
package icegrams

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mideind/IcelandicEval/internal/domain"
)

const defaultRetryDelay = 500 * time.Millisecond

// unigramResponse is the body of GET {base}/unigram/{word}.
type unigramResponse struct {
	Word  string `json:"word"`
	Count int64  `json:"count"`
}

// Provider fetches word-form counts from the n-gram service.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration
	log        *slog.Logger
}

// NewProvider creates a Provider for the service at baseURL.
func NewProvider(baseURL string, timeout, retryDelay time.Duration, logger *slog.Logger) *Provider {
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	return &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retryDelay: retryDelay,
		log:        logger.With("adapter", "icegrams"),
	}
}

// Score returns the corpus count of a word form. A form the service does
// not know (HTTP 404) is reported as not found. A service that cannot be
// reached after one retry, or that refuses the client (401, 403, 429),
// yields domain.ErrLookupUnavailable.
func (p *Provider) Score(ctx context.Context, wordForm string) (int64, bool, error) {
	reqURL := p.baseURL + "/unigram/" + url.PathEscape(wordForm)

	resp, err := p.doWithRetry(ctx, reqURL, wordForm)
	if err != nil {
		if ctx.Err() != nil {
			return 0, false, fmt.Errorf("icegrams: %w", ctx.Err())
		}
		p.log.ErrorContext(ctx, "icegrams request failed", slog.String("word", wordForm), slog.String("error", err.Error()))
		return 0, false, fmt.Errorf("icegrams: %w: %w", domain.ErrLookupUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, false, nil
	case resp.StatusCode >= 500,
		resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusTooManyRequests:
		return 0, false, fmt.Errorf("icegrams: %w: status %d", domain.ErrLookupUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return 0, false, fmt.Errorf("icegrams: unexpected status %d for %q", resp.StatusCode, wordForm)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, false, fmt.Errorf("icegrams: read body: %w", err)
	}

	var r unigramResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return 0, false, fmt.Errorf("icegrams: decode json: %w", err)
	}

	p.log.DebugContext(ctx, "icegrams response", slog.String("word", wordForm), slog.Int64("count", r.Count))
	return r.Count, r.Count > 0, nil
}

// doWithRetry performs the GET with a single retry on 5xx or network errors.
func (p *Provider) doWithRetry(ctx context.Context, reqURL, word string) (*http.Response, error) {
	resp, err := p.get(ctx, reqURL)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	p.log.WarnContext(ctx, "icegrams retry", slog.String("word", word), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(p.retryDelay):
	}

	return p.get(ctx, reqURL)
}

func (p *Provider) get(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return p.httpClient.Do(req)
}
