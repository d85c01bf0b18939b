package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"manifest-gallery/internal/logging"
	"manifest-gallery/internal/media"
	"manifest-gallery/internal/metrics"
	"manifest-gallery/internal/resolver"
)

// MaxPayloadBytes caps how much of a mirror's response body is read.
// Anything bigger is not a plausible gallery image and counts as a
// failed verification for that mirror.
const MaxPayloadBytes = 32 << 20 // 32MB

// Result is the outcome of resolving one entry against its candidate
// list. OK with a payload means a verified image; OK without a payload
// means an unverified link (video mode). Not-OK means every mirror
// failed verification and nothing should be rendered for the entry.
type Result struct {
	OK          bool   `json:"ok"`
	URL         string `json:"url,omitempty"`
	Label       string `json:"label,omitempty"`
	Payload     []byte `json:"-"`
	ContentType string `json:"-"`
}

// Fetcher performs verified image retrieval against an ordered list of
// candidate mirror URLs.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// New creates a Fetcher with the given per-attempt timeout.
func New(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// FetchWithFallback tries each candidate URL strictly in order, once,
// and returns the first that yields a decodable image. Per-mirror
// failures never reach the caller: they are logged at debug level and
// counted, and the loop simply advances. When every mirror fails the
// Result carries no payload and no URL; the caller renders nothing for
// the entry rather than an error placeholder.
func (f *Fetcher) FetchWithFallback(ctx context.Context, candidates []resolver.Candidate) Result {
	for _, c := range candidates {
		if ctx.Err() != nil {
			break
		}

		payload, contentType, err := f.attempt(ctx, c.URL)
		if err != nil {
			logging.Debug("mirror %q failed for %q: %v", c.Label, c.DisplayName, err)
			continue
		}

		return Result{
			OK:          true,
			URL:         c.URL,
			Label:       c.Label,
			Payload:     payload,
			ContentType: contentType,
		}
	}

	metrics.FetchExhaustedTotal.Inc()
	return Result{}
}

// LinkOnly accepts the first candidate without any retrieval. Video
// links are opened externally rather than previewed inline, so there is
// no verification step that could fail and advance the fallback loop.
func LinkOnly(candidates []resolver.Candidate) Result {
	if len(candidates) == 0 {
		return Result{}
	}
	return Result{
		OK:    true,
		URL:   candidates[0].URL,
		Label: candidates[0].Label,
	}
}

// attempt retrieves and verifies a single mirror URL. Every failure
// path records its outcome before returning.
func (f *Fetcher) attempt(ctx context.Context, url string) ([]byte, string, error) {
	start := time.Now()
	outcome := metrics.OutcomeSuccess
	defer func() {
		metrics.FetchAttemptsTotal.WithLabelValues(outcome).Inc()
		metrics.FetchDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		outcome = metrics.OutcomeTransportError
		return nil, "", fmt.Errorf("invalid request for %s: %w", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		outcome = metrics.OutcomeTransportError
		return nil, "", fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Debug("failed to close response body for %s: %v", url, err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = metrics.OutcomeBadStatus
		return nil, "", fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPayloadBytes+1))
	if err != nil {
		outcome = metrics.OutcomeTransportError
		return nil, "", fmt.Errorf("failed to read body from %s: %w", url, err)
	}
	if len(body) > MaxPayloadBytes {
		outcome = metrics.OutcomeDecodeError
		return nil, "", fmt.Errorf("%s payload exceeds %d bytes", url, MaxPayloadBytes)
	}

	payload, contentType, err := media.Preview(body)
	if err != nil {
		outcome = metrics.OutcomeDecodeError
		return nil, "", fmt.Errorf("verification of %s failed: %w", url, err)
	}

	return payload, contentType, nil
}
