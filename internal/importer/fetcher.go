// Package importer loads content from the legacy kindergarten site and
// feeds it to the repositories' idempotent upsert path.
package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// TransientError is a source fetch that kept failing until the retry
// ceiling. It fails the affected batch item only; the rest of the batch
// proceeds.
type TransientError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Fetcher retrieves source documents with linear backoff: attempt n waits
// n * baseDelay before retrying. Both knobs are configuration, not
// constants.
type Fetcher struct {
	client      *http.Client
	maxAttempts int
	baseDelay   time.Duration
	logger      *zap.Logger
}

func NewFetcher(maxAttempts int, baseDelay time.Duration, logger *zap.Logger) *Fetcher {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Fetcher{
		client:      &http.Client{Timeout: 30 * time.Second},
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		logger:      logger.With(zap.String("component", "fetcher")),
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt-1) * f.baseDelay):
			}
		}

		body, retryable, err := f.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
		f.logger.Warn("transient fetch failure",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}
	return nil, &TransientError{URL: url, Attempts: f.maxAttempts, Err: lastErr}
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("source returned %s", resp.Status)
	case resp.StatusCode >= 400:
		return nil, false, fmt.Errorf("source returned %s", resp.Status)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	return body, false, nil
}
