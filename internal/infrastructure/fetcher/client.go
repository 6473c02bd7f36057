package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/budgettracker/backend/internal/domain"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultUserAgent identifies as desktop Chrome
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultTimeout is the fetch budget used when none is given
	DefaultTimeout = 5 * time.Second

	// DefaultMaxBodyBytes caps how much of a page is read
	DefaultMaxBodyBytes int64 = 5 * 1024 * 1024

	maxRedirects = 5
)

// Config holds page fetcher settings
type Config struct {
	UserAgent    string
	MaxBodyBytes int64
}

// Client fetches web pages for link extraction. It performs exactly one
// request per call and never retries.
type Client struct {
	httpClient   *resty.Client
	maxBodyBytes int64
}

// NewClient creates a new page fetcher
func NewClient(cfg Config) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	httpClient := resty.New().
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects)).
		SetRetryCount(0)

	return &Client{
		httpClient:   httpClient,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

// Fetch downloads the markup at url, cancelling the request after timeout.
func (c *Client) Fetch(ctx context.Context, url string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		fetchErr := classify(ctx, err)
		log.Debug().Err(err).Str("url", url).Str("kind", fetchErr.Kind.Error()).
			Dur("elapsed", time.Since(start)).Msg("page fetch failed")
		return "", fetchErr
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		log.Debug().Str("url", url).Int("status", resp.StatusCode()).Msg("page fetch returned error status")
		return "", &domain.ExtractionError{
			Kind:       domain.ErrUpstream,
			StatusCode: resp.StatusCode(),
			Cause:      fmt.Errorf("unexpected status: %d", resp.StatusCode()),
		}
	}

	data, err := io.ReadAll(io.LimitReader(body, c.maxBodyBytes))
	if err != nil {
		fetchErr := classify(ctx, err)
		log.Debug().Err(err).Str("url", url).Msg("page body read failed")
		return "", fetchErr
	}

	log.Debug().
		Str("url", url).
		Int("status", resp.StatusCode()).
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("page fetched")

	return string(data), nil
}

// classify maps a transport failure onto the timeout / network taxonomy.
func classify(ctx context.Context, err error) *domain.ExtractionError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.NewExtractionError(domain.ErrFetchTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.NewExtractionError(domain.ErrFetchTimeout, err)
	}
	return domain.NewExtractionError(domain.ErrNetwork, err)
}
