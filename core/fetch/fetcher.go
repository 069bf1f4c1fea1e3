// Package fetch implements the Fetcher and Downloader interfaces against the
// catalog site. It keeps one authenticated HTTP session: basic auth on every
// request, a cookie jar, paced requests and retries for transient failures.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/gaurav-prasanna/coursepipe/core"
	"github.com/gaurav-prasanna/coursepipe/crawl"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "coursepipe/1.0 (https://github.com/gaurav-prasanna/coursepipe)"
	defaultBaseURL   = "https://wis.fit.vutbr.cz/FIT/st/"
)

// ErrUnauthorized is returned when the site rejects the credentials.
var ErrUnauthorized = core.ErrUnauthorized

// StatusError is a non-success response that is not worth retrying.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// Options configures the session.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Username  string
	Password  string
	// RequestsPerSecond paces requests; zero disables pacing.
	RequestsPerSecond float64
	Retries           int
	RetryBackoff      time.Duration
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		BaseURL:           defaultBaseURL,
		UserAgent:         defaultUserAgent,
		Timeout:           defaultTimeout,
		RequestsPerSecond: 4,
		Retries:           2,
		RetryBackoff:      500 * time.Millisecond,
	}
}

// HTTPFetcher fetches catalog pages and files over one HTTP session.
type HTTPFetcher struct {
	client  *http.Client
	opts    Options
	base    *url.URL
	limiter *rate.Limiter
	logger  *zap.Logger
}

// New creates an HTTPFetcher. Relative links are resolved against opts.BaseURL.
func New(opts Options, logger *zap.Logger) (*HTTPFetcher, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", opts.BaseURL)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &HTTPFetcher{
		client:  &http.Client{Timeout: opts.Timeout, Jar: jar},
		opts:    opts,
		base:    base,
		limiter: limiter,
		logger:  logger,
	}, nil
}

// URL resolves a possibly relative link against the base URL.
func (f *HTTPFetcher) URL(link string) string {
	return crawl.ResolveURL(link, f.base)
}

// Fetch retrieves the page at link and decodes it to UTF-8 using the charset
// the server declares (the catalog serves ISO-8859-2).
func (f *HTTPFetcher) Fetch(ctx context.Context, link string) (*core.FetchResult, error) {
	target := f.URL(link)
	if target == "" {
		return nil, fmt.Errorf("unusable link %q", link)
	}

	resp, err := f.do(ctx, target)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", target, err)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &core.FetchResult{
		URL:        target,
		StatusCode: resp.StatusCode,
		HTML:       string(data),
	}, nil
}

// Download stores the file at link under dst, creating parent directories.
// The file only appears at dst once it has been received completely.
func (f *HTTPFetcher) Download(ctx context.Context, link string, dst string) (int64, error) {
	target := f.URL(link)
	if target == "" {
		return 0, fmt.Errorf("unusable link %q", link)
	}

	resp, err := f.do(ctx, target)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, fmt.Errorf("creating directory for %s: %w", dst, err)
	}
	part := dst + ".part"
	out, err := os.Create(part)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", part, err)
	}
	n, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(part)
		return n, fmt.Errorf("writing %s: %w", dst, err)
	}
	if err := os.Rename(part, dst); err != nil {
		return n, fmt.Errorf("moving %s into place: %w", dst, err)
	}
	return n, nil
}

// do sends an authenticated GET, retrying network errors and 5xx responses.
// On success the caller owns resp.Body.
func (f *HTTPFetcher) do(ctx context.Context, target string) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= f.opts.Retries; attempt++ {
		if attempt > 0 {
			delay := f.opts.RetryBackoff << (attempt - 1)
			f.logger.Debug("retrying request",
				zap.String("url", target),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", f.opts.UserAgent)
		if f.opts.Username != "" {
			req.SetBasicAuth(f.opts.Username, f.opts.Password)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("fetching %s: %w", target, err)
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			f.logger.Debug("fetched", zap.String("url", target), zap.Int("status", resp.StatusCode))
			return resp, nil
		case resp.StatusCode == http.StatusUnauthorized:
			resp.Body.Close()
			return nil, fmt.Errorf("%s: %w", target, ErrUnauthorized)
		case resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = &StatusError{URL: target, StatusCode: resp.StatusCode}
		default:
			resp.Body.Close()
			return nil, &StatusError{URL: target, StatusCode: resp.StatusCode}
		}
	}
	return nil, lastErr
}
