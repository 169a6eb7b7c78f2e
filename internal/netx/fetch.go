// Package netx builds backend URLs and performs HTTP requests with bounded,
// fixed-delay retries for a backend that may be cold-starting.
package netx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/hydratemate/internal/common"
	"github.com/dmitrijs2005/hydratemate/internal/logging"
	"github.com/dmitrijs2005/hydratemate/internal/metrics"
)

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request describes one logical request. The body is replayed on every
// attempt.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// JSONRequest is a Request with a JSON content type.
func JSONRequest(method, url string, body []byte) Request {
	h := http.Header{}
	h.Set(common.ContentTypeHeader, common.ContentTypeJSON)
	return Request{Method: method, URL: url, Header: h, Body: body}
}

func (r Request) build(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return req, nil
}

type Fetcher struct {
	doer      Doer
	log       logging.Logger
	recorder  metrics.Recorder
	userAgent string
}

type Option func(*Fetcher)

func WithLogger(l logging.Logger) Option {
	return func(f *Fetcher) { f.log = l }
}

func WithRecorder(r metrics.Recorder) Option {
	return func(f *Fetcher) { f.recorder = r }
}

// WithUserAgent sets the User-Agent of requests that do not carry one.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// NewFetcher wraps doer. A nil doer means http.DefaultClient.
func NewFetcher(doer Doer, opts ...Option) *Fetcher {
	if doer == nil {
		doer = http.DefaultClient
	}
	f := &Fetcher{
		doer:     doer,
		log:      logging.Nop(),
		recorder: metrics.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchWithRetry performs req up to maxAttempts times, waiting delay between
// attempts. An attempt succeeds only with no transport error, a 2xx status
// and a JSON content type; the body is left unread for the caller.
func (f *Fetcher) FetchWithRetry(ctx context.Context, req Request, maxAttempts int, delay time.Duration) (*http.Response, error) {
	return f.run(ctx, req, maxAttempts, delay, func(resp *http.Response) error {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			f.recorder.RecordFailure(metrics.ReasonStatus)
			return &StatusError{StatusCode: resp.StatusCode}
		}
		ct := resp.Header.Get(common.ContentTypeHeader)
		if !isJSON(ct) {
			f.recorder.RecordFailure(metrics.ReasonContentType)
			return fmt.Errorf("%w: %q", ErrInvalidContentType, ct)
		}
		return nil
	})
}

// Send retries only transport failures and hands back whatever response
// the backend produced, so that status handling stays with the caller.
func (f *Fetcher) Send(ctx context.Context, req Request, maxAttempts int, delay time.Duration) (*http.Response, error) {
	return f.run(ctx, req, maxAttempts, delay, func(*http.Response) error { return nil })
}

func (f *Fetcher) run(ctx context.Context, req Request, maxAttempts int, delay time.Duration, accept func(*http.Response) error) (*http.Response, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var (
		resp     *http.Response
		lastErr  error
		attempts int
	)

	b := retry.WithMaxRetries(uint64(maxAttempts-1), fixedBackoff(delay))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempts++

		r, err := f.attempt(ctx, req)
		if err == nil {
			if err = accept(r); err != nil {
				drain(r)
			}
		}
		if err != nil {
			lastErr = err
			f.log.Warn(ctx, "request attempt failed",
				"url", req.URL, "attempt", attempts, "max_attempts", maxAttempts, "error", err)
			return retry.RetryableError(err)
		}

		resp = r
		return nil
	})
	if err == nil {
		return resp, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return nil, fmt.Errorf("request aborted after %d attempts: %w", attempts, ctxErr)
	}

	f.recorder.RecordRetriesExhausted()
	return nil, &RetriesError{Attempts: attempts, Err: lastErr}
}

func (f *Fetcher) attempt(ctx context.Context, req Request) (*http.Response, error) {
	httpReq, err := req.build(ctx)
	if err != nil {
		return nil, err
	}
	if f.userAgent != "" && httpReq.Header.Get(common.UserAgentHeader) == "" {
		httpReq.Header.Set(common.UserAgentHeader, f.userAgent)
	}

	f.recorder.RecordAttempt()
	start := time.Now()
	resp, err := f.doer.Do(httpReq)
	f.recorder.RecordLatency(time.Since(start))
	if err != nil {
		f.recorder.RecordFailure(metrics.ReasonTransport)
		return nil, err
	}

	f.recorder.RecordHTTPStatus(resp.StatusCode)
	return resp, nil
}

func fixedBackoff(delay time.Duration) retry.Backoff {
	if delay <= 0 {
		return retry.BackoffFunc(func() (time.Duration, bool) { return 0, false })
	}
	return retry.NewConstant(delay)
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == common.ContentTypeJSON || strings.HasSuffix(mt, "+json")
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
