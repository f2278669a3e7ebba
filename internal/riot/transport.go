package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apierrors "github.com/OPGLOL/opgl-profile-service/internal/errors"
	"github.com/sethvargo/go-retry"
	"github.com/valyala/fasthttp"
)

const riotTokenHeader = "X-Riot-Token"

// RequestError is returned for every failed upstream request. A StatusCode of 0
// means the request never produced a response (transport fault).
// It always satisfies errors.Is(err, apierrors.ErrNotFound).
type RequestError struct {
	URL        string
	StatusCode int
	Err        error
}

func (requestError *RequestError) Error() string {
	if requestError.StatusCode == 0 {
		return fmt.Sprintf("request to %s failed: %v", requestError.URL, requestError.Err)
	}
	return fmt.Sprintf("request to %s returned status %d: %v", requestError.URL, requestError.StatusCode, requestError.Err)
}

func (requestError *RequestError) Unwrap() error {
	return requestError.Err
}

// Is reports every request failure as not found so callers can treat absence uniformly
func (requestError *RequestError) Is(target error) bool {
	return target == apierrors.ErrNotFound
}

// transport executes GET requests over a shared fasthttp client
type transport struct {
	client         *fasthttp.Client
	apiKey         string
	requestTimeout time.Duration
	maxRetries     uint64
	retryBase      time.Duration
}

func newTransport(apiKey string, requestTimeout time.Duration, maxRetries uint64) *transport {
	return &transport{
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         requestTimeout,
			WriteTimeout:        requestTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		apiKey:         apiKey,
		requestTimeout: requestTimeout,
		maxRetries:     maxRetries,
		retryBase:      200 * time.Millisecond,
	}
}

// deadline returns the earlier of the request timeout and the context deadline
func (t *transport) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(t.requestTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}

// doRequest fetches url and decodes the JSON body into T.
// Only transport faults are retried; any HTTP status other than 200 fails immediately,
// and so does a cancelled ctx.
func doRequest[T any](ctx context.Context, t *transport, url string) (*T, error) {
	var result *T

	backoff := retry.WithMaxRetries(t.maxRetries, retry.NewExponential(t.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		decoded, err := doRequestOnce[T](ctx, t, url)
		if err != nil {
			if err.StatusCode == 0 && ctx.Err() == nil {
				return retry.RetryableError(err)
			}
			return err
		}
		result = decoded
		return nil
	})
	if err != nil {
		var requestError *RequestError
		if errors.As(err, &requestError) {
			return nil, requestError
		}
		return nil, &RequestError{URL: url, Err: err}
	}

	return result, nil
}

// doRequestOnce performs a single GET. fasthttp only honours deadlines, so the
// call runs on its own goroutine and a cancelled ctx returns at once; req and
// resp are released only after that goroutine finished with them.
func doRequestOnce[T any](ctx context.Context, t *transport, url string) (*T, *RequestError) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if t.apiKey != "" {
		req.Header.Set(riotTokenHeader, t.apiKey)
	}

	done := make(chan error, 1)
	go func() {
		done <- t.client.DoDeadline(req, resp, t.deadline(ctx))
	}()

	select {
	case <-ctx.Done():
		go func() {
			<-done
			fasthttp.ReleaseRequest(req)
			fasthttp.ReleaseResponse(resp)
		}()
		return nil, &RequestError{URL: url, Err: ctx.Err()}
	case err := <-done:
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)
		if err != nil {
			return nil, &RequestError{URL: url, Err: err}
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, &RequestError{
			URL:        url,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode()),
		}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, &RequestError{
			URL:        url,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("failed to decode response: %w", err),
		}
	}

	return &result, nil
}
