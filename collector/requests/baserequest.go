package requests

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"lolharvest/pkg/messages"
)

// Pacer enforces the shared request budget. A single instance is
// shared across every outgoing request of a whole collection run.
type Pacer interface {
	// Acquire blocks until the next request may be issued.
	Acquire(ctx context.Context) error
	// Backoff waits out the cool-down after a throttled response.
	Backoff(ctx context.Context) error
}

var httpClient = &http.Client{}

// AuthRequest does a authenticated GET request to the Riot API, the
// only method the collection endpoints use.
// Returns the response with the body still open.
func AuthRequest(ctx context.Context, apiKey string, rawURL string, params map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	if len(params) != 0 {
		query := url.Values{}
		for key, value := range params {
			query.Set(key, value)
		}
		req.URL.RawQuery = query.Encode()
	}

	// Add the token from the .env.
	req.Header.Set("X-Riot-Token", apiKey)
	return httpClient.Do(req)
}

// AuthRequestPaced issues a authenticated request through the pacer.
// A throttled response triggers exactly one backoff and retry, a second
// throttle escalates to a UpstreamError. The retry counts against the
// request budget like any other request.
func AuthRequestPaced(ctx context.Context, pacer Pacer, apiKey string, rawURL string, params map[string]string) (*http.Response, error) {
	resp, err := pacedOnce(ctx, pacer, apiKey, rawURL, params)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusTooManyRequests {
		return resp, nil
	}
	resp.Body.Close()

	if err := pacer.Backoff(ctx); err != nil {
		return nil, err
	}

	resp, err = pacedOnce(ctx, pacer, apiKey, rawURL, params)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		return nil, &UpstreamError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	return resp, nil
}

func pacedOnce(ctx context.Context, pacer Pacer, apiKey string, rawURL string, params map[string]string) (*http.Response, error) {
	if err := pacer.Acquire(ctx); err != nil {
		return nil, err
	}

	resp, err := AuthRequest(ctx, apiKey, rawURL, params)
	if err != nil {
		return nil, fmt.Errorf(messages.RequestFailedMsg+": %w", rawURL, err)
	}

	return resp, nil
}
