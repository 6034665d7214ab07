package matchfetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"lolharvest/collector/requests"
	"lolharvest/pkg/regions"
)

// MatchFetcher retrieves raw match detail payloads.
type MatchFetcher struct {
	pacer  requests.Pacer // Shared across the whole run.
	apiKey string

	baseURL func(routing regions.Routing) string
}

// NewMatchFetcher creates a match fetcher on the shared pacer.
func NewMatchFetcher(pacer requests.Pacer, apiKey string) *MatchFetcher {
	return &MatchFetcher{
		pacer:  pacer,
		apiKey: apiKey,
		baseURL: func(routing regions.Routing) string {
			return routing.Host()
		},
	}
}

// Raw fetches the detail payload of one match as returned by the API.
// The payload stays opaque here, only the persistence and aggregation
// layers look inside it. Returns requests.ErrNotFound for matches the
// upstream no longer has.
func (m *MatchFetcher) Raw(ctx context.Context, routing regions.Routing, matchID string) ([]byte, error) {
	reqURL := fmt.Sprintf(
		"%s/lol/match/v5/matches/%s",
		m.baseURL(routing),
		url.PathEscape(matchID),
	)

	resp, err := requests.AuthRequestPaced(ctx, m.pacer, m.apiKey, reqURL, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("match %s: %w", matchID, requests.ErrNotFound)
	default:
		return nil, &requests.UpstreamError{StatusCode: resp.StatusCode, URL: reqURL}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading match %s payload: %w", matchID, err)
	}

	return payload, nil
}
