package playerfetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"lolharvest/collector/requests"
	"lolharvest/pkg/messages"
	"lolharvest/pkg/regions"
	queuevalues "lolharvest/pkg/riotvalues/queue"
)

// Maximum count accepted by the match listing endpoint. A page shorter
// than this terminates pagination for the queue.
const pageSize = 100

// PlayerFetcher resolves accounts and enumerates match ids.
type PlayerFetcher struct {
	pacer  requests.Pacer // Shared across the whole run.
	apiKey string

	// Host per routing region, swappable in tests.
	baseURL func(routing regions.Routing) string
}

// NewPlayerFetcher creates a player fetcher on the shared pacer.
func NewPlayerFetcher(pacer requests.Pacer, apiKey string) *PlayerFetcher {
	return &PlayerFetcher{
		pacer:  pacer,
		apiKey: apiKey,
		baseURL: func(routing regions.Routing) string {
			return routing.Host()
		},
	}
}

// ByRiotID resolves the puuid of a game name + tagline pair.
// Returns requests.ErrNotFound when the account does not exist.
func (p *PlayerFetcher) ByRiotID(ctx context.Context, routing regions.Routing, gameName string, tagLine string) (*Account, error) {
	reqURL := fmt.Sprintf(
		"%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		p.baseURL(routing),
		url.PathEscape(gameName),
		url.PathEscape(tagLine),
	)

	resp, err := requests.AuthRequestPaced(ctx, p.pacer, p.apiKey, reqURL, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("account %s#%s: %w", gameName, tagLine, requests.ErrNotFound)
	default:
		return nil, &requests.UpstreamError{StatusCode: resp.StatusCode, URL: reqURL}
	}

	var account Account
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, fmt.Errorf(messages.FailedToParseMsg+": %w", err)
	}

	return &account, nil
}

// MatchPage requests one page of match ids for a queue, starting at the
// given offset. The returned slice holds at most pageSize ids.
func (p *PlayerFetcher) MatchPage(ctx context.Context, routing regions.Routing, puuid string, queue int, start int) ([]string, error) {
	reqURL := fmt.Sprintf(
		"%s/lol/match/v5/matches/by-puuid/%s/ids",
		p.baseURL(routing),
		url.PathEscape(puuid),
	)
	params := map[string]string{
		"queue": strconv.Itoa(queue),
		"start": strconv.Itoa(start),
		"count": strconv.Itoa(pageSize),
	}

	resp, err := requests.AuthRequestPaced(ctx, p.pacer, p.apiKey, reqURL, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &requests.UpstreamError{StatusCode: resp.StatusCode, URL: reqURL}
	}

	var ids []string
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		return nil, fmt.Errorf(messages.FailedToParseMsg+": %w", err)
	}

	return ids, nil
}

// Discover enumerates every match id of the player across all tracked
// queues, in listing order. Pagination for one queue keeps requesting
// the next offset while pages come back full and stops on the first
// short page, including a empty first page.
//
// Any failed page aborts the whole discovery, so the caller never
// merges a partial listing.
func (p *PlayerFetcher) Discover(ctx context.Context, routing regions.Routing, puuid string) ([]string, error) {
	var discovered []string

	for _, queue := range queuevalues.TrackedQueues {
		for start := 0; ; start += pageSize {
			page, err := p.MatchPage(ctx, routing, puuid, queue, start)
			if err != nil {
				return nil, fmt.Errorf("queue %s (%d) listing failed: %w", queuevalues.Name(queue), queue, err)
			}

			discovered = append(discovered, page...)

			if len(page) < pageSize {
				break
			}
		}
	}

	return discovered, nil
}
