// Package collection orchestrates the roster traversal: identity
// resolution, match discovery, delta computation and detail fetching.
// Execution is strictly sequential, one player at a time, because the
// request budget is shared across the whole run.
package collection

import (
	"context"
	"errors"
	"sort"

	playerfetcher "lolharvest/collector/data/player"
	"lolharvest/collector/requests"
	"lolharvest/collector/storage"
	"lolharvest/pkg/logger"
	"lolharvest/pkg/messages"
	"lolharvest/pkg/regions"
)

// AccountResolver resolves a handle into a puuid.
type AccountResolver interface {
	ByRiotID(ctx context.Context, routing regions.Routing, gameName string, tagLine string) (*playerfetcher.Account, error)
}

// MatchLister enumerates all match ids of a player.
type MatchLister interface {
	Discover(ctx context.Context, routing regions.Routing, puuid string) ([]string, error)
}

// MatchGetter retrieves one raw match detail payload.
type MatchGetter interface {
	Raw(ctx context.Context, routing regions.Routing, matchID string) ([]byte, error)
}

// ManagerDeps lists the collaborators of the collection manager.
type ManagerDeps struct {
	Store    *storage.Store
	Accounts AccountResolver
	Lists    MatchLister
	Details  MatchGetter
	Logger   *logger.RunLogger
}

// Manager walks the full roster.
type Manager struct {
	store    *storage.Store
	accounts AccountResolver
	lists    MatchLister
	details  MatchGetter
	log      *logger.RunLogger
}

// Summary accumulates what happened during one run.
type Summary struct {
	Players    int
	Discovered int
	Fetched    int
	Skipped    int
	Failed     int
}

// NewManager creates the collection manager.
func NewManager(deps *ManagerDeps) *Manager {
	return &Manager{
		store:    deps.Store,
		accounts: deps.Accounts,
		lists:    deps.Lists,
		details:  deps.Details,
		log:      deps.Logger,
	}
}

// EnsureRoster makes sure every configured account has a persisted
// identity, resolving the puuid for the ones seen for the first time.
// Already persisted identities are left untouched, no network involved.
// A failed resolution is logged and skipped, it never aborts the rest.
// The returned set holds the handles resolved during this call, so the
// caller can give them their first discovery regardless of the refresh
// setting.
func (m *Manager) EnsureRoster(ctx context.Context, configured []ConfiguredAccount) (map[string]struct{}, int) {
	fresh := make(map[string]struct{})
	failed := 0

	for _, account := range configured {
		if err := ctx.Err(); err != nil {
			return fresh, failed
		}

		handle := storage.Handle{GameName: account.Name, TagLine: account.Tag}

		routing, err := regions.Validate(account.Region)
		if err != nil {
			m.log.Errorf(messages.PlayerFailedMsg, handle, err)
			failed++
			continue
		}

		if m.store.HasIdentity(handle) {
			continue
		}

		resolved, err := m.accounts.ByRiotID(ctx, routing, account.Name, account.Tag)
		if err != nil {
			if errors.Is(err, requests.ErrNotFound) {
				m.log.Errorf(messages.AccountNotFoundMsg, account.Name, account.Tag, routing)
			} else {
				m.log.Errorf(messages.PlayerFailedMsg, handle, err)
			}
			failed++
			continue
		}

		identity := storage.NewPlayerIdentity(handle, routing, resolved.Puuid)
		if err := m.store.SaveIdentity(identity); err != nil {
			m.log.Errorf(messages.PlayerFailedMsg, handle, err)
			failed++
			continue
		}

		fresh[handle.String()] = struct{}{}
		m.log.Infof("Resolved new player %s (%s).", handle, routing)
	}

	return fresh, failed
}

// RefreshAll processes every roster entry in a stable order: discovery,
// identity persist, delta fetch. One player's failure is logged and the
// loop moves on, the shared pacer keeps its counter across players.
// Players in the fresh set get their first discovery even when no
// refresh was requested.
func (m *Manager) RefreshAll(ctx context.Context, roster map[string]*storage.PlayerIdentity, discover bool, fresh map[string]struct{}) Summary {
	summary := Summary{Players: len(roster)}

	handles := make([]string, 0, len(roster))
	for handle := range roster {
		handles = append(handles, handle)
	}
	sort.Strings(handles)

	for _, handle := range handles {
		if ctx.Err() != nil {
			break
		}

		identity := roster[handle]
		m.log.Infof("Starting refreshing player: %s", handle)

		// Freshly resolved players always get their first discovery,
		// known ones only when a refresh was requested. A player with a
		// genuinely empty match history is not re-listed every run.
		_, firstRun := fresh[handle]
		runDiscovery := discover || firstRun

		if err := m.refreshPlayer(ctx, identity, runDiscovery, &summary); err != nil {
			// A cancelled run is not a player failure.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				break
			}
			m.log.Errorf(messages.PlayerFailedMsg, handle, err)
			summary.Failed++
		}

		m.log.EmptyLine()
	}

	return summary
}

// Refresh one player: union newly discovered ids into the known set,
// persist, then fetch each missing match in listing order.
func (m *Manager) refreshPlayer(ctx context.Context, identity *storage.PlayerIdentity, discover bool, summary *Summary) error {
	if discover {
		ids, err := m.lists.Discover(ctx, identity.Region, identity.Puuid)
		if err != nil {
			return err
		}

		added := identity.MergeDiscovered(ids)
		summary.Discovered += added

		if err := m.store.SaveIdentity(identity); err != nil {
			return err
		}

		m.log.Infof("Discovery for %s: %d known matches, %d new.", identity.Handle, identity.KnownCount(), added)
	}

	pending, err := m.store.Unfetched(identity)
	if err != nil {
		return err
	}

	m.log.Infof("Player %s has %d matches to fetch.", identity.Handle, len(pending))

	for _, matchID := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Disk state wins over any in-memory bookkeeping.
		if m.store.HasMatch(identity.Handle, matchID) {
			continue
		}

		payload, err := m.details.Raw(ctx, identity.Region, matchID)
		if err != nil {
			if errors.Is(err, requests.ErrNotFound) {
				// Permanently skippable: stays known but unfetchable.
				m.log.Infof(messages.MatchSkippedMsg, matchID)
				summary.Skipped++
				continue
			}
			return err
		}

		written, err := m.store.WriteMatch(identity.Handle, matchID, payload)
		if err != nil {
			return err
		}

		summary.Fetched++
		m.log.Infof("Fetched match %s for %s (%d bytes).", matchID, identity.Handle, written)
	}

	return nil
}
