package collection

import (
	"context"
	"testing"

	playerfetcher "lolharvest/collector/data/player"
	"lolharvest/collector/requests"
	"lolharvest/collector/storage"
	"lolharvest/pkg/regions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEnsureRosterResolvesNewPlayers(t *testing.T) {
	manager, store, accounts, _, _ := setupTestManager(t)

	accounts.On("ByRiotID", mock.Anything, regions.Europe, "ScanVisor", "EUW").
		Return(&playerfetcher.Account{Puuid: "puuid-1", GameName: "ScanVisor", TagLine: "EUW"}, nil)

	fresh, failed := manager.EnsureRoster(context.Background(), []ConfiguredAccount{
		{Name: "ScanVisor", Tag: "EUW", Region: "europe"},
	})

	assert.Equal(t, 0, failed)
	assert.Contains(t, fresh, "ScanVisor#EUW")
	accounts.AssertExpectations(t)

	handle := storage.Handle{GameName: "ScanVisor", TagLine: "EUW"}
	require.True(t, store.HasIdentity(handle))

	identity, err := store.LoadIdentity(handle)
	require.NoError(t, err)
	assert.Equal(t, "puuid-1", identity.Puuid)
	assert.Empty(t, identity.MatchesList)
}

func TestEnsureRosterLoadsExistingWithoutNetwork(t *testing.T) {
	manager, store, accounts, _, _ := setupTestManager(t)

	identity := storage.NewPlayerIdentity(storage.Handle{GameName: "ScanVisor", TagLine: "EUW"}, regions.Europe, "puuid-1")
	require.NoError(t, store.SaveIdentity(identity))

	fresh, failed := manager.EnsureRoster(context.Background(), []ConfiguredAccount{
		{Name: "ScanVisor", Tag: "EUW", Region: "europe"},
	})

	assert.Equal(t, 0, failed)
	assert.Empty(t, fresh)
	accounts.AssertNotCalled(t, "ByRiotID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureRosterFailuresDoNotAbort(t *testing.T) {
	manager, store, accounts, _, _ := setupTestManager(t)

	accounts.On("ByRiotID", mock.Anything, regions.Europe, "Ghost", "EUW").
		Return(nil, requests.ErrNotFound)
	accounts.On("ByRiotID", mock.Anything, regions.Americas, "GotSaveTheQueen", "NA1").
		Return(&playerfetcher.Account{Puuid: "puuid-2"}, nil)

	fresh, failed := manager.EnsureRoster(context.Background(), []ConfiguredAccount{
		{Name: "Ghost", Tag: "EUW", Region: "europe"},
		{Name: "Broken", Tag: "XX", Region: "not-a-region"},
		{Name: "GotSaveTheQueen", Tag: "NA1", Region: "americas"},
	})

	// The unresolvable and the misconfigured entries fail, the last
	// one still gets persisted.
	assert.Equal(t, 2, failed)
	assert.Contains(t, fresh, "GotSaveTheQueen#NA1")
	assert.True(t, store.HasIdentity(storage.Handle{GameName: "GotSaveTheQueen", TagLine: "NA1"}))
}

func TestRefreshAllResumesWithoutRefetching(t *testing.T) {
	manager, store, _, lists, details := setupTestManager(t)

	identity := storage.NewPlayerIdentity(storage.Handle{GameName: "ScanVisor", TagLine: "EUW"}, regions.Europe, "puuid-1")
	identity.MergeDiscovered([]string{"EUW1_1", "EUW1_2", "EUW1_3"})
	require.NoError(t, store.SaveIdentity(identity))

	// The first match is already on disk from a previous run.
	_, err := store.WriteMatch(identity.Handle, "EUW1_1", []byte(`{"info":{}}`))
	require.NoError(t, err)

	lists.On("Discover", mock.Anything, regions.Europe, "puuid-1").
		Return([]string{"EUW1_1", "EUW1_2", "EUW1_3"}, nil)
	details.On("Raw", mock.Anything, regions.Europe, "EUW1_2").
		Return([]byte(`{"info":{"a":2}}`), nil)
	details.On("Raw", mock.Anything, regions.Europe, "EUW1_3").
		Return([]byte(`{"info":{"a":3}}`), nil)

	roster := map[string]*storage.PlayerIdentity{"ScanVisor#EUW": identity}
	summary := manager.RefreshAll(context.Background(), roster, true, nil)

	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 2, summary.Fetched)

	// The already persisted match was never re-requested.
	details.AssertNotCalled(t, "Raw", mock.Anything, regions.Europe, "EUW1_1")

	pending, err := store.Unfetched(identity)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRefreshAllSkipsVanishedMatches(t *testing.T) {
	manager, store, _, lists, details := setupTestManager(t)

	identity := storage.NewPlayerIdentity(storage.Handle{GameName: "ScanVisor", TagLine: "EUW"}, regions.Europe, "puuid-1")
	require.NoError(t, store.SaveIdentity(identity))

	lists.On("Discover", mock.Anything, regions.Europe, "puuid-1").
		Return([]string{"EUW1_1", "EUW1_2"}, nil)
	details.On("Raw", mock.Anything, regions.Europe, "EUW1_1").
		Return(nil, requests.ErrNotFound)
	details.On("Raw", mock.Anything, regions.Europe, "EUW1_2").
		Return([]byte(`{"info":{}}`), nil)

	roster := map[string]*storage.PlayerIdentity{"ScanVisor#EUW": identity}
	summary := manager.RefreshAll(context.Background(), roster, true, nil)

	// A vanished match is terminal but not fatal.
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Fetched)

	assert.False(t, store.HasMatch(identity.Handle, "EUW1_1"))
	assert.True(t, store.HasMatch(identity.Handle, "EUW1_2"))

	// The vanished id stays known but unfetchable.
	loaded, err := store.LoadIdentity(identity.Handle)
	require.NoError(t, err)
	assert.True(t, loaded.Knows("EUW1_1"))
}

func TestRefreshAllContinuesPastFailedPlayer(t *testing.T) {
	manager, store, _, lists, details := setupTestManager(t)

	broken := storage.NewPlayerIdentity(storage.Handle{GameName: "Broken", TagLine: "EUW"}, regions.Europe, "puuid-1")
	require.NoError(t, store.SaveIdentity(broken))

	healthy := storage.NewPlayerIdentity(storage.Handle{GameName: "ScanVisor", TagLine: "EUW"}, regions.Europe, "puuid-2")
	require.NoError(t, store.SaveIdentity(healthy))

	lists.On("Discover", mock.Anything, regions.Europe, "puuid-1").
		Return(nil, &requests.UpstreamError{StatusCode: 502, URL: "test"})
	lists.On("Discover", mock.Anything, regions.Europe, "puuid-2").
		Return([]string{"EUW1_9"}, nil)
	details.On("Raw", mock.Anything, regions.Europe, "EUW1_9").
		Return([]byte(`{"info":{}}`), nil)

	roster := map[string]*storage.PlayerIdentity{
		"Broken#EUW":    broken,
		"ScanVisor#EUW": healthy,
	}
	summary := manager.RefreshAll(context.Background(), roster, true, nil)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Fetched)
	assert.True(t, store.HasMatch(healthy.Handle, "EUW1_9"))

	// Nothing was merged into the failed player's identity.
	loaded, err := store.LoadIdentity(broken.Handle)
	require.NoError(t, err)
	assert.Empty(t, loaded.MatchesList)
}

func TestRefreshAllWithoutDiscoverOnlyFetchesDeltas(t *testing.T) {
	manager, store, _, lists, details := setupTestManager(t)

	identity := storage.NewPlayerIdentity(storage.Handle{GameName: "ScanVisor", TagLine: "EUW"}, regions.Europe, "puuid-1")
	identity.MergeDiscovered([]string{"EUW1_1"})
	require.NoError(t, store.SaveIdentity(identity))

	details.On("Raw", mock.Anything, regions.Europe, "EUW1_1").
		Return([]byte(`{"info":{}}`), nil)

	roster := map[string]*storage.PlayerIdentity{"ScanVisor#EUW": identity}
	summary := manager.RefreshAll(context.Background(), roster, false, nil)

	assert.Equal(t, 1, summary.Fetched)
	lists.AssertNotCalled(t, "Discover", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefreshAllFreshPlayerGetsFirstDiscovery(t *testing.T) {
	manager, store, _, lists, _ := setupTestManager(t)

	identity := storage.NewPlayerIdentity(storage.Handle{GameName: "ScanVisor", TagLine: "EUW"}, regions.Europe, "puuid-1")
	require.NoError(t, store.SaveIdentity(identity))

	lists.On("Discover", mock.Anything, regions.Europe, "puuid-1").
		Return([]string{}, nil)

	roster := map[string]*storage.PlayerIdentity{"ScanVisor#EUW": identity}
	fresh := map[string]struct{}{"ScanVisor#EUW": {}}
	summary := manager.RefreshAll(context.Background(), roster, false, fresh)

	// Freshly resolved players are listed even without a refresh.
	assert.Equal(t, 0, summary.Failed)
	lists.AssertExpectations(t)
}

func TestRefreshAllEmptyHistoryNotRelisted(t *testing.T) {
	manager, store, _, lists, _ := setupTestManager(t)

	// A player discovered on an earlier run who simply has no matches
	// in the tracked queues.
	identity := storage.NewPlayerIdentity(storage.Handle{GameName: "ScanVisor", TagLine: "EUW"}, regions.Europe, "puuid-1")
	require.NoError(t, store.SaveIdentity(identity))

	roster := map[string]*storage.PlayerIdentity{"ScanVisor#EUW": identity}
	summary := manager.RefreshAll(context.Background(), roster, false, nil)

	assert.Equal(t, 0, summary.Failed)
	lists.AssertNotCalled(t, "Discover", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefreshAllKnownSetGrowsMonotonically(t *testing.T) {
	manager, store, _, lists, details := setupTestManager(t)

	identity := storage.NewPlayerIdentity(storage.Handle{GameName: "ScanVisor", TagLine: "EUW"}, regions.Europe, "puuid-1")
	identity.MergeDiscovered([]string{"EUW1_1", "EUW1_2"})
	require.NoError(t, store.SaveIdentity(identity))

	// The upstream stopped listing EUW1_1 but reports a new match.
	lists.On("Discover", mock.Anything, regions.Europe, "puuid-1").
		Return([]string{"EUW1_2", "EUW1_3"}, nil)
	details.On("Raw", mock.Anything, regions.Europe, mock.Anything).
		Return([]byte(`{"info":{}}`), nil)

	roster := map[string]*storage.PlayerIdentity{"ScanVisor#EUW": identity}
	manager.RefreshAll(context.Background(), roster, true, nil)

	loaded, err := store.LoadIdentity(identity.Handle)
	require.NoError(t, err)
	assert.Equal(t, []string{"EUW1_1", "EUW1_2", "EUW1_3"}, loaded.MatchesList)
}

func TestRefreshAllStopsOnCancellation(t *testing.T) {
	manager, store, _, lists, _ := setupTestManager(t)

	identity := storage.NewPlayerIdentity(storage.Handle{GameName: "ScanVisor", TagLine: "EUW"}, regions.Europe, "puuid-1")
	require.NoError(t, store.SaveIdentity(identity))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	roster := map[string]*storage.PlayerIdentity{"ScanVisor#EUW": identity}
	summary := manager.RefreshAll(ctx, roster, true, nil)

	// A cancelled run is not a failure and issues no requests.
	assert.Equal(t, 0, summary.Failed)
	lists.AssertNotCalled(t, "Discover", mock.Anything, mock.Anything, mock.Anything)
}
