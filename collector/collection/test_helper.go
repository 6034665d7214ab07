package collection

import (
	"context"
	"testing"

	playerfetcher "lolharvest/collector/data/player"
	"lolharvest/collector/storage"
	"lolharvest/pkg/logger"
	"lolharvest/pkg/regions"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock for the account resolver.
type MockAccountResolver struct {
	mock.Mock
}

func (m *MockAccountResolver) ByRiotID(ctx context.Context, routing regions.Routing, gameName string, tagLine string) (*playerfetcher.Account, error) {
	args := m.Called(ctx, routing, gameName, tagLine)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*playerfetcher.Account), args.Error(1)
}

// Mock for the match lister.
type MockMatchLister struct {
	mock.Mock
}

func (m *MockMatchLister) Discover(ctx context.Context, routing regions.Routing, puuid string) ([]string, error) {
	args := m.Called(ctx, routing, puuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Mock for the match detail getter.
type MockMatchGetter struct {
	mock.Mock
}

func (m *MockMatchGetter) Raw(ctx context.Context, routing regions.Routing, matchID string) ([]byte, error) {
	args := m.Called(ctx, routing, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Helper to initialize a manager over a real store in a temp dir.
func setupTestManager(t *testing.T) (*Manager, *storage.Store, *MockAccountResolver, *MockMatchLister, *MockMatchGetter) {
	t.Helper()

	store, err := storage.NewStore(t.TempDir())
	require.NoError(t, err)

	runLog, err := logger.NewRunLogger()
	require.NoError(t, err)
	t.Cleanup(func() { runLog.Close() })

	accounts := new(MockAccountResolver)
	lists := new(MockMatchLister)
	details := new(MockMatchGetter)

	manager := NewManager(&ManagerDeps{
		Store:    store,
		Accounts: accounts,
		Lists:    lists,
		Details:  details,
		Logger:   runLog,
	})

	return manager, store, accounts, lists, details
}
