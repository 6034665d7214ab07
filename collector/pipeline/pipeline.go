// Package pipeline wires a full collection run: roster resolution,
// discovery + delta fetching, aggregation and the warehouse load.
// Shared by the one-shot collector binary and the scheduler job.
package pipeline

import (
	"context"
	"fmt"

	"lolharvest/collector/aggregator"
	"lolharvest/collector/collection"
	matchfetcher "lolharvest/collector/data/match"
	playerfetcher "lolharvest/collector/data/player"
	"lolharvest/collector/governor"
	"lolharvest/collector/storage"
	"lolharvest/pkg/config"
	"lolharvest/pkg/database"
	"lolharvest/pkg/logger"
	"lolharvest/pkg/messages"
)

// Run executes one end-to-end collection run.
// Returns the run summary; the error is only non-nil for failures that
// aborted the run as a whole, per-player failures are inside Summary.
func Run(ctx context.Context, cfg *config.Config, log *logger.RunLogger) (collection.Summary, error) {
	store, err := storage.NewStore(cfg.DataRoot)
	if err != nil {
		return collection.Summary{}, err
	}

	// One governor for the whole run: the request budget is tied to
	// the API key, not to a single player.
	pacer := governor.New()
	players := playerfetcher.NewPlayerFetcher(pacer, cfg.ApiKey)
	matches := matchfetcher.NewMatchFetcher(pacer, cfg.ApiKey)

	manager := collection.NewManager(&collection.ManagerDeps{
		Store:    store,
		Accounts: players,
		Lists:    players,
		Details:  matches,
		Logger:   log,
	})

	accounts, err := collection.LoadAccounts(cfg.AccountsFile)
	if err != nil {
		return collection.Summary{}, err
	}

	fresh, resolveFailures := manager.EnsureRoster(ctx, accounts)

	roster, rosterFailures, err := store.LoadRoster()
	if err != nil {
		return collection.Summary{}, err
	}
	for _, failure := range rosterFailures {
		log.Errorf(messages.PlayerFailedMsg, failure.Folder, failure.Err)
	}

	summary := manager.RefreshAll(ctx, roster, cfg.AutoRefresh, fresh)
	summary.Failed += resolveFailures + len(rosterFailures)

	log.Infof(
		"Collection finished: %d players, %d newly discovered, %d fetched, %d skipped, %d failed.",
		summary.Players, summary.Discovered, summary.Fetched, summary.Skipped, summary.Failed,
	)

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	rows, err := aggregator.New(store, log).Run(roster)
	if err != nil {
		return summary, fmt.Errorf("aggregation failed: %w", err)
	}

	db, err := database.NewConnection(cfg.Warehouse)
	if err != nil {
		return summary, err
	}
	defer database.Close(db)

	written, err := database.ReplaceGames(db, rows)
	if err != nil {
		return summary, err
	}

	log.Infof("%d rows have been written to the games table.", written)

	return summary, nil
}
