// Package aggregator flattens the raw match records into the tabular
// dataset loaded into the warehouse: one row per (player, match),
// pairing the match metadata with that player's participant entry.
package aggregator

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"lolharvest/collector/storage"
	"lolharvest/pkg/database/models"
	"lolharvest/pkg/logger"
)

const datasetFile = "aggregate_data.csv"

// Aggregator reads the raw layer and produces the trusted dataset.
type Aggregator struct {
	store *storage.Store
	log   *logger.RunLogger
}

// New creates a aggregator over the given store.
func New(store *storage.Store, log *logger.RunLogger) *Aggregator {
	return &Aggregator{
		store: store,
		log:   log,
	}
}

// Run builds the flat rows for the whole roster and writes the CSV
// artifact to the trusted layer. Returns the rows for the bulk load.
func (a *Aggregator) Run(roster map[string]*storage.PlayerIdentity) ([]models.GameRow, error) {
	rows, err := a.BuildRows(roster)
	if err != nil {
		return nil, err
	}

	if err := a.writeCSV(rows, a.store.TrustedPath(datasetFile)); err != nil {
		return nil, err
	}

	return rows, nil
}

// BuildRows flattens every persisted match of every roster player.
// Matches whose payload does not contain the player's own participant
// entry are logged and skipped, matching the collection contract that
// only well-formed records make it downstream.
func (a *Aggregator) BuildRows(roster map[string]*storage.PlayerIdentity) ([]models.GameRow, error) {
	handles := make([]string, 0, len(roster))
	for handle := range roster {
		handles = append(handles, handle)
	}
	sort.Strings(handles)

	var rows []models.GameRow
	for _, handle := range handles {
		identity := roster[handle]

		fetched, err := a.store.FetchedIDs(identity.Handle)
		if err != nil {
			return nil, err
		}

		matchIDs := make([]string, 0, len(fetched))
		for matchID := range fetched {
			matchIDs = append(matchIDs, matchID)
		}
		sort.Strings(matchIDs)

		for _, matchID := range matchIDs {
			row, ok, err := a.flattenMatch(identity, matchID)
			if err != nil {
				return nil, err
			}
			if !ok {
				a.log.Errorf("Couldn't find participant data of %s in match %s, disregarding game.", handle, matchID)
				continue
			}
			rows = append(rows, row)
		}
	}

	return rows, nil
}

// Flatten one match for one player. The second return is false when
// the player's participant entry is missing from the payload.
func (a *Aggregator) flattenMatch(identity *storage.PlayerIdentity, matchID string) (models.GameRow, bool, error) {
	payload, err := a.store.ReadMatch(identity.Handle, matchID)
	if err != nil {
		return models.GameRow{}, false, err
	}

	var match matchPayload
	if err := json.Unmarshal(payload, &match); err != nil {
		return models.GameRow{}, false, fmt.Errorf("match %s payload is not valid JSON: %w", matchID, err)
	}

	for _, participant := range match.Info.Participants {
		if participant.Puuid != identity.Puuid {
			continue
		}

		return models.GameRow{
			SummonerFolder:       identity.Handle.String(),
			MatchID:              matchID,
			GameCreation:         match.Info.GameCreation,
			GameDuration:         match.Info.GameDuration,
			GameMode:             match.Info.GameMode,
			GameVersion:          match.Info.GameVersion,
			QueueID:              match.Info.QueueID,
			PlatformID:           match.Info.PlatformID,
			ChampionID:           participant.ChampionID,
			ChampionName:         participant.ChampionName,
			TeamPosition:         participant.TeamPosition,
			Win:                  participant.Win,
			Kills:                participant.Kills,
			Deaths:               participant.Deaths,
			Assists:              participant.Assists,
			GoldEarned:           participant.GoldEarned,
			TotalDamageDealt:     participant.TotalDamageDealt,
			TotalMinionsKilled:   participant.TotalMinionsKilled,
			NeutralMinionsKilled: participant.NeutralMinionsKilled,
			VisionScore:          participant.VisionScore,
			WardsPlaced:          participant.WardsPlaced,
		}, true, nil
	}

	return models.GameRow{}, false, nil
}

var csvHeader = []string{
	"summoner_folder", "match_id",
	"game_creation", "game_duration", "game_mode", "game_version", "queue_id", "platform_id",
	"champion_id", "champion_name", "team_position", "win",
	"kills", "deaths", "assists", "gold_earned",
	"total_damage_dealt_to_champions", "total_minions_killed", "neutral_minions_killed",
	"vision_score", "wards_placed",
}

func csvRecord(row models.GameRow) []string {
	return []string{
		row.SummonerFolder, row.MatchID,
		strconv.FormatInt(row.GameCreation, 10),
		strconv.Itoa(row.GameDuration),
		row.GameMode, row.GameVersion,
		strconv.Itoa(row.QueueID), row.PlatformID,
		strconv.Itoa(row.ChampionID), row.ChampionName, row.TeamPosition,
		strconv.FormatBool(row.Win),
		strconv.Itoa(row.Kills), strconv.Itoa(row.Deaths), strconv.Itoa(row.Assists),
		strconv.Itoa(row.GoldEarned),
		strconv.Itoa(row.TotalDamageDealt), strconv.Itoa(row.TotalMinionsKilled),
		strconv.Itoa(row.NeutralMinionsKilled),
		strconv.Itoa(row.VisionScore), strconv.Itoa(row.WardsPlaced),
	}
}

// Write the dataset artifact.
func (a *Aggregator) writeCSV(rows []models.GameRow, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("couldn't create the dataset file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("couldn't write the dataset header: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write(csvRecord(row)); err != nil {
			return fmt.Errorf("couldn't write a dataset row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("couldn't flush the dataset file: %w", err)
	}

	return file.Sync()
}
