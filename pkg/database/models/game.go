package models

// GameRow is one flattened row of the aggregated dataset: the match
// level fields paired with the roster player's own participant entry.
// This is the exact shape of the warehouse "games" table.
type GameRow struct {
	ID uint `gorm:"primaryKey"`

	SummonerFolder string `gorm:"index"`
	MatchID        string `gorm:"index"`

	// Match level fields.
	GameCreation int64
	GameDuration int
	GameMode     string
	GameVersion  string
	QueueID      int
	PlatformID   string

	// Participant fields of the roster player.
	ChampionID           int
	ChampionName         string
	TeamPosition         string
	Win                  bool
	Kills                int
	Deaths               int
	Assists              int
	GoldEarned           int
	TotalDamageDealt     int
	TotalMinionsKilled   int
	NeutralMinionsKilled int
	VisionScore          int
	WardsPlaced          int
}

// TableName keeps the destination table name stable.
func (GameRow) TableName() string {
	return "games"
}
