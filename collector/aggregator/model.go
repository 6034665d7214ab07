package aggregator

// Slim view over a persisted match payload: only the fields carried
// into the flat dataset are decoded, everything else stays on disk.
type matchPayload struct {
	Info matchInfo `json:"info"`
}

type matchInfo struct {
	GameCreation int64              `json:"gameCreation"`
	GameDuration int                `json:"gameDuration"`
	GameMode     string             `json:"gameMode"`
	GameVersion  string             `json:"gameVersion"`
	QueueID      int                `json:"queueId"`
	PlatformID   string             `json:"platformId"`
	Participants []matchParticipant `json:"participants"`
}

type matchParticipant struct {
	Puuid                string `json:"puuid"`
	ChampionID           int    `json:"championId"`
	ChampionName         string `json:"championName"`
	TeamPosition         string `json:"teamPosition"`
	Win                  bool   `json:"win"`
	Kills                int    `json:"kills"`
	Deaths               int    `json:"deaths"`
	Assists              int    `json:"assists"`
	GoldEarned           int    `json:"goldEarned"`
	TotalDamageDealt     int    `json:"totalDamageDealtToChampions"`
	TotalMinionsKilled   int    `json:"totalMinionsKilled"`
	NeutralMinionsKilled int    `json:"neutralMinionsKilled"`
	VisionScore          int    `json:"visionScore"`
	WardsPlaced          int    `json:"wardsPlaced"`
}
