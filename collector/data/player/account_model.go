package playerfetcher

// Account is the return of the account-v1 by-riot-id endpoint.
type Account struct {
	Puuid    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}
