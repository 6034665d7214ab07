package messages

const (
	BadStatusCodeMsg = "API returned status code %d on URL %s"
	FailedToParseMsg = "failed to parse API response"
	RequestFailedMsg = "API request failed on URL %s"

	AccountNotFoundMsg  = "account %s#%s was not found on region %s"
	MatchSkippedMsg     = "match %s no longer exists upstream, skipping"
	PlayerFailedMsg     = "player %s failed: %v"
	StorageOperationMsg = "storage operation %s failed on %s"
)
