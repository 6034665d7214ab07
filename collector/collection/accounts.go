package collection

import (
	"encoding/json"
	"fmt"
	"os"
)

// ConfiguredAccount is one roster entry from the accounts file.
type ConfiguredAccount struct {
	Name   string `json:"name"`
	Tag    string `json:"tag"`
	Region string `json:"region"`
}

// LoadAccounts reads the configured roster from a JSON file.
func LoadAccounts(path string) ([]ConfiguredAccount, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read the accounts file %s: %w", path, err)
	}

	var accounts []ConfiguredAccount
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("couldn't parse the accounts file %s: %w", path, err)
	}

	return accounts, nil
}
