package storage

import (
	"os"
	"path/filepath"
	"regexp"
)

// Match record files are "<MATCH_ID>.json" where the id is a alphanumeric
// shard prefix, a underscore and a numeric suffix. Temp files from
// interrupted writes never match and are therefore never mistaken for
// fetched records.
var matchFilePattern = regexp.MustCompile(`^([A-Za-z0-9]+_[0-9]+)\.json$`)

// HasMatch reports whether the detail payload of the match is already
// on disk. This check is disk-derived on purpose: it holds regardless
// of what the in-memory state thinks.
func (s *Store) HasMatch(handle Handle, matchID string) bool {
	_, err := os.Stat(filepath.Join(s.matchesPath(handle), matchID+".json"))
	return err == nil
}

// WriteMatch persists the raw detail payload of one match, reporting
// the bytes written. Re-invoking for a id that is already on disk just
// replaces the file with the same content, which is safe.
func (s *Store) WriteMatch(handle Handle, matchID string, payload []byte) (int, error) {
	dir := s.matchesPath(handle)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, &StorageError{Op: "create matches folder", Path: dir, Err: err}
	}

	path := filepath.Join(dir, matchID+".json")
	if err := s.writeScoped(path, payload); err != nil {
		return 0, err
	}

	return len(payload), nil
}

// ReadMatch returns the persisted payload of one match.
func (s *Store) ReadMatch(handle Handle, matchID string) ([]byte, error) {
	path := filepath.Join(s.matchesPath(handle), matchID+".json")

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Op: "read match", Path: path, Err: err}
	}

	return payload, nil
}

// FetchedIDs scans the player's match folder and extracts the ids that
// already have a persisted record.
func (s *Store) FetchedIDs(handle Handle) (map[string]struct{}, error) {
	dir := s.matchesPath(handle)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]struct{}{}, nil
		}
		return nil, &StorageError{Op: "scan matches", Path: dir, Err: err}
	}

	fetched := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		groups := matchFilePattern.FindStringSubmatch(entry.Name())
		if groups == nil {
			continue
		}
		fetched[groups[1]] = struct{}{}
	}

	return fetched, nil
}

// Unfetched computes the delta between the known match ids and the
// records already on disk, preserving discovery order. Already
// persisted ids are never re-selected.
func (s *Store) Unfetched(identity *PlayerIdentity) ([]string, error) {
	fetched, err := s.FetchedIDs(identity.Handle)
	if err != nil {
		return nil, err
	}

	var pending []string
	for _, matchID := range identity.MatchesList {
		if _, ok := fetched[matchID]; ok {
			continue
		}
		pending = append(pending, matchID)
	}

	return pending, nil
}
