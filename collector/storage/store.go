// Package storage owns the on-disk state of the collector: one folder
// per player under the raw layer, holding the identity file and the
// fetched match records.
//
// Layout:
//
//	<root>/raw/<Name#Tag>/identity.json
//	<root>/raw/<Name#Tag>/matches/<MATCH_ID>.json
//	<root>/trd/  aggregated dataset
//	<root>/rfd/  warehouse file
//
// Every write goes through write-temp-then-rename, so a crash mid-write
// never leaves a file that passes the "already there" checks.
package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
)

const (
	identityFile = "identity.json"
	matchesDir   = "matches"

	rawLayer     = "raw"
	trustedLayer = "trd"
	refinedLayer = "rfd"
)

// Player folders are recognized by the name#tag shape.
var handlePattern = regexp.MustCompile(`^.{1,20}#.{2,6}$`)

// Store scopes all reads and writes under one data root.
type Store struct {
	root string
}

// NewStore creates the data layers if missing and returns the store.
func NewStore(root string) (*Store, error) {
	for _, layer := range []string{rawLayer, trustedLayer, refinedLayer} {
		path := filepath.Join(root, layer)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, &StorageError{Op: "create layer", Path: path, Err: err}
		}
	}

	return &Store{root: root}, nil
}

// Root returns the data root the store was opened on.
func (s *Store) Root() string {
	return s.root
}

// TrustedPath returns the location of a trusted-layer artifact.
func (s *Store) TrustedPath(name string) string {
	return filepath.Join(s.root, trustedLayer, name)
}

func (s *Store) playerDir(handle Handle) string {
	return filepath.Join(s.root, rawLayer, handle.String())
}

func (s *Store) matchesPath(handle Handle) string {
	return filepath.Join(s.playerDir(handle), matchesDir)
}

// HasIdentity reports whether the player was already persisted.
func (s *Store) HasIdentity(handle Handle) bool {
	_, err := os.Stat(filepath.Join(s.playerDir(handle), identityFile))
	return err == nil
}

// LoadIdentity reads a persisted identity verbatim, including the known
// match list. No network involved.
func (s *Store) LoadIdentity(handle Handle) (*PlayerIdentity, error) {
	path := filepath.Join(s.playerDir(handle), identityFile)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Op: "read identity", Path: path, Err: err}
	}

	var record identityRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, &StorageError{Op: "decode identity", Path: path, Err: err}
	}

	identity, err := fromRecord(record)
	if err != nil {
		return nil, &StorageError{Op: "decode identity", Path: path, Err: err}
	}

	return identity, nil
}

// SaveIdentity persists the identity, replacing any prior version.
// The write lands in a temporary file first and is renamed into place,
// so a crash mid-write cannot corrupt the previous state.
func (s *Store) SaveIdentity(identity *PlayerIdentity) error {
	dir := s.playerDir(identity.Handle)
	if err := os.MkdirAll(s.matchesPath(identity.Handle), 0o755); err != nil {
		return &StorageError{Op: "create player folder", Path: dir, Err: err}
	}

	payload, err := json.Marshal(toRecord(identity))
	if err != nil {
		return &StorageError{Op: "encode identity", Path: dir, Err: err}
	}

	return s.writeScoped(filepath.Join(dir, identityFile), payload)
}

// RosterFailure is one player folder whose identity could not be
// loaded during the roster scan.
type RosterFailure struct {
	Folder string
	Err    error
}

// LoadRoster scans the raw layer for player folders and loads every
// identity found. Folders not matching the handle shape are ignored.
// An unreadable or corrupt identity fails only its own entry: the scan
// keeps going and the failures come back alongside the healthy roster.
func (s *Store) LoadRoster() (map[string]*PlayerIdentity, []RosterFailure, error) {
	rawPath := filepath.Join(s.root, rawLayer)

	entries, err := os.ReadDir(rawPath)
	if err != nil {
		return nil, nil, &StorageError{Op: "scan roster", Path: rawPath, Err: err}
	}

	roster := make(map[string]*PlayerIdentity)
	var failures []RosterFailure
	for _, entry := range entries {
		if !entry.IsDir() || !handlePattern.MatchString(entry.Name()) {
			continue
		}

		handle, err := ParseHandle(entry.Name())
		if err != nil {
			continue
		}

		identity, err := s.LoadIdentity(handle)
		if err != nil {
			failures = append(failures, RosterFailure{Folder: entry.Name(), Err: err})
			continue
		}

		roster[handle.String()] = identity
	}

	return roster, failures, nil
}

// Write a file atomically from the caller's perspective: temp file in
// the destination directory, then rename over the final name.
func (s *Store) writeScoped(path string, payload []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return &StorageError{Op: "create temp file", Path: dir, Err: err}
	}

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &StorageError{Op: "write temp file", Path: tmp.Name(), Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &StorageError{Op: "close temp file", Path: tmp.Name(), Err: err}
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return &StorageError{Op: "rename temp file", Path: path, Err: err}
	}

	return nil
}

// IsNotExist reports whether the error wraps a missing file condition.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
