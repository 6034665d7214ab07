package storage

import (
	"fmt"
	"strings"

	"lolharvest/pkg/regions"
)

// Handle is the external facing composite identifier of a player:
// display name plus discriminator tag. Also the storage key.
type Handle struct {
	GameName string
	TagLine  string
}

// String renders the folder form of the handle.
func (h Handle) String() string {
	return h.GameName + "#" + h.TagLine
}

// ParseHandle splits a folder name back into a handle.
func ParseHandle(folder string) (Handle, error) {
	name, tag, found := strings.Cut(folder, "#")
	if !found || name == "" || tag == "" {
		return Handle{}, fmt.Errorf("invalid player folder name %q", folder)
	}
	return Handle{GameName: name, TagLine: tag}, nil
}

// PlayerIdentity is the persisted identity of one tracked player.
// The match list only ever grows: ids are added on discovery and never
// removed, even when the upstream no longer serves their detail.
type PlayerIdentity struct {
	Handle Handle
	Region regions.Routing
	Puuid  string

	// Known match ids in discovery order.
	MatchesList []string

	// Membership index over MatchesList.
	known map[string]struct{}
}

// NewPlayerIdentity builds a fresh identity with no known matches.
func NewPlayerIdentity(handle Handle, region regions.Routing, puuid string) *PlayerIdentity {
	return &PlayerIdentity{
		Handle: handle,
		Region: region,
		Puuid:  puuid,
		known:  make(map[string]struct{}),
	}
}

// Knows reports whether the match id was already discovered.
func (p *PlayerIdentity) Knows(matchID string) bool {
	_, ok := p.known[matchID]
	return ok
}

// KnownCount returns the size of the known match set.
func (p *PlayerIdentity) KnownCount() int {
	return len(p.known)
}

// MergeDiscovered unions freshly discovered ids into the known set,
// keeping discovery order for the new ones. Returns how many were new.
func (p *PlayerIdentity) MergeDiscovered(ids []string) int {
	if p.known == nil {
		p.rebuildIndex()
	}

	added := 0
	for _, id := range ids {
		if _, ok := p.known[id]; ok {
			continue
		}
		p.known[id] = struct{}{}
		p.MatchesList = append(p.MatchesList, id)
		added++
	}
	return added
}

func (p *PlayerIdentity) rebuildIndex() {
	p.known = make(map[string]struct{}, len(p.MatchesList))
	for _, id := range p.MatchesList {
		p.known[id] = struct{}{}
	}
}

// identityRecord is the serialized form of a PlayerIdentity. The
// fields are listed explicitly so internal additions to the in-memory
// struct never leak into the on-disk contract.
type identityRecord struct {
	GameName    string   `json:"game_name"`
	TagLine     string   `json:"tag_line"`
	Region      string   `json:"region"`
	Puuid       string   `json:"puuid"`
	MatchesList []string `json:"matches_list"`
}

func toRecord(identity *PlayerIdentity) identityRecord {
	return identityRecord{
		GameName:    identity.Handle.GameName,
		TagLine:     identity.Handle.TagLine,
		Region:      string(identity.Region),
		Puuid:       identity.Puuid,
		MatchesList: identity.MatchesList,
	}
}

func fromRecord(record identityRecord) (*PlayerIdentity, error) {
	region, err := regions.Validate(record.Region)
	if err != nil {
		return nil, err
	}

	identity := &PlayerIdentity{
		Handle:      Handle{GameName: record.GameName, TagLine: record.TagLine},
		Region:      region,
		Puuid:       record.Puuid,
		MatchesList: record.MatchesList,
	}
	identity.rebuildIndex()

	return identity, nil
}
