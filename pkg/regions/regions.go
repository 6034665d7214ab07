package regions

import "fmt"

// Routing is one of the Riot routing values used by the account and
// match endpoints. Every configured player carries one.
type Routing string

const (
	Americas Routing = "americas"
	Europe   Routing = "europe"
	Asia     Routing = "asia"
	Sea      Routing = "sea"
)

// List of valid routing regions.
var RoutingList = []Routing{Americas, Europe, Asia, Sea}

// Validate checks a routing value coming from configuration.
func Validate(value string) (Routing, error) {
	for _, routing := range RoutingList {
		if string(routing) == value {
			return routing, nil
		}
	}
	return "", fmt.Errorf("invalid routing region %q", value)
}

// Host returns the API host for the routing region.
func (r Routing) Host() string {
	return fmt.Sprintf("https://%s.api.riotgames.com", r)
}
