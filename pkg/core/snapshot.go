// pkg/core/snapshot.go
package core

// DefaultReferenceID is the identifier the server gives the own ship.
const DefaultReferenceID = "OWN"

// Snapshot is one complete state push from the server. It is always
// applied as a whole; partial snapshots do not exist.
type Snapshot struct {
	Ships  []Ship  `json:"ships"`
	Alerts []Alert `json:"alerts"`
	Paused bool    `json:"is_paused"`
}

// Ship returns the ship with the given id.
func (s Snapshot) Ship(id string) (Ship, bool) {
	for _, sh := range s.Ships {
		if sh.ID == id {
			return sh, true
		}
	}
	return Ship{}, false
}

// Has reports whether a ship with the given id is present.
func (s Snapshot) Has(id string) bool {
	_, ok := s.Ship(id)
	return ok
}

// AlertFor returns the first alert targeting id.
func (s Snapshot) AlertFor(id string) (Alert, bool) {
	for _, a := range s.Alerts {
		if a.TargetID == id {
			return a, true
		}
	}
	return Alert{}, false
}

// RiskOf returns the risk level of the ship, RiskSafe when it has no alert.
func (s Snapshot) RiskOf(id string) RiskLevel {
	if a, ok := s.AlertFor(id); ok {
		return a.Level
	}
	return RiskSafe
}
