// Package model contains domain models passed between layers.
package model

// EntityKind distinguishes the two rated entity populations. Driver and
// team ratings never mix: a driver is only ever compared to a driver and
// a team to a team.
type EntityKind string

// Entity kinds.
const (
	KindDriver EntityKind = "driver"
	KindTeam   EntityKind = "team"
)

// Entity is a rated participant: a driver or a team. Entities are created
// at import time and never deleted.
type Entity struct {
	ID          string     // stable identifier, unique within its kind
	Kind        EntityKind // driver or team
	Name        string     // display name, e.g. "Ayrton Senna"
	Nationality string     // nationality or base country
	DebutYear   int        // first season with a recorded result
	CurrentTeam string     // denormalized latest affiliation, display only
}
