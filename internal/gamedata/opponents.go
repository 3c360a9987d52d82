package gamedata

import "errors"

// OpponentDef is a preset foe. Its stats are derived from Level when the
// opponent is built for a battle.
type OpponentDef struct {
	SpeciesID int      `json:"speciesId"`
	Name      string   `json:"name"`
	Level     int      `json:"level"`
	Types     []string `json:"types"`
}

// OpponentsFile represents the structure of opponents.json.
type OpponentsFile struct {
	Opponents []OpponentDef `json:"opponents"`
}

// OpponentRegistry holds the preset opponent roster in display order.
type OpponentRegistry struct {
	opponents []OpponentDef
}

// NewOpponentRegistry creates a registry from loaded opponent definitions.
func NewOpponentRegistry(opponents []OpponentDef) *OpponentRegistry {
	return &OpponentRegistry{opponents: opponents}
}

// LoadOpponentRegistry loads and creates a registry from the embedded opponents.json.
func LoadOpponentRegistry() (*OpponentRegistry, error) {
	file, err := Load[OpponentsFile]("opponents.json")
	if err != nil {
		return nil, err
	}
	if len(file.Opponents) == 0 {
		return nil, errors.New("no opponents loaded from opponents.json")
	}
	return NewOpponentRegistry(file.Opponents), nil
}

// MustLoadOpponentRegistry loads a registry, panicking on error.
func MustLoadOpponentRegistry() *OpponentRegistry {
	registry, err := LoadOpponentRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// Get returns the opponent at index, or nil when out of range.
func (r *OpponentRegistry) Get(index int) *OpponentDef {
	if index < 0 || index >= len(r.opponents) {
		return nil
	}
	return &r.opponents[index]
}

// All returns all opponent definitions.
func (r *OpponentRegistry) All() []OpponentDef {
	return r.opponents
}

// Count returns the number of opponents in the registry.
func (r *OpponentRegistry) Count() int {
	return len(r.opponents)
}
