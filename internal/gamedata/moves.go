package gamedata

// =============================================================================
// MOVE CATALOG
// =============================================================================
//
// Moves are static definitions loaded from moves.json. Each species has a
// movepool in movepools.json; species without an entry use the "default"
// pool.
//
// Category decides which stats a move uses:
//    - physical: attacker Attack vs defender Defense
//    - special:  attacker SpecialAttack vs defender SpecialDefense
//    - status:   no damage, the battle log only records the usage
//
// Status and StatusChance are carried for forward compatibility. No battle
// code applies a status condition from them.

import (
	"errors"
	"fmt"
	"strings"
)

// MoveCategory represents how a move's damage is calculated.
type MoveCategory string

const (
	CategoryPhysical MoveCategory = "physical"
	CategorySpecial  MoveCategory = "special"
	CategoryStatus   MoveCategory = "status"
)

// StatusCondition names a status a move may inflict.
type StatusCondition string

const (
	StatusNone      StatusCondition = ""
	StatusBurn      StatusCondition = "burn"
	StatusParalysis StatusCondition = "paralysis"
	StatusPoison    StatusCondition = "poison"
	StatusSleep     StatusCondition = "sleep"
	StatusFreeze    StatusCondition = "freeze"
)

// DefaultMovepool is the movepool key used for species without their own pool.
const DefaultMovepool = "default"

// ErrMoveNotFound is returned by LookupMove for unknown move names.
var ErrMoveNotFound = errors.New("move not found")

// MoveDef defines a move loaded from JSON.
type MoveDef struct {
	Name         string          `json:"name"`                   // Catalog identifier (e.g., "vine-whip")
	DisplayName  string          `json:"displayName,omitempty"`  // Optional override for DisplayName(Name)
	Type         string          `json:"type"`                   // Type tag
	Category     MoveCategory    `json:"category"`               // physical, special or status
	Power        int             `json:"power"`                  // 0 for status moves
	Accuracy     int             `json:"accuracy"`               // 0-100
	PP           int             `json:"pp"`                     // Maximum power points
	Priority     int             `json:"priority,omitempty"`     // Unused by turn order, kept with the data
	Status       StatusCondition `json:"status,omitempty"`       // Not applied in battle
	StatusChance int             `json:"statusChance,omitempty"` // Percent, not applied in battle
}

// Label returns the human-readable name of the move.
func (m *MoveDef) Label() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return DisplayName(m.Name)
}

// IsDamaging reports whether the move can deal damage.
func (m *MoveDef) IsDamaging() bool {
	return m.Category != CategoryStatus && m.Power > 0
}

// MovesFile represents the structure of moves.json.
type MovesFile struct {
	Moves []MoveDef `json:"moves"`
}

// MovepoolsFile represents the structure of movepools.json.
type MovepoolsFile struct {
	Movepools map[string][]string `json:"movepools"`
}

// MoveCatalog holds move definitions and per-species movepools.
type MoveCatalog struct {
	moves map[string]*MoveDef
	all   []MoveDef
	pools map[string][]string
}

// NewMoveCatalog creates a catalog from loaded moves and movepools.
// Names and species keys are matched case-insensitively.
func NewMoveCatalog(moves []MoveDef, pools map[string][]string) *MoveCatalog {
	catalog := &MoveCatalog{
		moves: make(map[string]*MoveDef, len(moves)),
		all:   moves,
		pools: make(map[string][]string, len(pools)),
	}
	for i := range moves {
		catalog.moves[strings.ToLower(moves[i].Name)] = &moves[i]
	}
	for species, names := range pools {
		catalog.pools[strings.ToLower(species)] = names
	}
	return catalog
}

// LoadMoveCatalog loads moves.json and movepools.json.
func LoadMoveCatalog() (*MoveCatalog, error) {
	moves, err := Load[MovesFile]("moves.json")
	if err != nil {
		return nil, err
	}
	if len(moves.Moves) == 0 {
		return nil, errors.New("no moves loaded from moves.json")
	}
	pools, err := Load[MovepoolsFile]("movepools.json")
	if err != nil {
		return nil, err
	}
	if _, ok := pools.Movepools[DefaultMovepool]; !ok {
		return nil, fmt.Errorf("movepools.json has no %q movepool", DefaultMovepool)
	}
	return NewMoveCatalog(moves.Moves, pools.Movepools), nil
}

// MustLoadMoveCatalog loads the catalog, panicking on error.
func MustLoadMoveCatalog() *MoveCatalog {
	catalog, err := LoadMoveCatalog()
	if err != nil {
		panic(err)
	}
	return catalog
}

// LookupMove returns the move with the given name.
func (c *MoveCatalog) LookupMove(name string) (MoveDef, error) {
	move, ok := c.moves[strings.ToLower(name)]
	if !ok {
		return MoveDef{}, fmt.Errorf("%w: %s", ErrMoveNotFound, name)
	}
	return *move, nil
}

// MovesForSpecies returns the movepool of a species. Unknown species get the
// default movepool. Move names missing from the catalog are silently skipped.
func (c *MoveCatalog) MovesForSpecies(speciesName string) []MoveDef {
	names, ok := c.pools[strings.ToLower(speciesName)]
	if !ok {
		names = c.pools[DefaultMovepool]
	}
	result := make([]MoveDef, 0, len(names))
	for _, name := range names {
		if move, ok := c.moves[strings.ToLower(name)]; ok {
			result = append(result, *move)
		}
	}
	return result
}

// HasMovepool reports whether the species has its own movepool.
func (c *MoveCatalog) HasMovepool(speciesName string) bool {
	_, ok := c.pools[strings.ToLower(speciesName)]
	return ok
}

// All returns all move definitions.
func (c *MoveCatalog) All() []MoveDef {
	return c.all
}

// Count returns the number of moves in the catalog.
func (c *MoveCatalog) Count() int {
	return len(c.all)
}
