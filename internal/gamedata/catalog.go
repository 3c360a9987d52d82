package gamedata

import (
	"errors"
	"fmt"
)

// Catalog bundles every embedded registry a battle needs.
type Catalog struct {
	Types     *TypeChart
	Moves     *MoveCatalog
	Species   *SpeciesRegistry
	Opponents *OpponentRegistry
	Items     []ItemDef
}

// LoadCatalog loads all embedded game data.
func LoadCatalog() (*Catalog, error) {
	types, err := LoadTypeChart()
	if err != nil {
		return nil, fmt.Errorf("load type chart: %w", err)
	}
	moves, err := LoadMoveCatalog()
	if err != nil {
		return nil, fmt.Errorf("load moves: %w", err)
	}
	species, err := LoadSpeciesRegistry()
	if err != nil {
		return nil, fmt.Errorf("load species: %w", err)
	}
	opponents, err := LoadOpponentRegistry()
	if err != nil {
		return nil, fmt.Errorf("load opponents: %w", err)
	}
	items, err := LoadItems()
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	catalog := &Catalog{
		Types:     types,
		Moves:     moves,
		Species:   species,
		Opponents: opponents,
		Items:     items,
	}
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("validate game data: %w", err)
	}
	return catalog, nil
}

// Validate cross-checks the registries: every move and species type must be in
// the type chart, and a species with its own movepool must resolve to at least
// one move.
func (c *Catalog) Validate() error {
	known := make(map[string]bool)
	for _, name := range c.Types.Types() {
		known[name] = true
	}

	var errs []error
	for _, m := range c.Moves.All() {
		if !known[m.Type] {
			errs = append(errs, fmt.Errorf("move %q has unknown type %q", m.Name, m.Type))
		}
	}
	for _, s := range c.Species.All() {
		if len(s.Types) < 1 || len(s.Types) > 2 {
			errs = append(errs, fmt.Errorf("species %q has %d types", s.Name, len(s.Types)))
		}
		for _, typ := range s.Types {
			if !known[typ] {
				errs = append(errs, fmt.Errorf("species %q has unknown type %q", s.Name, typ))
			}
		}
		if c.Moves.HasMovepool(s.Name) && len(c.Moves.MovesForSpecies(s.Name)) == 0 {
			errs = append(errs, fmt.Errorf("species %q has an empty movepool", s.Name))
		}
	}
	return errors.Join(errs...)
}

// MustLoadCatalog loads all game data, panicking on error.
func MustLoadCatalog() *Catalog {
	catalog, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return catalog
}

// MovesFor returns the movepool for a species id, resolving the catalog name
// first and falling back to fallbackName for species outside the catalog.
func (c *Catalog) MovesFor(speciesID int, fallbackName string) []MoveDef {
	name := fallbackName
	if s := c.Species.GetByID(speciesID); s != nil {
		name = s.Name
	}
	return c.Moves.MovesForSpecies(name)
}
