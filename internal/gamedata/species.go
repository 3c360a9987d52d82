package gamedata

import (
	"errors"
	"strings"
)

// StatBlock holds the six battle stats.
type StatBlock struct {
	HP             int `json:"hp"`
	Attack         int `json:"attack"`
	Defense        int `json:"defense"`
	SpecialAttack  int `json:"specialAttack"`
	SpecialDefense int `json:"specialDefense"`
	Speed          int `json:"speed"`
}

// SpeciesDef is a read-only species reference from the catalog.
type SpeciesDef struct {
	ID     int       `json:"id"`     // National dex number
	Name   string    `json:"name"`   // Catalog identifier (e.g., "bulbasaur")
	Types  []string  `json:"types"`  // One or two type tags
	Sprite string    `json:"sprite"` // Sprite URL
	Stats  StatBlock `json:"stats"`  // Base stats
}

// Label returns the human-readable species name.
func (s *SpeciesDef) Label() string {
	return DisplayName(s.Name)
}

// SpeciesFile represents the structure of species.json.
type SpeciesFile struct {
	Species []SpeciesDef `json:"species"`
}

// SpeciesRegistry holds the species catalog and provides lookup utilities.
type SpeciesRegistry struct {
	species []SpeciesDef
	byName  map[string]*SpeciesDef
}

// NewSpeciesRegistry creates a registry from loaded species definitions.
func NewSpeciesRegistry(species []SpeciesDef) *SpeciesRegistry {
	registry := &SpeciesRegistry{
		species: species,
		byName:  make(map[string]*SpeciesDef, len(species)),
	}
	for i := range species {
		registry.byName[strings.ToLower(species[i].Name)] = &species[i]
	}
	return registry
}

// LoadSpeciesRegistry loads and creates a registry from the embedded species.json.
func LoadSpeciesRegistry() (*SpeciesRegistry, error) {
	file, err := Load[SpeciesFile]("species.json")
	if err != nil {
		return nil, err
	}
	if len(file.Species) == 0 {
		return nil, errors.New("no species loaded from species.json")
	}
	return NewSpeciesRegistry(file.Species), nil
}

// MustLoadSpeciesRegistry loads a registry, panicking on error.
func MustLoadSpeciesRegistry() *SpeciesRegistry {
	registry, err := LoadSpeciesRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the species with the given dex number, or nil if not found.
func (r *SpeciesRegistry) GetByID(id int) *SpeciesDef {
	for i := range r.species {
		if r.species[i].ID == id {
			return &r.species[i]
		}
	}
	return nil
}

// GetByName returns the species with the given name, or nil if not found.
func (r *SpeciesRegistry) GetByName(name string) *SpeciesDef {
	return r.byName[strings.ToLower(strings.TrimSpace(name))]
}

// All returns all species definitions.
func (r *SpeciesRegistry) All() []SpeciesDef {
	return r.species
}

// Count returns the number of species in the registry.
func (r *SpeciesRegistry) Count() int {
	return len(r.species)
}
