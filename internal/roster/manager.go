package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/pokehub/internal/entity"
	"github.com/samdwyer/pokehub/internal/gamedata"
	"github.com/samdwyer/pokehub/internal/telemetry"
)

// ErrUnknownSpecies indicates a species name missing from the catalog.
var ErrUnknownSpecies = errors.New("unknown species")

// Manager exposes the team-building operations the UI calls. All mutation
// goes through the Store, which notifies subscribed views.
type Manager struct {
	store   *Store
	species *gamedata.SpeciesRegistry
	logger  zerolog.Logger
}

// NewManager creates a manager over store. species may be nil when lookups by
// name are not needed.
func NewManager(store *Store, species *gamedata.SpeciesRegistry, logger zerolog.Logger) *Manager {
	return &Manager{
		store:   store,
		species: species,
		logger:  logger,
	}
}

// Store returns the underlying roster store.
func (m *Manager) Store() *Store { return m.store }

// Add creates a level-5, full-HP member from a species snapshot.
func (m *Manager) Add(ctx context.Context, species *gamedata.SpeciesDef) (entity.Member, error) {
	ctx, span := telemetry.Tracer("roster").Start(ctx, "roster.add")
	defer span.End()
	span.SetAttributes(
		attribute.Int("species.id", species.ID),
		attribute.String("species.name", species.Name),
		attribute.Int("roster.size", m.store.Len()),
	)

	member := entity.NewMember(species)
	if err := m.store.Add(ctx, member); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.logger.Debug().Err(err).Str("species", species.Name).Msg("add to roster rejected")
		return entity.Member{}, err
	}
	return member, nil
}

// AddByName looks the species up in the catalog, then adds it.
func (m *Manager) AddByName(ctx context.Context, name string) (entity.Member, error) {
	if m.species == nil {
		return entity.Member{}, fmt.Errorf("%w: %s", ErrUnknownSpecies, name)
	}
	species := m.species.GetByName(name)
	if species == nil {
		return entity.Member{}, fmt.Errorf("%w: %s", ErrUnknownSpecies, name)
	}
	return m.Add(ctx, species)
}

// Remove deletes the member with the given species id.
func (m *Manager) Remove(ctx context.Context, speciesID int) error {
	return m.store.Remove(ctx, speciesID)
}

// Clear empties the roster.
func (m *Manager) Clear(ctx context.Context) error {
	return m.store.Clear(ctx)
}

// Heal restores every member to full HP.
func (m *Manager) Heal(ctx context.Context) error {
	members := m.store.List()
	hp := make(map[int]int, len(members))
	for _, member := range members {
		hp[member.SpeciesID] = member.MaxHP()
	}
	if err := m.store.UpdateHP(ctx, hp); err != nil {
		return fmt.Errorf("heal roster: %w", err)
	}
	m.logger.Info().Int("members", len(members)).Msg("roster healed")
	return nil
}

// Members returns a copy of the current roster.
func (m *Manager) Members() []entity.Member {
	return m.store.List()
}
