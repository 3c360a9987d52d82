package roster

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/samdwyer/pokehub/internal/entity"
	"github.com/samdwyer/pokehub/internal/gamedata"
)

// memoryPersister is an in-memory Persister that can be told to fail.
type memoryPersister struct {
	saved   []entity.Member
	saves   int
	failErr error
}

func (p *memoryPersister) Load(context.Context) ([]entity.Member, error) {
	return p.saved, nil
}

func (p *memoryPersister) Save(_ context.Context, members []entity.Member) error {
	if p.failErr != nil {
		return p.failErr
	}
	p.saves++
	p.saved = members
	return nil
}

func member(id int, hp int) entity.Member {
	return entity.Member{
		SpeciesID: id,
		Name:      "Mon",
		Types:     []string{"normal"},
		Level:     entity.DefaultLevel,
		Stats:     gamedata.StatBlock{HP: hp},
		CurrentHP: hp,
	}
}

func fullStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	for i := 1; i <= MaxMembers; i++ {
		if err := s.Add(context.Background(), member(i, 50)); err != nil {
			t.Fatalf("Add(%d) error: %v", i, err)
		}
	}
	return s
}

func TestAddRosterFullNeverMutates(t *testing.T) {
	s := fullStore(t)
	before := s.List()

	err := s.Add(context.Background(), member(99, 50))
	if !errors.Is(err, ErrRosterFull) {
		t.Fatalf("Add to full roster error = %v, want ErrRosterFull", err)
	}
	after := s.List()
	if len(after) != MaxMembers {
		t.Fatalf("roster length = %d, want %d", len(after), MaxMembers)
	}
	for i := range before {
		if before[i].SpeciesID != after[i].SpeciesID {
			t.Errorf("member %d changed: %d -> %d", i, before[i].SpeciesID, after[i].SpeciesID)
		}
	}
}

func TestAddDuplicateSpecies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	if err := s.Add(ctx, member(25, 35)); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	err := s.Add(ctx, member(25, 35))
	if !errors.Is(err, ErrDuplicateSpecies) {
		t.Fatalf("duplicate Add error = %v, want ErrDuplicateSpecies", err)
	}
	if s.Len() != 1 {
		t.Errorf("roster length = %d, want 1", s.Len())
	}
}

func TestRemove(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	for _, id := range []int{1, 4, 7} {
		if err := s.Add(ctx, member(id, 40)); err != nil {
			t.Fatalf("Add(%d) error: %v", id, err)
		}
	}

	if err := s.Remove(ctx, 4); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	got := s.List()
	if len(got) != 2 || got[0].SpeciesID != 1 || got[1].SpeciesID != 7 {
		t.Errorf("roster after remove = %+v, want [1 7]", got)
	}

	if err := s.Remove(ctx, 4); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove error = %v, want ErrNotFound", err)
	}
}

func TestClear(t *testing.T) {
	s := fullStore(t)
	if err := s.Clear(context.Background()); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("roster length after clear = %d, want 0", s.Len())
	}
}

func TestListReturnsCopies(t *testing.T) {
	s := NewStore()
	if err := s.Add(context.Background(), member(1, 45)); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	list := s.List()
	list[0].CurrentHP = 1
	list[0].Types[0] = "fire"

	got, ok := s.Get(1)
	if !ok {
		t.Fatal("Get(1) not found")
	}
	if got.CurrentHP != 45 || got.Types[0] != "normal" {
		t.Errorf("mutating List result leaked into store: %+v", got)
	}
}

func TestUpdateHPClampsAndSkipsUnknown(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	if err := s.Add(ctx, member(1, 45)); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	if err := s.UpdateHP(ctx, map[int]int{1: -5, 99: 10}); err != nil {
		t.Fatalf("UpdateHP error: %v", err)
	}
	got, _ := s.Get(1)
	if got.CurrentHP != 0 {
		t.Errorf("HP = %d, want 0", got.CurrentHP)
	}

	if err := s.UpdateHP(ctx, map[int]int{1: 500}); err != nil {
		t.Fatalf("UpdateHP error: %v", err)
	}
	got, _ = s.Get(1)
	if got.CurrentHP != 45 {
		t.Errorf("HP = %d, want 45", got.CurrentHP)
	}
}

func TestPersistFailureRollsBack(t *testing.T) {
	p := &memoryPersister{}
	s := NewStore(WithPersister(p))
	ctx := context.Background()
	if err := s.Add(ctx, member(1, 45)); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	p.failErr = errors.New("disk full")
	if err := s.Add(ctx, member(4, 39)); err == nil {
		t.Fatal("Add should fail when the persister fails")
	}
	if err := s.Remove(ctx, 1); err == nil {
		t.Fatal("Remove should fail when the persister fails")
	}
	if s.Len() != 1 {
		t.Errorf("roster length = %d, want 1 after failed writes", s.Len())
	}
	if len(p.saved) != 1 || p.saves != 1 {
		t.Errorf("persister saw %d saves of %d members, want 1 and 1", p.saves, len(p.saved))
	}
}

func TestOpenRestoresAndDropsInvalid(t *testing.T) {
	p := &memoryPersister{saved: []entity.Member{
		member(1, 45), member(1, 45), member(2, 45), member(3, 45),
		member(4, 45), member(5, 45), member(6, 45), member(7, 45),
	}}
	p.saved[2].CurrentHP = 900

	s, err := Open(context.Background(), WithPersister(p), WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if s.Len() != MaxMembers {
		t.Errorf("restored %d members, want %d", s.Len(), MaxMembers)
	}
	if _, ok := s.Get(7); ok {
		t.Error("seventh member should have been dropped")
	}
	if got, _ := s.Get(2); got.CurrentHP != 45 {
		t.Errorf("restored HP = %d, want clamped 45", got.CurrentHP)
	}
}

func TestSubscribeNotifiesAfterMutation(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var calls []int
	unsubscribe := s.Subscribe(func(members []entity.Member) {
		calls = append(calls, len(members))
	})

	_ = s.Add(ctx, member(1, 45))
	_ = s.Add(ctx, member(4, 39))
	_ = s.Add(ctx, member(4, 39)) // rejected, no notification
	_ = s.Remove(ctx, 1)

	unsubscribe()
	_ = s.Clear(ctx)

	want := []int{1, 2, 1}
	if len(calls) != len(want) {
		t.Fatalf("listener calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d saw %d members, want %d", i, calls[i], want[i])
		}
	}
}

func TestCanceledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Add(ctx, member(1, 45)); !errors.Is(err, context.Canceled) {
		t.Errorf("Add error = %v, want context.Canceled", err)
	}
	if s.Len() != 0 {
		t.Error("canceled Add mutated the roster")
	}
}

func TestManagerAdd(t *testing.T) {
	species := gamedata.MustLoadSpeciesRegistry()
	m := NewManager(NewStore(), species, zerolog.Nop())
	ctx := context.Background()

	added, err := m.AddByName(ctx, "Squirtle")
	if err != nil {
		t.Fatalf("AddByName error: %v", err)
	}
	if added.SpeciesID != 7 || added.Level != 5 || added.CurrentHP != added.Stats.HP {
		t.Errorf("added = %+v, want squirtle level 5 at full HP", added)
	}

	if _, err := m.AddByName(ctx, "squirtle"); !errors.Is(err, ErrDuplicateSpecies) {
		t.Errorf("duplicate AddByName error = %v, want ErrDuplicateSpecies", err)
	}
	if _, err := m.AddByName(ctx, "agumon"); !errors.Is(err, ErrUnknownSpecies) {
		t.Errorf("AddByName(agumon) error = %v, want ErrUnknownSpecies", err)
	}
}

func TestManagerFullRoster(t *testing.T) {
	species := gamedata.MustLoadSpeciesRegistry()
	m := NewManager(NewStore(), species, zerolog.Nop())
	ctx := context.Background()

	all := species.All()
	for i := 0; i < MaxMembers; i++ {
		if _, err := m.Add(ctx, &all[i]); err != nil {
			t.Fatalf("Add(%s) error: %v", all[i].Name, err)
		}
	}
	if _, err := m.Add(ctx, &all[MaxMembers]); !errors.Is(err, ErrRosterFull) {
		t.Errorf("seventh Add error = %v, want ErrRosterFull", err)
	}
	if len(m.Members()) != MaxMembers {
		t.Errorf("roster length = %d, want %d", len(m.Members()), MaxMembers)
	}
}

func TestManagerHeal(t *testing.T) {
	s := NewStore()
	m := NewManager(s, nil, zerolog.Nop())
	ctx := context.Background()

	_ = s.Add(ctx, member(1, 45))
	_ = s.Add(ctx, member(4, 39))
	_ = s.UpdateHP(ctx, map[int]int{1: 0, 4: 10})

	if err := m.Heal(ctx); err != nil {
		t.Fatalf("Heal error: %v", err)
	}
	for _, mem := range m.Members() {
		if mem.CurrentHP != mem.MaxHP() {
			t.Errorf("%d HP = %d, want %d", mem.SpeciesID, mem.CurrentHP, mem.MaxHP())
		}
	}
}

func TestManagerRemoveAndClear(t *testing.T) {
	species := gamedata.MustLoadSpeciesRegistry()
	m := NewManager(NewStore(), species, zerolog.Nop())
	ctx := context.Background()

	_, _ = m.AddByName(ctx, "pikachu")
	_, _ = m.AddByName(ctx, "eevee")

	if err := m.Remove(ctx, 25); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if err := m.Remove(ctx, 25); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove missing error = %v, want ErrNotFound", err)
	}
	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if len(m.Members()) != 0 {
		t.Error("roster should be empty after Clear")
	}
}
