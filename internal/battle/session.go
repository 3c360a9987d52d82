package battle

import (
	"time"

	"github.com/google/uuid"

	"github.com/samdwyer/pokehub/internal/entity"
)

// MaxLogEntries bounds the battle log to its most recent lines.
const MaxLogEntries = 20

// Session is one battle from start to result. It exclusively owns its
// combatants; nothing in it aliases the roster.
type Session struct {
	ID            uuid.UUID
	Party         []*entity.Combatant // Copies of the roster, in roster order
	Active        int                 // Index into Party
	Opponent      *entity.Combatant
	OpponentIndex int
	Log           []string
	LogTotal      int // Lines ever logged, including those dropped from Log
	Turn          int
	Result        *Result
	StartedAt     time.Time
}

func newSession(party []*entity.Combatant, active int, opponent *entity.Combatant, opponentIndex int) *Session {
	return &Session{
		ID:            uuid.New(),
		Party:         party,
		Active:        active,
		Opponent:      opponent,
		OpponentIndex: opponentIndex,
		StartedAt:     time.Now(),
	}
}

// Player returns the active player combatant.
func (s *Session) Player() *entity.Combatant {
	return s.Party[s.Active]
}

func (s *Session) logf(lines ...string) {
	for _, line := range lines {
		s.Log = append(s.Log, line)
		s.LogTotal++
	}
	if over := len(s.Log) - MaxLogEntries; over > 0 {
		s.Log = append([]string(nil), s.Log[over:]...)
	}
}

// partyHP maps species id to current HP for roster write-back.
func (s *Session) partyHP() map[int]int {
	hp := make(map[int]int, len(s.Party))
	for _, c := range s.Party {
		hp[c.SpeciesID] = c.HP
	}
	return hp
}

// Snapshot is a read-only copy of the engine for rendering.
type Snapshot struct {
	State     State
	SessionID string
	Party     []entity.Combatant
	Active    int
	Opponent  *entity.Combatant
	Log       []string
	LogTotal  int
	Turn      int
	Pending   bool
	Items     []Item
	Result    *Result
}

// Player returns the active player combatant, or nil outside a battle.
func (s Snapshot) Player() *entity.Combatant {
	if s.Active < 0 || s.Active >= len(s.Party) {
		return nil
	}
	return &s.Party[s.Active]
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		SessionID: s.ID.String(),
		Party:     make([]entity.Combatant, len(s.Party)),
		Active:    s.Active,
		Log:       append([]string(nil), s.Log...),
		LogTotal:  s.LogTotal,
		Turn:      s.Turn,
	}
	for i, c := range s.Party {
		snap.Party[i] = c.Clone()
	}
	if s.Opponent != nil {
		opp := s.Opponent.Clone()
		snap.Opponent = &opp
	}
	if s.Result != nil {
		res := *s.Result
		snap.Result = &res
	}
	return snap
}
