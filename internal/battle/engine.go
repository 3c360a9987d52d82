package battle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/pokehub/internal/combat"
	"github.com/samdwyer/pokehub/internal/entity"
	"github.com/samdwyer/pokehub/internal/gamedata"
	"github.com/samdwyer/pokehub/internal/roster"
	"github.com/samdwyer/pokehub/internal/telemetry"
)

// DefaultOpponentDelay is the gap between a player action and the opponent's reply.
const DefaultOpponentDelay = 1200 * time.Millisecond

var (
	// ErrBusy indicates the opponent's reply is still pending.
	ErrBusy = errors.New("opponent reply pending")
	// ErrInvalidState indicates the action is not allowed in the current state.
	ErrInvalidState = errors.New("action not allowed in current battle state")
	// ErrInvalidSwitch indicates the switch target is absent, active or fainted.
	ErrInvalidSwitch = errors.New("invalid switch target")
	// ErrFaintedMember indicates the chosen lead has no HP left.
	ErrFaintedMember = errors.New("member has fainted")
	// ErrNotFound indicates a roster member or opponent index is out of range.
	ErrNotFound = errors.New("not found")
)

// ActionResult reports whether a player action was applied. Actions that are
// not applicable (no PP, no items left) leave the battle untouched and carry
// the reason instead of an error.
type ActionResult struct {
	Applied bool
	Reason  string
}

func applied() ActionResult { return ActionResult{Applied: true} }

func notApplicable(reason string) ActionResult {
	return ActionResult{Reason: reason}
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithScheduler replaces the timer used for the opponent's reply.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.scheduler = s }
}

// WithRecorder reports finished battles to r.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithOpponentDelay sets the gap before the opponent replies.
func WithOpponentDelay(d time.Duration) Option {
	return func(e *Engine) { e.opponentDelay = d }
}

// WithPersistHP controls whether party HP is written back to the roster when
// a battle ends. It defaults to true.
func WithPersistHP(persist bool) Option {
	return func(e *Engine) { e.persistHP = persist }
}

// Engine runs battles against preset opponents. One mutex serialises player
// actions and the scheduled opponent reply, so a session is never mutated by
// two actors at once.
type Engine struct {
	mu            sync.Mutex
	fsm           *fsm.FSM
	roster        *roster.Store
	catalog       *gamedata.Catalog
	resolver      *combat.Resolver
	rng           Rand
	inventory     *Inventory
	session       *Session
	pending       bool
	stopPending   func() bool
	scheduler     Scheduler
	recorder      Recorder
	opponentDelay time.Duration
	persistHP     bool
	logger        zerolog.Logger

	listenerMu sync.Mutex
	listeners  map[int]func(Snapshot)
	nextID     int
}

// NewEngine creates an engine in StateSelectingParty with a full inventory.
func NewEngine(store *roster.Store, catalog *gamedata.Catalog, rng Rand, opts ...Option) *Engine {
	e := &Engine{
		roster:        store,
		catalog:       catalog,
		resolver:      combat.NewResolver(catalog.Types),
		rng:           rng,
		inventory:     NewInventory(catalog.Items),
		scheduler:     timerScheduler{},
		opponentDelay: DefaultOpponentDelay,
		persistHP:     true,
		logger:        zerolog.Nop(),
		listeners:     make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.fsm = newStateMachine(e.logger)
	return e
}

// State returns the current battle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State(e.fsm.Current())
}

// Snapshot returns a read-only copy of the engine for rendering.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every mutation,
// including the deferred opponent reply. The returned function removes it.
func (e *Engine) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	e.listenerMu.Lock()
	defer e.listenerMu.Unlock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	return func() {
		e.listenerMu.Lock()
		defer e.listenerMu.Unlock()
		delete(e.listeners, id)
	}
}

// Start begins a battle with the roster member at memberIndex leading against
// the preset opponent at opponentIndex. The whole roster is copied with its
// current HP; the opponent is built at full HP.
func (e *Engine) Start(ctx context.Context, memberIndex, opponentIndex int) (Snapshot, error) {
	ctx, span := e.tracer().Start(ctx, "battle.start")
	defer span.End()

	e.mu.Lock()
	if !e.fsm.Can(eventStart) {
		state := e.fsm.Current()
		e.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%w: cannot start from %s", ErrInvalidState, state)
	}

	members := e.roster.List()
	if memberIndex < 0 || memberIndex >= len(members) {
		e.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%w: roster member %d", ErrNotFound, memberIndex)
	}
	lead := members[memberIndex]
	if lead.IsFainted() {
		e.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%w: %s", ErrFaintedMember, lead.Name)
	}
	def := e.catalog.Opponents.Get(opponentIndex)
	if def == nil {
		e.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%w: opponent %d", ErrNotFound, opponentIndex)
	}

	party := make([]*entity.Combatant, len(members))
	for i, m := range members {
		party[i] = entity.NewCombatant(m, e.catalog.MovesFor(m.SpeciesID, m.Name))
	}
	opponent := entity.BuildOpponent(*def, e.catalog.MovesFor(def.SpeciesID, def.Name))

	if err := e.fsm.Event(ctx, eventStart); err != nil {
		e.mu.Unlock()
		return Snapshot{}, fmt.Errorf("start battle: %w", err)
	}
	s := newSession(party, memberIndex, opponent, opponentIndex)
	s.logf(fmt.Sprintf("Go! %s!", lead.Name))
	e.session = s

	span.SetAttributes(
		attribute.String("session.id", s.ID.String()),
		attribute.String("player", lead.Name),
		attribute.Int("player.hp", party[memberIndex].HP),
		attribute.String("opponent", opponent.Name),
		attribute.Int("opponent.level", opponent.Level),
		attribute.Int("party_size", len(party)),
	)
	e.logger.Info().
		Str("session", s.ID.String()).
		Str("player", lead.Name).
		Str("opponent", opponent.Name).
		Int("opponent_level", opponent.Level).
		Msg("battle started")

	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return snap, nil
}

// Attack uses the active combatant's move at moveIndex. A move with no PP
// left is not applicable. If the opponent faints the battle is won at once;
// otherwise the opponent's reply is scheduled.
func (e *Engine) Attack(ctx context.Context, moveIndex int) (ActionResult, error) {
	ctx, span := e.tracer().Start(ctx, "battle.turn")
	defer span.End()
	span.SetAttributes(attribute.String("action", "attack"), attribute.Int("move_index", moveIndex))

	e.mu.Lock()
	if err := e.checkActionLocked(); err != nil {
		e.mu.Unlock()
		return ActionResult{}, err
	}
	s := e.session
	player := s.Player()
	if moveIndex < 0 || moveIndex >= len(player.Moves) {
		e.mu.Unlock()
		return notApplicable("no such move"), nil
	}
	mi := &player.Moves[moveIndex]
	if !mi.Spend() {
		e.mu.Unlock()
		return notApplicable(fmt.Sprintf("%s has no PP left", mi.Def.Label())), nil
	}

	s.Turn++
	res := e.resolver.Resolve(e.rng, &mi.Def, player, s.Opponent)
	s.logf(res.Messages...)
	span.SetAttributes(
		attribute.Int("turn", s.Turn),
		attribute.String("move", mi.Def.Name),
		attribute.Bool("hit", res.Attack.Hit),
		attribute.Bool("critical", res.Attack.Critical),
		attribute.Float64("effectiveness", res.Attack.Effectiveness),
		attribute.Int("damage", res.Damage),
	)

	if s.Opponent.IsFainted() {
		e.finishLocked(ctx, OutcomeWon)
	} else {
		e.scheduleOpponentLocked(ctx)
	}

	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return applied(), nil
}

// UseItem heals the active combatant with the item at itemIndex. The heal is
// clamped to missing HP and the item is consumed even when it restores
// nothing. The opponent's reply is then scheduled.
func (e *Engine) UseItem(ctx context.Context, itemIndex int) (ActionResult, error) {
	ctx, span := e.tracer().Start(ctx, "battle.turn")
	defer span.End()
	span.SetAttributes(attribute.String("action", "item"), attribute.Int("item_index", itemIndex))

	e.mu.Lock()
	if err := e.checkActionLocked(); err != nil {
		e.mu.Unlock()
		return ActionResult{}, err
	}
	item := e.inventory.Get(itemIndex)
	if item == nil {
		e.mu.Unlock()
		return notApplicable("no such item"), nil
	}
	if item.Quantity <= 0 {
		e.mu.Unlock()
		return notApplicable(fmt.Sprintf("no %s left", item.Name)), nil
	}

	s := e.session
	player := s.Player()
	healed := player.Heal(item.Heal)
	e.inventory.Consume(itemIndex)
	s.Turn++
	if healed > 0 {
		s.logf(fmt.Sprintf("Used a %s! %s recovered %d HP.", item.Name, player.Name, healed))
	} else {
		s.logf(fmt.Sprintf("Used a %s! It had no effect.", item.Name))
	}
	span.SetAttributes(
		attribute.Int("turn", s.Turn),
		attribute.String("item", item.Name),
		attribute.Int("healing", healed),
	)

	e.scheduleOpponentLocked(ctx)

	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return applied(), nil
}

// Switch makes the party member at partyIndex active with fresh moves. The
// opponent does not reply to a switch.
func (e *Engine) Switch(ctx context.Context, partyIndex int) (ActionResult, error) {
	_, span := e.tracer().Start(ctx, "battle.turn")
	defer span.End()
	span.SetAttributes(attribute.String("action", "switch"), attribute.Int("party_index", partyIndex))

	e.mu.Lock()
	if err := e.checkActionLocked(); err != nil {
		e.mu.Unlock()
		return ActionResult{}, err
	}
	s := e.session
	switch {
	case partyIndex < 0 || partyIndex >= len(s.Party):
		e.mu.Unlock()
		return ActionResult{}, fmt.Errorf("%w: no party member %d", ErrInvalidSwitch, partyIndex)
	case partyIndex == s.Active:
		e.mu.Unlock()
		return ActionResult{}, fmt.Errorf("%w: %s is already active", ErrInvalidSwitch, s.Party[partyIndex].Name)
	case s.Party[partyIndex].IsFainted():
		e.mu.Unlock()
		return ActionResult{}, fmt.Errorf("%w: %s has fainted", ErrInvalidSwitch, s.Party[partyIndex].Name)
	}

	prev := s.Player()
	next := s.Party[partyIndex]
	next.ResetMoves(e.catalog.MovesFor(next.SpeciesID, next.Name))
	s.Active = partyIndex
	s.logf(fmt.Sprintf("Come back, %s!", prev.Name), fmt.Sprintf("Go! %s!", next.Name))
	e.logger.Debug().Str("from", prev.Name).Str("to", next.Name).Msg("switched")

	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return applied(), nil
}

// RequestFlee asks for confirmation before fleeing.
func (e *Engine) RequestFlee(ctx context.Context) error {
	e.mu.Lock()
	if err := e.checkActionLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	if err := e.fsm.Event(ctx, eventFlee); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("request flee: %w", err)
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

// CancelFlee returns to the battle.
func (e *Engine) CancelFlee(ctx context.Context) error {
	return e.transition(ctx, eventCancelFlee)
}

// ConfirmFlee ends the battle without a win or loss and returns to party
// selection.
func (e *Engine) ConfirmFlee(ctx context.Context) (Result, error) {
	e.mu.Lock()
	if !e.fsm.Can(eventConfirmFlee) {
		state := e.fsm.Current()
		e.mu.Unlock()
		return Result{}, fmt.Errorf("%w: cannot confirm flee from %s", ErrInvalidState, state)
	}
	if err := e.fsm.Event(ctx, eventConfirmFlee); err != nil {
		e.mu.Unlock()
		return Result{}, fmt.Errorf("confirm flee: %w", err)
	}
	result := Result{Outcome: OutcomeFled, Message: "Got away safely!"}
	e.session.Result = &result
	e.endLocked(ctx, result)
	e.session = nil

	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return result, nil
}

// Restart discards the finished session and refills the inventory.
func (e *Engine) Restart(ctx context.Context) error {
	e.mu.Lock()
	if !e.fsm.Can(eventRestart) {
		state := e.fsm.Current()
		e.mu.Unlock()
		return fmt.Errorf("%w: cannot restart from %s", ErrInvalidState, state)
	}
	if err := e.fsm.Event(ctx, eventRestart); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("restart: %w", err)
	}
	e.session = nil
	e.inventory.Reset()
	e.logger.Debug().Msg("battle restarted")

	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

// Leave abandons the current battle, cancelling any pending opponent reply.
// It is a no-op while selecting a party.
func (e *Engine) Leave(ctx context.Context) error {
	e.mu.Lock()
	state := State(e.fsm.Current())
	if state == StateSelectingParty {
		e.mu.Unlock()
		return nil
	}

	if e.stopPending != nil {
		e.stopPending()
		e.stopPending = nil
	}
	e.pending = false
	if state != StateResult {
		e.persistHPLocked(ctx)
	}
	if err := e.fsm.Event(ctx, eventLeave); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("leave battle: %w", err)
	}
	if e.session != nil {
		e.logger.Info().Str("session", e.session.ID.String()).Str("state", string(state)).Msg("battle abandoned")
	}
	e.session = nil

	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

func (e *Engine) transition(ctx context.Context, event string) error {
	e.mu.Lock()
	if !e.fsm.Can(event) {
		state := e.fsm.Current()
		e.mu.Unlock()
		return fmt.Errorf("%w: %s from %s", ErrInvalidState, event, state)
	}
	if err := e.fsm.Event(ctx, event); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("%s: %w", event, err)
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

func (e *Engine) checkActionLocked() error {
	if state := e.fsm.Current(); state != string(StateInBattle) {
		return fmt.Errorf("%w: %s", ErrInvalidState, state)
	}
	if e.pending {
		return ErrBusy
	}
	return nil
}

// scheduleOpponentLocked arms the single-shot opponent reply. The reply runs
// with a context detached from the caller's cancellation.
func (e *Engine) scheduleOpponentLocked(ctx context.Context) {
	e.pending = true
	id := e.session.ID
	detached := context.WithoutCancel(ctx)
	e.stopPending = e.scheduler.AfterFunc(e.opponentDelay, func() {
		e.opponentTurn(detached, id)
	})
}

func (e *Engine) opponentTurn(ctx context.Context, sessionID uuid.UUID) {
	ctx, span := e.tracer().Start(ctx, "battle.opponent_turn")
	defer span.End()

	e.mu.Lock()
	s := e.session
	if s == nil || s.ID != sessionID || !e.pending {
		e.mu.Unlock()
		return
	}
	e.pending = false
	e.stopPending = nil

	player := s.Player()
	mi := ChooseMove(e.rng, s.Opponent)
	if mi == nil {
		s.logf(fmt.Sprintf("%s has no moves!", s.Opponent.Name))
	} else {
		mi.Spend()
		res := e.resolver.Resolve(e.rng, &mi.Def, s.Opponent, player)
		s.logf(res.Messages...)
		span.SetAttributes(
			attribute.Int("turn", s.Turn),
			attribute.String("move", mi.Def.Name),
			attribute.Bool("hit", res.Attack.Hit),
			attribute.Int("damage", res.Damage),
		)
		if player.IsFainted() {
			e.finishLocked(ctx, OutcomeLost)
		}
	}

	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
}

// finishLocked moves an in-battle session to the result state.
func (e *Engine) finishLocked(ctx context.Context, outcome Outcome) {
	s := e.session
	result := Result{Outcome: outcome}
	if outcome == OutcomeWon {
		result.Message = fmt.Sprintf("🏆 You won! %s fainted.", s.Opponent.Name)
	} else {
		result.Message = fmt.Sprintf("💀 You lost! %s fainted.", s.Player().Name)
	}
	s.Result = &result
	s.logf(result.Message)

	if err := e.fsm.Event(ctx, eventFinish); err != nil {
		e.logger.Error().Err(err).Msg("finish battle")
	}
	e.endLocked(ctx, result)
}

// endLocked runs the bookkeeping shared by every way a battle ends.
func (e *Engine) endLocked(ctx context.Context, result Result) {
	s := e.session
	_, span := e.tracer().Start(ctx, "battle.end")
	span.SetAttributes(
		attribute.String("session.id", s.ID.String()),
		attribute.String("outcome", string(result.Outcome)),
		attribute.Int("turns_taken", s.Turn),
		attribute.Int("player.hp", s.Player().HP),
		attribute.Int("opponent.hp", s.Opponent.HP),
	)
	span.End()

	e.persistHPLocked(ctx)
	e.recordLocked(ctx, result)

	e.logger.Info().
		Str("session", s.ID.String()).
		Str("outcome", string(result.Outcome)).
		Int("turns", s.Turn).
		Msg("battle ended")
}

func (e *Engine) persistHPLocked(ctx context.Context) {
	if !e.persistHP || e.session == nil {
		return
	}
	if err := e.roster.UpdateHP(ctx, e.session.partyHP()); err != nil {
		e.logger.Warn().Err(err).Msg("write back party HP")
	}
}

func (e *Engine) recordLocked(ctx context.Context, result Result) {
	if e.recorder == nil {
		return
	}
	s := e.session
	rec := Record{
		ID:            s.ID.String(),
		Outcome:       result.Outcome,
		Message:       result.Message,
		PlayerName:    s.Player().Name,
		OpponentName:  s.Opponent.Name,
		OpponentLevel: s.Opponent.Level,
		Turns:         s.Turn,
		StartedAt:     s.StartedAt,
		EndedAt:       time.Now(),
	}
	if err := e.recorder.RecordBattle(ctx, rec); err != nil {
		e.logger.Warn().Err(err).Str("session", rec.ID).Msg("record battle")
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	var snap Snapshot
	if e.session != nil {
		snap = e.session.snapshot()
	} else {
		snap.Active = -1
	}
	snap.State = State(e.fsm.Current())
	snap.Pending = e.pending
	snap.Items = e.inventory.List()
	return snap
}

func (e *Engine) notify(snap Snapshot) {
	e.listenerMu.Lock()
	listeners := make([]func(Snapshot), 0, len(e.listeners))
	for _, fn := range e.listeners {
		listeners = append(listeners, fn)
	}
	e.listenerMu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func (e *Engine) tracer() trace.Tracer {
	return telemetry.Tracer("battle")
}
