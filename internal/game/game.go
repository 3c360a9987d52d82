package game

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/pokehub/internal/battle"
	"github.com/samdwyer/pokehub/internal/combat"
	"github.com/samdwyer/pokehub/internal/entity"
	"github.com/samdwyer/pokehub/internal/telemetry"
	"github.com/samdwyer/pokehub/internal/ui"
)

// Game holds the front-end state. Battle and roster state live in the
// engine and the roster store; the game only tracks cursors and menus.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	cfg      Config
	resolver *combat.Resolver

	mode    Mode
	menu    Menu
	cursor  int
	lead    int
	message string

	speciesCursor int
	memberCursor  int
	rosterFocused bool

	running bool
}

// New creates a game on the terminal.
func New(cfg Config) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, cfg), nil
}

// NewWithScreen creates a game on an initialized screen.
func NewWithScreen(screen *ui.Screen, cfg Config) *Game {
	return &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen, cfg.Catalog.Types),
		cfg:      cfg,
		resolver: combat.NewResolver(cfg.Catalog.Types),
		mode:     ModeTeam,
		menu:     MenuLead,
		running:  true,
	}
}

// Run executes the main loop until the player quits. Any battle in progress
// is left and the screen is closed on return.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	_, initSpan := tracer.Start(ctx, "game.init")
	initSpan.SetAttributes(
		attribute.Int("roster.size", len(g.cfg.Manager.Members())),
		attribute.Int("species.count", g.cfg.Catalog.Species.Count()),
		attribute.Int("opponents.count", g.cfg.Catalog.Opponents.Count()),
	)
	initSpan.End()

	// Redraw when the opponent replies on the timer goroutine.
	wake := func() { _ = g.screen.PostEvent(tcell.NewEventInterrupt(nil)) }
	stopEngine := g.cfg.Engine.Subscribe(func(battle.Snapshot) { wake() })
	stopRoster := g.cfg.Manager.Store().Subscribe(func([]entity.Member) { wake() })
	defer stopEngine()
	defer stopRoster()

	for g.running {
		g.render(ctx)
		g.handleInput(ctx)
	}

	if err := g.cfg.Engine.Leave(ctx); err != nil {
		g.cfg.Logger.Warn().Err(err).Msg("leave battle on exit")
	}
	g.screen.Close()
	return nil
}

func (g *Game) render(ctx context.Context) {
	switch g.mode {
	case ModeBattle:
		g.renderer.RenderBattle(g.battleView())
	default:
		g.renderer.RenderTeam(g.teamView(ctx))
	}
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	case nil:
		// Screen finalized.
		g.running = false
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlC || (ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
		g.running = false
		return
	}

	switch g.mode {
	case ModeTeam:
		g.handleTeamKey(ctx, ev)
	case ModeBattle:
		g.handleBattleKey(ctx, ev)
	}
}

func (g *Game) switchMode(ctx context.Context, mode Mode) {
	if mode == ModeTeam && g.mode == ModeBattle {
		state := g.cfg.Engine.State()
		if err := g.cfg.Engine.Leave(ctx); err != nil {
			g.cfg.Logger.Warn().Err(err).Msg("leave battle")
		}
		if state == battle.StateInBattle || state == battle.StateConfirmingFlee {
			g.message = "You left the battle."
		}
	}
	if mode == ModeBattle {
		g.menu = MenuLead
		g.cursor = 0
		if g.cfg.Engine.State() != battle.StateSelectingParty {
			g.menu = MenuMain
		}
	}
	g.mode = mode
	g.cfg.Logger.Debug().Stringer("mode", mode).Msg("mode changed")
}

// moveCursor steps the cursor within n options, wrapping at both ends.
func moveCursor(cursor, delta, n int) int {
	if n <= 0 {
		return 0
	}
	return ((cursor+delta)%n + n) % n
}
