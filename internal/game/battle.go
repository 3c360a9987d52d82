package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/pokehub/internal/battle"
	"github.com/samdwyer/pokehub/internal/gamedata"
	"github.com/samdwyer/pokehub/internal/ui"
)

func (g *Game) handleBattleKey(ctx context.Context, ev *tcell.EventKey) {
	snap := g.cfg.Engine.Snapshot()

	if ev.Key() == tcell.KeyRune && ev.Rune() == 't' {
		g.switchMode(ctx, ModeTeam)
		return
	}

	switch snap.State {
	case battle.StateSelectingParty:
		g.handleSelectKey(ctx, ev)
	case battle.StateInBattle:
		if snap.Pending {
			return
		}
		g.handleActionKey(ctx, ev, snap)
	case battle.StateConfirmingFlee:
		g.handleFleeKey(ctx, ev)
	case battle.StateResult:
		if ev.Key() == tcell.KeyRune && ev.Rune() == 'r' {
			if err := g.cfg.Engine.Restart(ctx); err != nil {
				g.message = err.Error()
				return
			}
			g.openMenu(MenuLead)
			g.message = "Items restocked."
		}
	}
}

func (g *Game) handleSelectKey(ctx context.Context, ev *tcell.EventKey) {
	n := len(g.battleOptions(battle.Snapshot{State: battle.StateSelectingParty}))

	switch ev.Key() {
	case tcell.KeyUp:
		g.cursor = moveCursor(g.cursor, -1, n)
	case tcell.KeyDown:
		g.cursor = moveCursor(g.cursor, 1, n)
	case tcell.KeyEscape:
		if g.menu == MenuOpponent {
			g.openMenu(MenuLead)
		}
	case tcell.KeyEnter:
		if g.menu != MenuOpponent {
			g.lead = g.cursor
			g.openMenu(MenuOpponent)
			return
		}
		snap, err := g.cfg.Engine.Start(ctx, g.lead, g.cursor)
		if err != nil {
			g.message = startMessage(err)
			g.openMenu(MenuLead)
			return
		}
		g.message = ""
		g.openMenu(MenuMain)
		g.cfg.Logger.Debug().Str("session", snap.SessionID).Msg("battle opened")
	}
}

func (g *Game) handleActionKey(ctx context.Context, ev *tcell.EventKey, snap battle.Snapshot) {
	n := len(g.battleOptions(snap))

	switch ev.Key() {
	case tcell.KeyUp:
		g.cursor = moveCursor(g.cursor, -1, n)
	case tcell.KeyDown:
		g.cursor = moveCursor(g.cursor, 1, n)
	case tcell.KeyEscape:
		g.openMenu(MenuMain)
	case tcell.KeyEnter:
		g.confirmAction(ctx)
	case tcell.KeyRune:
		if ev.Rune() == 'f' {
			g.requestFlee(ctx)
		}
	}
}

func (g *Game) confirmAction(ctx context.Context) {
	var (
		res battle.ActionResult
		err error
	)
	switch g.menu {
	case MenuMain:
		switch g.cursor {
		case mainFight:
			g.openMenu(MenuMoves)
		case mainItems:
			g.openMenu(MenuItems)
		case mainSwitch:
			g.openMenu(MenuSwitch)
		case mainFlee:
			g.requestFlee(ctx)
		}
		return
	case MenuMoves:
		res, err = g.cfg.Engine.Attack(ctx, g.cursor)
	case MenuItems:
		res, err = g.cfg.Engine.UseItem(ctx, g.cursor)
	case MenuSwitch:
		res, err = g.cfg.Engine.Switch(ctx, g.cursor)
	default:
		return
	}

	switch {
	case errors.Is(err, battle.ErrInvalidSwitch):
		g.message = "That Pokémon can't battle right now."
	case errors.Is(err, battle.ErrBusy):
		g.message = "Wait for the opponent to move."
	case err != nil:
		g.message = err.Error()
	case !res.Applied:
		g.message = res.Reason
	default:
		g.message = ""
		g.openMenu(MenuMain)
	}
}

func (g *Game) requestFlee(ctx context.Context) {
	if err := g.cfg.Engine.RequestFlee(ctx); err != nil {
		g.message = err.Error()
	}
}

func (g *Game) handleFleeKey(ctx context.Context, ev *tcell.EventKey) {
	confirm := ev.Key() == tcell.KeyRune && (ev.Rune() == 'y' || ev.Rune() == 'Y')
	cancel := ev.Key() == tcell.KeyEscape || (ev.Key() == tcell.KeyRune && (ev.Rune() == 'n' || ev.Rune() == 'N'))

	switch {
	case confirm:
		result, err := g.cfg.Engine.ConfirmFlee(ctx)
		if err != nil {
			g.message = err.Error()
			return
		}
		g.message = result.Message
		g.openMenu(MenuLead)
	case cancel:
		if err := g.cfg.Engine.CancelFlee(ctx); err != nil {
			g.message = err.Error()
		}
	}
}

func (g *Game) openMenu(m Menu) {
	g.menu = m
	g.cursor = 0
}

func startMessage(err error) string {
	switch {
	case errors.Is(err, battle.ErrFaintedMember):
		return "That Pokémon has fainted. Heal your team first."
	case errors.Is(err, battle.ErrNotFound):
		return "Pick a team member and an opponent."
	default:
		return err.Error()
	}
}

// battleOptions lists the entries of the open menu for a snapshot.
func (g *Game) battleOptions(snap battle.Snapshot) []ui.Option {
	switch {
	case snap.State == battle.StateSelectingParty && g.menu == MenuOpponent:
		opponents := g.cfg.Catalog.Opponents.All()
		opts := make([]ui.Option, len(opponents))
		for i, o := range opponents {
			opts[i] = ui.Option{
				Label:  fmt.Sprintf("%s Lv%d", gamedata.DisplayName(o.Name), o.Level),
				Detail: strings.ToUpper(strings.Join(o.Types, " ")),
			}
		}
		return opts
	case snap.State == battle.StateSelectingParty:
		members := g.cfg.Manager.Members()
		opts := make([]ui.Option, len(members))
		for i, m := range members {
			opts[i] = ui.Option{
				Label:    m.Name,
				Detail:   fmt.Sprintf("%d/%d HP", m.CurrentHP, m.MaxHP()),
				Disabled: m.IsFainted(),
			}
		}
		return opts
	case snap.State != battle.StateInBattle:
		return nil
	}

	switch g.menu {
	case MenuMoves:
		player := snap.Player()
		opts := make([]ui.Option, len(player.Moves))
		for i := range player.Moves {
			mi := &player.Moves[i]
			detail := fmt.Sprintf("%s  PP %d/%d", strings.ToUpper(mi.Def.Type), mi.PP, mi.MaxPP())
			if hint := g.effectivenessHint(&snap, i); hint != "" {
				detail += "  " + hint
			}
			opts[i] = ui.Option{
				Label:    mi.Def.Label(),
				Detail:   detail,
				Color:    g.cfg.Catalog.Types.Color(mi.Def.Type),
				Disabled: !mi.Usable(),
			}
		}
		return opts
	case MenuItems:
		opts := make([]ui.Option, len(snap.Items))
		for i, item := range snap.Items {
			opts[i] = ui.Option{
				Label:    fmt.Sprintf("%s x%d", item.Name, item.Quantity),
				Detail:   fmt.Sprintf("heals %d HP", item.Heal),
				Disabled: item.Quantity <= 0,
			}
		}
		return opts
	case MenuSwitch:
		opts := make([]ui.Option, len(snap.Party))
		for i := range snap.Party {
			c := &snap.Party[i]
			opts[i] = ui.Option{
				Label:    c.Name,
				Detail:   fmt.Sprintf("%d/%d HP", c.HP, c.MaxHP),
				Disabled: c.IsFainted() || i == snap.Active,
			}
		}
		return opts
	default:
		opts := make([]ui.Option, len(mainOptions))
		for i, label := range mainOptions {
			opts[i] = ui.Option{Label: label}
		}
		return opts
	}
}

func (g *Game) effectivenessHint(snap *battle.Snapshot, moveIndex int) string {
	if snap.Opponent == nil {
		return ""
	}
	mi := &snap.Player().Moves[moveIndex]
	if !mi.Def.IsDamaging() {
		return ""
	}
	eff := g.resolver.Preview(&mi.Def, snap.Opponent)
	switch {
	case eff == 0:
		return "no effect"
	case eff > 1:
		return "super effective"
	case eff < 1:
		return "not very effective"
	default:
		return ""
	}
}

func (g *Game) battleView() ui.BattleView {
	snap := g.cfg.Engine.Snapshot()
	v := ui.BattleView{
		Snapshot: snap,
		Options:  g.battleOptions(snap),
		Cursor:   g.cursor,
		Message:  g.message,
	}

	switch snap.State {
	case battle.StateSelectingParty:
		v.Title = "Choose your lead"
		if g.menu == MenuOpponent {
			v.Title = "Choose an opponent"
		}
	case battle.StateInBattle:
		v.Title = map[Menu]string{
			MenuMain:   "What will you do?",
			MenuMoves:  "Moves",
			MenuItems:  "Items",
			MenuSwitch: "Switch to",
		}[g.menu]
	case battle.StateConfirmingFlee:
		v.Prompt = "Run away from this battle? (y/n)"
	case battle.StateResult:
		if snap.Result != nil {
			v.Prompt = snap.Result.Message
		}
	}
	return v
}
