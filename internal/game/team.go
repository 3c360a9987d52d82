package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/pokehub/internal/entity"
	"github.com/samdwyer/pokehub/internal/roster"
	"github.com/samdwyer/pokehub/internal/ui"
)

func (g *Game) handleTeamKey(ctx context.Context, ev *tcell.EventKey) {
	species := g.cfg.Catalog.Species.All()
	members := g.cfg.Manager.Members()

	switch ev.Key() {
	case tcell.KeyUp:
		g.stepTeamCursor(-1, len(species), len(members))
	case tcell.KeyDown:
		g.stepTeamCursor(1, len(species), len(members))
	case tcell.KeyTab:
		g.rosterFocused = !g.rosterFocused
	case tcell.KeyEnter:
		if g.rosterFocused {
			g.removeMember(ctx, members)
		} else {
			g.addSpecies(ctx)
		}
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		g.removeMember(ctx, members)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'a':
			g.addSpecies(ctx)
		case 'd':
			g.removeMember(ctx, members)
		case 'c':
			if err := g.cfg.Manager.Clear(ctx); err != nil {
				g.message = err.Error()
				return
			}
			g.memberCursor = 0
			g.message = "Team cleared."
		case 'h':
			if err := g.cfg.Manager.Heal(ctx); err != nil {
				g.message = err.Error()
				return
			}
			g.message = "Your team was healed to full HP."
		case 'b':
			if len(members) == 0 {
				g.message = "Add a Pokémon to your team first."
				return
			}
			g.message = ""
			g.switchMode(ctx, ModeBattle)
		}
	}
}

func (g *Game) stepTeamCursor(delta, speciesCount, memberCount int) {
	if g.rosterFocused {
		g.memberCursor = moveCursor(g.memberCursor, delta, memberCount)
		return
	}
	g.speciesCursor = moveCursor(g.speciesCursor, delta, speciesCount)
}

func (g *Game) addSpecies(ctx context.Context) {
	species := g.cfg.Catalog.Species.All()
	if g.speciesCursor < 0 || g.speciesCursor >= len(species) {
		return
	}
	sp := &species[g.speciesCursor]

	member, err := g.cfg.Manager.Add(ctx, sp)
	switch {
	case errors.Is(err, roster.ErrRosterFull):
		g.message = fmt.Sprintf("Your team is full (%d/%d).", roster.MaxMembers, roster.MaxMembers)
	case errors.Is(err, roster.ErrDuplicateSpecies):
		g.message = fmt.Sprintf("%s is already on your team.", sp.Label())
	case err != nil:
		g.message = err.Error()
	default:
		g.message = fmt.Sprintf("%s joined your team!", member.Name)
	}
}

func (g *Game) removeMember(ctx context.Context, members []entity.Member) {
	if g.memberCursor < 0 || g.memberCursor >= len(members) {
		return
	}
	m := members[g.memberCursor]
	if err := g.cfg.Manager.Remove(ctx, m.SpeciesID); err != nil {
		g.message = err.Error()
		return
	}
	g.message = fmt.Sprintf("%s left your team.", m.Name)
	if g.memberCursor >= len(members)-1 && g.memberCursor > 0 {
		g.memberCursor--
	}
}

func (g *Game) teamView(ctx context.Context) ui.TeamView {
	v := ui.TeamView{
		Members:       g.cfg.Manager.Members(),
		Species:       g.cfg.Catalog.Species.All(),
		SpeciesCursor: g.speciesCursor,
		MemberCursor:  g.memberCursor,
		RosterFocused: g.rosterFocused,
		Message:       g.message,
	}
	if g.cfg.History == nil {
		return v
	}

	tally, err := g.cfg.History.Tally(ctx)
	if err != nil {
		g.cfg.Logger.Warn().Err(err).Msg("read battle tally")
		return v
	}
	v.Summary = fmt.Sprintf("Record: %dW %dL %dF", tally.Won, tally.Lost, tally.Fled)

	records, err := g.cfg.History.ListBattles(ctx, HistoryLimit)
	if err != nil {
		g.cfg.Logger.Warn().Err(err).Msg("list battles")
		return v
	}
	for _, rec := range records {
		v.History = append(v.History, fmt.Sprintf("%s %s vs %s Lv%d, %d turns",
			rec.Outcome, rec.PlayerName, rec.OpponentName, rec.OpponentLevel, rec.Turns))
	}
	return v
}
