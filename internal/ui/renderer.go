package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/pokehub/internal/battle"
	"github.com/samdwyer/pokehub/internal/entity"
	"github.com/samdwyer/pokehub/internal/gamedata"
)

const hpBarWidth = 20

var (
	styleText    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleCursor  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	styleMessage = tcell.StyleDefault.Foreground(tcell.ColorAqua)
)

// Tab is a top-level screen.
type Tab int

const (
	TabTeam Tab = iota
	TabBattle
)

// Option is one selectable menu line.
type Option struct {
	Label    string
	Detail   string
	Color    tcell.Color // Label color, ColorDefault for plain text
	Disabled bool
}

// TeamView is everything the team tab draws.
type TeamView struct {
	Members       []entity.Member
	Species       []gamedata.SpeciesDef
	SpeciesCursor int
	MemberCursor  int
	RosterFocused bool
	Summary       string   // Win/loss tally
	History       []string // Recent battles, newest first
	Message       string
}

// BattleView is everything the battle tab draws.
type BattleView struct {
	Snapshot battle.Snapshot
	Title    string
	Options  []Option
	Cursor   int
	Prompt   string
	Message  string
}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
	types  *gamedata.TypeChart
}

// NewRenderer creates a new renderer for the given screen. Type tags are
// colored from the chart.
func NewRenderer(screen *Screen, types *gamedata.TypeChart) *Renderer {
	return &Renderer{screen: screen, types: types}
}

// RenderTeam draws the species catalog next to the saved roster.
func (r *Renderer) RenderTeam(v TeamView) {
	r.screen.Clear()
	r.drawTabs(TabTeam)
	_, height := r.screen.Size()

	listTop := 3
	listHeight := height - listTop - 3
	if listHeight < 1 {
		listHeight = 1
	}

	r.screen.DrawText(1, 2, "Species", styleTitle)
	start := scrollStart(v.SpeciesCursor, len(v.Species), listHeight)
	for row := 0; row < listHeight && start+row < len(v.Species); row++ {
		i := start + row
		sp := &v.Species[i]
		style := styleText
		if i == v.SpeciesCursor && !v.RosterFocused {
			style = styleCursor
		}
		x := r.screen.DrawText(1, listTop+row, fmt.Sprintf("#%03d %-12s", sp.ID, sp.Label()), style)
		r.drawTypes(x+1, listTop+row, sp.Types)
	}

	col := 40
	r.screen.DrawText(col, 2, fmt.Sprintf("Team %d/6", len(v.Members)), styleTitle)
	for i := range v.Members {
		m := &v.Members[i]
		style := styleText
		if i == v.MemberCursor && v.RosterFocused {
			style = styleCursor
		}
		x := r.screen.DrawText(col, listTop+i, fmt.Sprintf("%-12s Lv%d", m.Name, m.Level), style)
		r.drawHP(x+1, listTop+i, m.CurrentHP, m.MaxHP())
	}

	y := listTop + 7
	if v.Summary != "" {
		r.screen.DrawText(col, y, v.Summary, styleTitle)
		y++
	}
	for _, line := range v.History {
		if y >= height-3 {
			break
		}
		r.screen.DrawText(col, y, line, styleDim)
		y++
	}

	r.drawFooter(v.Message, "a add  d remove  c clear  h heal  tab switch list  b battle  q quit")
	r.screen.Show()
}

// RenderBattle draws a battle snapshot with the current menu.
func (r *Renderer) RenderBattle(v BattleView) {
	r.screen.Clear()
	r.drawTabs(TabBattle)
	snap := v.Snapshot
	_, height := r.screen.Size()

	y := 2
	if snap.Opponent != nil {
		r.drawCombatant(1, y, snap.Opponent, "Foe")
		y += 2
	}
	if player := snap.Player(); player != nil {
		r.drawCombatant(1, y, player, "You")
		y += 2
	}

	if v.Title != "" {
		y++
		r.screen.DrawText(1, y, v.Title, styleTitle)
		y++
		for i, opt := range v.Options {
			r.drawOption(1, y, opt, i == v.Cursor)
			y++
		}
	}
	if v.Prompt != "" {
		y++
		r.screen.DrawText(1, y, v.Prompt, styleTitle)
		y++
	}

	// Log fills the remaining rows, newest at the bottom.
	logTop := y + 1
	rows := height - 3 - logTop
	if rows > 0 && len(snap.Log) > 0 {
		lines := snap.Log
		if len(lines) > rows {
			lines = lines[len(lines)-rows:]
		}
		for i, line := range lines {
			r.screen.DrawText(1, logTop+i, line, styleText)
		}
	}

	help := "enter select  esc back  f flee  q quit"
	switch snap.State {
	case battle.StateSelectingParty:
		help = "enter select  esc back  t team  q quit"
	case battle.StateResult:
		help = "r restart  t team  q quit"
	case battle.StateConfirmingFlee:
		help = "y flee  n stay"
	}
	if snap.Pending {
		help = "waiting for the opponent..."
	}
	r.drawFooter(v.Message, help)
	r.screen.Show()
}

func (r *Renderer) drawTabs(active Tab) {
	x := 1
	for i, name := range []string{"Team", "Battle"} {
		style := styleDim
		if Tab(i) == active {
			style = styleTitle.Underline(true)
		}
		x = r.screen.DrawText(x, 0, name, style) + 3
	}
}

func (r *Renderer) drawFooter(message, help string) {
	_, height := r.screen.Size()
	if message != "" {
		r.screen.DrawText(1, height-2, message, styleMessage)
	}
	r.screen.DrawText(1, height-1, help, styleDim)
}

func (r *Renderer) drawCombatant(x, y int, c *entity.Combatant, label string) {
	x = r.screen.DrawText(x, y, fmt.Sprintf("%s: %s Lv%d", label, c.Name, c.Level), styleText)
	r.drawTypes(x+1, y, c.Types)
	r.drawHP(3, y+1, c.HP, c.MaxHP)
}

func (r *Renderer) drawTypes(x, y int, types []string) int {
	for _, t := range types {
		x = r.screen.DrawText(x, y, strings.ToUpper(t), tcell.StyleDefault.Foreground(r.typeColor(t))) + 1
	}
	return x
}

func (r *Renderer) drawHP(x, y, hp, maxHP int) int {
	bar, color := HPBar(hp, maxHP, hpBarWidth)
	x = r.screen.DrawText(x, y, bar, tcell.StyleDefault.Foreground(color))
	return r.screen.DrawText(x+1, y, fmt.Sprintf("%d/%d", hp, maxHP), styleText)
}

func (r *Renderer) drawOption(x, y int, opt Option, selected bool) {
	style := styleText
	if opt.Color != tcell.ColorDefault {
		style = style.Foreground(opt.Color)
	}
	if opt.Disabled {
		style = styleDim
	}
	marker := "  "
	if selected {
		marker = "> "
		style = style.Bold(true)
	}
	x = r.screen.DrawText(x, y, marker, styleTitle)
	x = r.screen.DrawText(x, y, opt.Label, style)
	if opt.Detail != "" {
		r.screen.DrawText(x+2, y, opt.Detail, styleDim)
	}
}

func (r *Renderer) typeColor(t string) tcell.Color {
	if r.types == nil {
		return tcell.ColorWhite
	}
	return r.types.Color(t)
}

// HPBar returns a bar of the given width filled in proportion to hp, and its
// color: green above half, yellow above a fifth, red otherwise.
func HPBar(hp, maxHP, width int) (string, tcell.Color) {
	if maxHP <= 0 || hp < 0 {
		hp = 0
	}
	filled := 0
	if maxHP > 0 {
		filled = (hp*width + maxHP - 1) / maxHP
	}
	if filled > width {
		filled = width
	}
	bar := "[" + strings.Repeat("█", filled) + strings.Repeat("·", width-filled) + "]"

	switch {
	case maxHP > 0 && hp*2 > maxHP:
		return bar, tcell.ColorGreen
	case maxHP > 0 && hp*5 > maxHP:
		return bar, tcell.ColorYellow
	default:
		return bar, tcell.ColorRed
	}
}

// scrollStart returns the first visible index that keeps cursor on screen.
func scrollStart(cursor, total, rows int) int {
	if total <= rows || cursor < rows/2 {
		return 0
	}
	start := cursor - rows/2
	if start > total-rows {
		start = total - rows
	}
	return start
}
