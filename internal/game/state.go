// Package game provides the main loop that drives the team and battle tabs.
package game

// Mode is the active tab.
type Mode int

const (
	// ModeTeam edits the saved roster.
	ModeTeam Mode = iota
	// ModeBattle picks an opponent and fights.
	ModeBattle
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeTeam:
		return "team"
	case ModeBattle:
		return "battle"
	default:
		return "unknown"
	}
}

// Menu is the battle tab's open menu.
type Menu int

const (
	// MenuLead picks the roster member that leads.
	MenuLead Menu = iota
	// MenuOpponent picks the preset opponent.
	MenuOpponent
	// MenuMain offers fight, items, switch and flee.
	MenuMain
	MenuMoves
	MenuItems
	MenuSwitch
)

// String returns a human-readable menu name.
func (m Menu) String() string {
	switch m {
	case MenuLead:
		return "lead"
	case MenuOpponent:
		return "opponent"
	case MenuMain:
		return "main"
	case MenuMoves:
		return "moves"
	case MenuItems:
		return "items"
	case MenuSwitch:
		return "switch"
	default:
		return "unknown"
	}
}

// Entries of MenuMain, in display order.
const (
	mainFight = iota
	mainItems
	mainSwitch
	mainFlee
)

var mainOptions = []string{"Fight", "Items", "Switch", "Flee"}
