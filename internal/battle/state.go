// Package battle runs one turn-based battle at a time: the session state
// machine, turn resolution, the deferred opponent reply, the opponent AI and
// the item inventory.
package battle

import (
	"context"

	"github.com/looplab/fsm"
	"github.com/rs/zerolog"
)

// State is a battle screen state.
type State string

const (
	// StateSelectingParty waits for the player to pick a lead and an opponent.
	StateSelectingParty State = "selecting_party"
	// StateInBattle accepts attack, item, switch and flee actions.
	StateInBattle State = "in_battle"
	// StateConfirmingFlee waits for the player to confirm or cancel fleeing.
	StateConfirmingFlee State = "confirming_flee"
	// StateResult shows the outcome and only accepts restart.
	StateResult State = "result"
)

// Battle state machine events.
const (
	eventStart       = "start"
	eventFlee        = "flee"
	eventCancelFlee  = "cancel_flee"
	eventConfirmFlee = "confirm_flee"
	eventFinish      = "finish"
	eventRestart     = "restart"
	eventLeave       = "leave"
)

// Outcome is how a battle ended.
type Outcome string

const (
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
	OutcomeFled Outcome = "fled"
)

// Result is the terminal signal handed to the UI.
type Result struct {
	Outcome Outcome
	Message string
}

func newStateMachine(logger zerolog.Logger) *fsm.FSM {
	return fsm.NewFSM(
		string(StateSelectingParty),
		fsm.Events{
			{Name: eventStart, Src: []string{string(StateSelectingParty)}, Dst: string(StateInBattle)},
			{Name: eventFlee, Src: []string{string(StateInBattle)}, Dst: string(StateConfirmingFlee)},
			{Name: eventCancelFlee, Src: []string{string(StateConfirmingFlee)}, Dst: string(StateInBattle)},
			{Name: eventConfirmFlee, Src: []string{string(StateConfirmingFlee)}, Dst: string(StateSelectingParty)},
			{Name: eventFinish, Src: []string{string(StateInBattle)}, Dst: string(StateResult)},
			{Name: eventRestart, Src: []string{string(StateResult)}, Dst: string(StateSelectingParty)},
			{Name: eventLeave, Src: []string{string(StateInBattle), string(StateConfirmingFlee), string(StateResult)}, Dst: string(StateSelectingParty)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				logger.Debug().
					Str("event", e.Event).
					Str("from", e.Src).
					Str("to", e.Dst).
					Msg("battle state changed")
			},
		},
	)
}
