package battle

import (
	"context"
	"time"
)

// Record summarises a finished battle for the history log.
type Record struct {
	ID            string
	Outcome       Outcome
	Message       string
	PlayerName    string
	OpponentName  string
	OpponentLevel int
	Turns         int
	StartedAt     time.Time
	EndedAt       time.Time
}

// Recorder stores finished battles. Failures are logged and never change the
// battle outcome.
type Recorder interface {
	RecordBattle(ctx context.Context, rec Record) error
}
