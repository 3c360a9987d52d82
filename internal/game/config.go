package game

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/samdwyer/pokehub/internal/battle"
	"github.com/samdwyer/pokehub/internal/gamedata"
	"github.com/samdwyer/pokehub/internal/roster"
	"github.com/samdwyer/pokehub/internal/storage/sqlite"
)

// HistoryLimit is how many recent battles the team tab lists.
const HistoryLimit = 5

// History reads finished battles. It is optional.
type History interface {
	ListBattles(ctx context.Context, limit int) ([]battle.Record, error)
	Tally(ctx context.Context) (sqlite.Tally, error)
}

// Config holds the components the game loop drives.
type Config struct {
	Catalog *gamedata.Catalog
	Manager *roster.Manager
	Engine  *battle.Engine
	History History
	Logger  zerolog.Logger
}
