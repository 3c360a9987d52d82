package migrations

import "embed"

// FS contains embedded SQLite migrations for battle history.
//
//go:embed *.sql
var FS embed.FS
