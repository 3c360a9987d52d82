// Package gamedata provides the embedded battle data (type chart, moves,
// movepools, species, opponents and items) and the registries that serve it.
package gamedata

import "embed"

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS
