package gamedata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// TypeDef describes one elemental type tag.
type TypeDef struct {
	Name  string `json:"name"`  // Lower-case tag (e.g., "fire")
	Color string `json:"color"` // Hex color code used by the terminal UI
}

// TypesFile represents the structure of types.json.
//
// Chart maps attacking type -> defending type -> multiplier. Pairs that are not
// listed are neutral. The chart is hand-authored and intentionally left
// incomplete; do not fill in missing pairs.
type TypesFile struct {
	Types []TypeDef                     `json:"types"`
	Chart map[string]map[string]float64 `json:"chart"`
}

// TypeChart answers attack-type vs defender-type multiplier queries.
type TypeChart struct {
	chart  map[string]map[string]float64
	colors map[string]string
}

// NewTypeChart builds a chart from raw multipliers and type definitions.
// Type names are normalised to lower case.
func NewTypeChart(chart map[string]map[string]float64, types []TypeDef) *TypeChart {
	c := &TypeChart{
		chart:  make(map[string]map[string]float64, len(chart)),
		colors: make(map[string]string, len(types)),
	}
	for attacking, row := range chart {
		normalised := make(map[string]float64, len(row))
		for defending, mult := range row {
			normalised[strings.ToLower(defending)] = mult
		}
		c.chart[strings.ToLower(attacking)] = normalised
	}
	for _, t := range types {
		c.colors[strings.ToLower(t.Name)] = t.Color
	}
	return c
}

// LoadTypeChart loads the chart from the embedded types.json.
func LoadTypeChart() (*TypeChart, error) {
	file, err := Load[TypesFile]("types.json")
	if err != nil {
		return nil, err
	}
	if len(file.Chart) == 0 {
		return nil, errors.New("no type chart loaded from types.json")
	}
	return NewTypeChart(file.Chart, file.Types), nil
}

// MustLoadTypeChart loads the chart, panicking on error.
func MustLoadTypeChart() *TypeChart {
	chart, err := LoadTypeChart()
	if err != nil {
		panic(err)
	}
	return chart
}

// Effectiveness returns the damage multiplier of moveType against a defender
// with the given types. Multipliers compound across defender types, so a
// dual-typed defender can take 4x, 1x or 0x.
func (c *TypeChart) Effectiveness(moveType string, defenderTypes []string) float64 {
	eff := 1.0
	row, ok := c.chart[strings.ToLower(moveType)]
	if !ok {
		return eff
	}
	for _, t := range defenderTypes {
		if mult, ok := row[strings.ToLower(t)]; ok {
			eff *= mult
		}
	}
	return eff
}

// Types returns the known type names in no particular order.
func (c *TypeChart) Types() []string {
	names := make([]string, 0, len(c.colors))
	for name := range c.colors {
		names = append(names, name)
	}
	return names
}

// Color returns the display color for a type tag, white when unknown.
func (c *TypeChart) Color(typeName string) tcell.Color {
	hex, ok := c.colors[strings.ToLower(typeName)]
	if !ok {
		return tcell.ColorWhite
	}
	color, err := ParseHexColor(hex)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000") to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %s", hex)
	}

	var rgb [3]int32
	for i := range rgb {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("invalid color component %d in %s: %w", i, hex, err)
		}
		rgb[i] = int32(v)
	}

	return tcell.NewRGBColor(rgb[0], rgb[1], rgb[2]), nil
}
