package portfolio

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Breakpoint switches the column count at and below MaxWidth pixels.
type Breakpoint struct {
	Name     string
	MaxWidth int
	Columns  int
}

// Grid lays project cards out with a breakpoint dependent column count.
type Grid struct {
	Gap         int
	Columns     int
	Breakpoints []Breakpoint
}

// DefaultGrid is three columns at full width, two on giant and desktop
// screens and one on tablets and phones.
func DefaultGrid() Grid {
	return Grid{
		Gap:     20,
		Columns: 3,
		Breakpoints: []Breakpoint{
			{Name: "giant", MaxWidth: 1170, Columns: 2},
			{Name: "desktop", MaxWidth: 992, Columns: 2},
			{Name: "tablet", MaxWidth: 768, Columns: 1},
			{Name: "phone", MaxWidth: 376, Columns: 1},
		},
	}
}

// sorted returns the breakpoints widest first, which is the order the media
// queries have to be emitted in for the narrower ones to win.
func (g Grid) sorted() []Breakpoint {
	bps := make([]Breakpoint, len(g.Breakpoints))
	copy(bps, g.Breakpoints)

	sort.SliceStable(bps, func(i, j int) bool {
		return bps[i].MaxWidth > bps[j].MaxWidth
	})

	return bps
}

// ColumnsAt returns the number of columns for a viewport width in pixels.
func (g Grid) ColumnsAt(width int) int {
	columns := g.Columns

	for _, bp := range g.sorted() {
		if width <= bp.MaxWidth {
			columns = bp.Columns
		}
	}

	return columns
}

// CSS renders the grid rules for selector.
func (g Grid) CSS(selector string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s {\n  display: grid;\n  grid-gap: %dpx;\n  grid-template-columns: repeat(%d, 1fr);\n}\n",
		selector, g.Gap, g.Columns)

	for _, bp := range g.sorted() {
		fmt.Fprintf(&b, "@media (max-width: %sem) {\n  %s {\n    grid-template-columns: repeat(%d, 1fr);\n  }\n}\n",
			emWidth(bp.MaxWidth), selector, bp.Columns)
	}

	return b.String()
}

func emWidth(px int) string {
	return strconv.FormatFloat(float64(px)/16, 'f', -1, 64)
}
