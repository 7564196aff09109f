package portfolio_test

import (
	"strings"
	"testing"

	"github.com/rialms/scottspence.me/internal/portfolio"
)

func TestGridColumnsAt(t *testing.T) {
	grid := portfolio.DefaultGrid()

	cases := map[int]int{
		1920: 3,
		1171: 3,
		1170: 2,
		993:  2,
		992:  2,
		800:  2,
		768:  1,
		375:  1,
	}

	for width, want := range cases {
		if got := grid.ColumnsAt(width); got != want {
			t.Errorf("ColumnsAt(%d) = %d, want %d", width, got, want)
		}
	}
}

func TestGridCSSWidestFirst(t *testing.T) {
	grid := portfolio.Grid{
		Gap:     10,
		Columns: 4,
		Breakpoints: []portfolio.Breakpoint{
			{Name: "phone", MaxWidth: 400, Columns: 1},
			{Name: "desktop", MaxWidth: 1024, Columns: 2},
		},
	}

	css := grid.CSS(".projects")

	for _, want := range []string{
		"grid-gap: 10px;",
		"grid-template-columns: repeat(4, 1fr);",
		"@media (max-width: 64em)",
		"@media (max-width: 25em)",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("CSS missing %q:\n%s", want, css)
		}
	}

	if strings.Index(css, "64em") > strings.Index(css, "25em") {
		t.Errorf("media queries must be emitted widest first:\n%s", css)
	}
}
