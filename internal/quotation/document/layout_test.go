package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineMeasurer treats every '\n' as a wrap point and every rune as 2mm.
type lineMeasurer struct{}

func (lineMeasurer) Lines(text string, _ float64, _ bool, _ float64) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func (lineMeasurer) Width(text string, _ float64, _ bool) float64 {
	return float64(len([]rune(text))) * 2
}

func testGeometry() Geometry {
	return Geometry{PageWidth: 200, PageHeight: 100, Top: 10, Bottom: 10, Left: 10, Right: 10}
}

func numbered(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "line"
	}
	return strings.Join(lines, "\n")
}

func placementsOn(plan Plan, section string, page int) []Placement {
	var out []Placement
	for _, pl := range plan.Placements {
		if pl.Section == section && pl.Page == page {
			out = append(out, pl)
		}
	}
	return out
}

// ==========================
// Fold
// ==========================

func TestFold_TextBreaksAcrossPages(t *testing.T) {
	layout := NewLayout(testGeometry(), lineMeasurer{})

	plan := layout.Fold([]Section{{
		Name:   "body",
		Blocks: []Block{Title("Heading", 16), Text(numbered(12), 10, false)},
	}})

	require.Equal(t, 2, plan.Pages)
	// title at 10, lines at 25..79 fit under the 90mm limit
	assert.Len(t, placementsOn(plan, "body", 1), 11)
	second := placementsOn(plan, "body", 2)
	require.Len(t, second, 2)
	assert.Equal(t, 10.0, second[0].Y)
	assert.Equal(t, 16.0, second[1].Y)
	assert.Equal(t, []SectionMark{{Name: "body", StartPage: 1, EndPage: 2}}, plan.Sections)
}

func TestFold_EverySectionStartsNewPage(t *testing.T) {
	layout := NewLayout(testGeometry(), lineMeasurer{})

	plan := layout.Fold([]Section{
		{Name: "a", Blocks: []Block{Text("short", 10, false)}},
		{Name: "b", Blocks: []Block{Text("short", 10, false)}},
		{Name: "c"},
	})

	assert.Equal(t, 3, plan.Pages)
	assert.Equal(t, []SectionMark{
		{Name: "a", StartPage: 1, EndPage: 1},
		{Name: "b", StartPage: 2, EndPage: 2},
		{Name: "c", StartPage: 3, EndPage: 3},
	}, plan.Sections)
}

func TestFold_BlockThatDoesNotFitMoves(t *testing.T) {
	layout := NewLayout(testGeometry(), lineMeasurer{})

	plan := layout.Fold([]Section{{
		Name: "s",
		Blocks: []Block{
			Spacer(65),
			Banner("SCHEDULE"),
		},
	}})

	// 10 + 65 = 75; the banner needs 20 and the limit is 90
	require.Equal(t, 2, plan.Pages)
	banner := placementsOn(plan, "s", 2)
	require.Len(t, banner, 2)
	assert.Equal(t, OpRect, banner[0].Op)
	assert.Equal(t, 5.0, banner[0].Y)
	assert.Equal(t, 180.0, banner[0].W)
	assert.Equal(t, RoleWhite, banner[1].Role)
}

func TestFold_FootersRightAligned(t *testing.T) {
	layout := NewLayout(testGeometry(), lineMeasurer{})
	plan := layout.Fold([]Section{{Name: "a"}, {Name: "b"}})

	var footers []Placement
	for _, pl := range plan.Placements {
		if pl.Section == "" {
			footers = append(footers, pl)
		}
	}
	require.Len(t, footers, 2)
	assert.Equal(t, "Page 1 of 2", footers[0].Text)
	assert.Equal(t, "Page 2 of 2", footers[1].Text)
	assert.Equal(t, 90.0, footers[0].Y)
	assert.InDelta(t, 190.0-22.0, footers[0].X, 0.001)
	assert.Equal(t, RoleMuted, footers[0].Role)
}

func TestFold_EmptyTextLeavesNoGap(t *testing.T) {
	layout := NewLayout(testGeometry(), lineMeasurer{})
	plan := layout.Fold([]Section{{
		Name:   "s",
		Blocks: []Block{Text("", 10, false), Text("after", 10, false)},
	}})

	body := placementsOn(plan, "s", 1)
	require.Len(t, body, 1)
	assert.Equal(t, 10.0, body[0].Y)
}

func TestFold_ImageRegistered(t *testing.T) {
	layout := NewLayout(testGeometry(), lineMeasurer{})
	plan := layout.Fold([]Section{{
		Name:   "s",
		Blocks: []Block{Image("qr", []byte("png"), 35)},
	}})

	assert.Equal(t, []byte("png"), plan.Images["qr"])
	body := placementsOn(plan, "s", 1)
	require.Len(t, body, 1)
	assert.Equal(t, OpImage, body[0].Op)
	assert.Equal(t, 35.0, body[0].W)
}
