package layout

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-lms/internal/features/widget"
)

func randomLayout(r *rand.Rand, n int) []Item {
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		w := 1 + r.Intn(Columns)
		items = append(items, Item{
			I: fmt.Sprintf("w%02d", i),
			X: r.Intn(Columns),
			Y: r.Intn(20),
			W: w,
			H: 1 + r.Intn(MaxH),
		})
	}
	return items
}

func assertNoOverlap(t *testing.T, items []Item) {
	t.Helper()
	a, b, found := Overlaps(items)
	assert.False(t, found, "%s overlaps %s", a, b)
}

func TestCompactIsIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for n := 0; n < 200; n++ {
		l := randomLayout(r, r.Intn(12))
		once := Compact(l)
		assert.Equal(t, once, Compact(once))
		assertNoOverlap(t, once)
	}
}

func TestCompactOrdersByPosition(t *testing.T) {
	l := []Item{{I: "w00", X: 10, Y: 3, W: 2, H: 1}, {I: "w01", X: 5, Y: 0, W: 4, H: 2}}
	expect := []Item{{I: "w01", X: 5, Y: 0, W: 4, H: 2}, {I: "w00", X: 10, Y: 0, W: 2, H: 1}}

	once := Compact(l)
	assert.Equal(t, expect, once)
	assert.Equal(t, once, Compact(once))
}

func TestOperationsNeverOverlap(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	types := widget.Types()
	for n := 0; n < 100; n++ {
		l := Compact(randomLayout(r, 1+r.Intn(8)))
		id := l[r.Intn(len(l))].I

		moved := ApplyMove(l, id, r.Intn(16)-2, r.Intn(20)-2)
		assertNoOverlap(t, moved)

		resized := ApplyResize(moved, id, r.Intn(16), r.Intn(12))
		assertNoOverlap(t, resized)

		appended := AppendAtBottom(resized, "new", types[r.Intn(len(types))].Type)
		assertNoOverlap(t, appended)
		require.Len(t, appended, len(l)+1)
	}
}

func TestAppendAtBottom(t *testing.T) {
	tests := []struct {
		name   string
		items  []Item
		typ    widget.Type
		expect Item
	}{
		{
			name:   "empty grid",
			typ:    widget.TypeLineChart,
			expect: Item{I: "new", X: 0, Y: 0, W: 6, H: 4},
		},
		{
			name:   "below a half-width chart",
			items:  []Item{{I: "a", X: 0, Y: 0, W: 6, H: 4}},
			typ:    widget.TypeStatCard,
			expect: Item{I: "new", X: 0, Y: 4, W: 3, H: 2},
		},
		{
			name:   "pulled up into a free column",
			items:  []Item{{I: "a", X: 0, Y: 0, W: 3, H: 2}, {I: "b", X: 6, Y: 0, W: 6, H: 5}},
			typ:    widget.TypeProgressRing,
			expect: Item{I: "new", X: 0, Y: 2, W: 3, H: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := AppendAtBottom(tt.items, "new", tt.typ)
			var got Item
			for _, it := range out {
				if it.I == "new" {
					got = it
				}
			}
			assert.Equal(t, tt.expect, got)
		})
	}
}

func TestApplyResizeClamps(t *testing.T) {
	l := []Item{{I: "a", X: 0, Y: 0, W: 6, H: 4}}

	wide := ApplyResize(l, "a", 20, 4)
	assert.Equal(t, 12, wide[0].W)

	short := ApplyResize(l, "a", 6, 1)
	assert.Equal(t, 2, short[0].H)

	tiny := ApplyResize(l, "a", 0, 99)
	assert.Equal(t, Item{I: "a", X: 0, Y: 0, W: MinW, H: MaxH}, tiny[0])
}

func TestApplyResizeKeepsWidgetOnGrid(t *testing.T) {
	l := []Item{{I: "a", X: 8, Y: 0, W: 4, H: 2}}
	out := ApplyResize(l, "a", 10, 2)
	assert.Equal(t, 2, out[0].X)
	assert.Equal(t, 10, out[0].W)
}

func TestApplyMovePushesCollidingWidgetDown(t *testing.T) {
	l := []Item{
		{I: "a", X: 0, Y: 0, W: 6, H: 4},
		{I: "b", X: 6, Y: 0, W: 6, H: 4},
	}
	out := ApplyMove(l, "b", 3, 0)
	require.Len(t, out, 2)
	assertNoOverlap(t, out)

	byID := map[string]Item{}
	for _, it := range out {
		byID[it.I] = it
	}
	assert.Equal(t, Item{I: "b", X: 3, Y: 0, W: 6, H: 4}, byID["b"])
	assert.Equal(t, Item{I: "a", X: 0, Y: 4, W: 6, H: 4}, byID["a"])
}

func TestApplyMoveSwapsVerticalStack(t *testing.T) {
	tests := []struct {
		name   string
		items  []Item
		move   string
		expect []Item
	}{
		{
			name:   "lower widget dragged to the top",
			items:  []Item{{I: "a", X: 0, Y: 0, W: 6, H: 4}, {I: "b", X: 0, Y: 4, W: 6, H: 4}},
			move:   "b",
			expect: []Item{{I: "b", X: 0, Y: 0, W: 6, H: 4}, {I: "a", X: 0, Y: 4, W: 6, H: 4}},
		},
		{
			name:   "other order",
			items:  []Item{{I: "b", X: 0, Y: 0, W: 6, H: 4}, {I: "a", X: 0, Y: 4, W: 6, H: 4}},
			move:   "a",
			expect: []Item{{I: "a", X: 0, Y: 0, W: 6, H: 4}, {I: "b", X: 0, Y: 4, W: 6, H: 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ApplyMove(tt.items, tt.move, 0, 0)
			assert.Equal(t, tt.expect, out)
			assert.Equal(t, out, Compact(out))
		})
	}
}

func TestApplyMoveDroppedBelowIsCompacted(t *testing.T) {
	l := []Item{{I: "a", X: 0, Y: 0, W: 6, H: 4}, {I: "b", X: 6, Y: 0, W: 6, H: 4}}
	out := ApplyMove(l, "b", 6, 12)
	assert.Equal(t, l, out)
}

func TestApplyMoveUnknownID(t *testing.T) {
	l := []Item{{I: "a", X: 0, Y: 3, W: 6, H: 4}}
	out := ApplyMove(l, "zzz", 1, 1)
	assert.Equal(t, []Item{{I: "a", X: 0, Y: 0, W: 6, H: 4}}, out)
	assert.Equal(t, 3, l[0].Y)
}

func TestForBreakpointClampsWidthOnly(t *testing.T) {
	stored := []Item{
		{I: "a", X: 0, Y: 0, W: 12, H: 2},
		{I: "b", X: 6, Y: 2, W: 6, H: 4},
	}
	out := ForBreakpoint(stored, SM)
	assertNoOverlap(t, out)
	for _, it := range out {
		assert.LessOrEqual(t, it.X+it.W, 6)
	}
	assert.Equal(t, 12, stored[0].W)

	assert.Equal(t, Compact(stored), ForBreakpoint(stored, LG))
}

func TestBreakpoints(t *testing.T) {
	tests := []struct {
		width int
		bp    Breakpoint
		cols  int
	}{
		{1440, LG, 12},
		{1000, MD, 10},
		{800, SM, 6},
		{500, XS, 4},
		{320, XXS, 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.bp), func(t *testing.T) {
			assert.Equal(t, tt.bp, BreakpointFor(tt.width))
			assert.Equal(t, tt.cols, ColumnsFor(tt.bp))
		})
	}
	assert.Equal(t, Columns, ColumnsFor(Breakpoint("huge")))
}

func TestNormalize(t *testing.T) {
	in := []Item{
		{I: "a", X: -3, Y: -1, W: 30, H: 1},
		{I: "b", X: 11, Y: 0, W: 4, H: 3},
	}
	out := Normalize(in)

	byID := map[string]Item{}
	for _, it := range out {
		byID[it.I] = it
	}
	assert.Equal(t, Item{I: "a", X: 0, Y: 0, W: 12, H: 2}, byID["a"])
	assert.Equal(t, Item{I: "b", X: 8, Y: 2, W: 4, H: 3}, byID["b"])
	_, _, overlap := Overlaps(out)
	assert.False(t, overlap)
	assert.Equal(t, -3, in[0].X, "input untouched")
}
