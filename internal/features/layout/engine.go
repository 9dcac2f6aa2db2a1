package layout

import (
	"sort"

	"go-lms/internal/features/widget"
)

// ApplyMove sets the position of id and compacts. The moved widget wins any contested
// cell: it is placed first and every other widget settles around it before the final
// compaction. Unknown ids leave the layout as is.
func ApplyMove(items []Item, id string, x, y int) []Item {
	out := clone(items)
	for i := range out {
		if out[i].I == id {
			out[i].X = clamp(x, 0, Columns-out[i].W)
			out[i].Y = max(y, 0)
		}
	}
	return Compact(compactAround(out, Columns, id))
}

// ApplyResize sets the size of id, clamped to MinW×MinH .. MaxW×MaxH, and compacts.
func ApplyResize(items []Item, id string, w, h int) []Item {
	out := clone(items)
	for i := range out {
		if out[i].I == id {
			out[i].W = clamp(w, MinW, MaxW)
			out[i].H = clamp(h, MinH, MaxH)
			out[i].X = clamp(out[i].X, 0, Columns-out[i].W)
		}
	}
	return Compact(out)
}

// AppendAtBottom places id at column 0 one row past the lowest occupied row, sized with
// the type defaults. The result always carries concrete coordinates.
func AppendAtBottom(items []Item, id string, t widget.Type) []Item {
	d := widget.Describe(t)
	out := clone(items)
	out = append(out, Item{
		I: id,
		X: 0,
		Y: maxBottom(out),
		W: clamp(d.DefaultWidth, MinW, MaxW),
		H: clamp(d.DefaultHeight, MinH, MaxH),
	})
	return Compact(out)
}

// Normalize clamps every rectangle into the grid and compacts. Layouts posted by clients go
// through here before they are stored.
func Normalize(items []Item) []Item {
	out := clone(items)
	for i := range out {
		out[i].W = clamp(out[i].W, MinW, MaxW)
		out[i].H = clamp(out[i].H, MinH, MaxH)
		out[i].X = clamp(out[i].X, 0, Columns-out[i].W)
		out[i].Y = max(out[i].Y, 0)
	}
	return Compact(out)
}

// Compact applies vertical compaction on the stored 12-column grid.
func Compact(items []Item) []Item {
	return compact(items, Columns)
}

// ForBreakpoint re-flows the stored layout for a narrower tier. Widths beyond the tier's
// column count are clamped for rendering only; the input slice is not modified.
func ForBreakpoint(items []Item, bp Breakpoint) []Item {
	cols := ColumnsFor(bp)
	out := clone(items)
	for i := range out {
		out[i].W = clamp(out[i].W, 1, cols)
		out[i].X = clamp(out[i].X, 0, cols-out[i].W)
	}
	return compact(out, cols)
}

// Overlaps returns the first pair of ids whose rectangles intersect.
func Overlaps(items []Item) (string, string, bool) {
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if items[i].Overlaps(items[j]) {
				return items[i].I, items[j].I, true
			}
		}
	}
	return "", "", false
}

// compact walks items in (y, x, id) order. Each item is first pushed below anything it
// collides with, then pulled up while the row above is free. The result is sorted by
// (y, x, id) so compacting twice returns the same slice.
func compact(items []Item, cols int) []Item {
	return compactAround(items, cols, "")
}

// compactAround is compact with pinned placed first and left where it is, so other items
// yield to it.
func compactAround(items []Item, cols int, pinned string) []Item {
	out := clone(items)
	for i := range out {
		out[i].W = clamp(out[i].W, 1, cols)
		out[i].H = max(out[i].H, 1)
		out[i].X = clamp(out[i].X, 0, cols-out[i].W)
		out[i].Y = max(out[i].Y, 0)
	}
	sortByPosition(out)
	if pinned != "" {
		sort.SliceStable(out, func(a, b int) bool {
			return out[a].I == pinned && out[b].I != pinned
		})
	}

	placed := make([]Item, 0, len(out))
	for _, it := range out {
		if it.I == pinned {
			placed = append(placed, it)
			continue
		}
		for {
			hit, ok := firstCollision(placed, it)
			if !ok {
				break
			}
			it.Y = hit.bottom()
		}
		for it.Y > 0 {
			up := it
			up.Y--
			if _, ok := firstCollision(placed, up); ok {
				break
			}
			it = up
		}
		placed = append(placed, it)
	}
	sortByPosition(placed)
	return placed
}

func sortByPosition(items []Item) {
	sort.SliceStable(items, func(a, b int) bool {
		if items[a].Y != items[b].Y {
			return items[a].Y < items[b].Y
		}
		if items[a].X != items[b].X {
			return items[a].X < items[b].X
		}
		return items[a].I < items[b].I
	})
}

func firstCollision(placed []Item, it Item) (Item, bool) {
	for _, p := range placed {
		if p.Overlaps(it) {
			return p, true
		}
	}
	return Item{}, false
}

func maxBottom(items []Item) int {
	bottom := 0
	for _, it := range items {
		bottom = max(bottom, it.bottom())
	}
	return bottom
}

func clone(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return min(max(v, lo), hi)
}
