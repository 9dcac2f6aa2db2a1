package layout

// Item is the persisted rectangle of one widget on the grid.
type Item struct {
	I string `json:"i" bson:"i"`
	X int    `json:"x" bson:"x"`
	Y int    `json:"y" bson:"y"`
	W int    `json:"w" bson:"w"`
	H int    `json:"h" bson:"h"`
}

func (a Item) bottom() int { return a.Y + a.H }

// Overlaps reports whether two rectangles share at least one grid cell.
func (a Item) Overlaps(b Item) bool {
	if a.I == b.I {
		return false
	}
	return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

type Breakpoint string

const (
	LG  Breakpoint = "lg"
	MD  Breakpoint = "md"
	SM  Breakpoint = "sm"
	XS  Breakpoint = "xs"
	XXS Breakpoint = "xxs"
)

// Breakpoints maps each viewport tier to its column count. Only the lg layout is stored.
var Breakpoints = map[Breakpoint]int{
	LG:  12,
	MD:  10,
	SM:  6,
	XS:  4,
	XXS: 2,
}

// minimum viewport width in pixels for each tier, widest first
var breakpointWidths = []struct {
	bp    Breakpoint
	width int
}{
	{LG, 1200},
	{MD, 996},
	{SM, 768},
	{XS, 480},
	{XXS, 0},
}

const (
	Columns   = 12
	RowHeight = 80
	Margin    = 16

	MinW = 2
	MinH = 2
	MaxW = 12
	MaxH = 8
)

// ColumnsFor returns the column count of bp, falling back to the stored grid width.
func ColumnsFor(bp Breakpoint) int {
	if n, ok := Breakpoints[bp]; ok {
		return n
	}
	return Columns
}

// BreakpointFor picks the tier for a viewport width in pixels.
func BreakpointFor(width int) Breakpoint {
	for _, b := range breakpointWidths {
		if width >= b.width {
			return b.bp
		}
	}
	return XXS
}

func ParseBreakpoint(s string) (Breakpoint, bool) {
	bp := Breakpoint(s)
	_, ok := Breakpoints[bp]
	return bp, ok
}
