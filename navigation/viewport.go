package navigation

// Viewport breakpoints in CSS pixels.
const (
	BreakpointMedium = 768
	BreakpointLarge  = 1024
)

// Affordances says which navigation bars a viewport shows.
type Affordances struct {
	Top     bool
	Compact bool // top bar collapses its links behind a menu button
	Sidebar bool
	Bottom  bool
}

// AffordancesFor picks the bars for a viewport width. A width of zero or
// less (unknown) is treated as a desktop.
func AffordancesFor(width int) Affordances {
	switch {
	case width <= 0 || width >= BreakpointLarge:
		return Affordances{Top: true, Sidebar: true}
	case width >= BreakpointMedium:
		return Affordances{Top: true}
	default:
		return Affordances{Top: true, Compact: true, Bottom: true}
	}
}
