package overlay

// Position is a page anchor for stamped elements. Stamps keep a fixed
// half-inch margin from the page edges they anchor to.
type Position string

const (
	TopLeft      Position = "top-left"
	TopCenter    Position = "top-center"
	TopRight     Position = "top-right"
	BottomLeft   Position = "bottom-left"
	BottomCenter Position = "bottom-center"
	BottomRight  Position = "bottom-right"
	Center       Position = "center"
)

// EdgeMargin is the distance in points kept between a stamp and the page
// edges it anchors to (0.5in).
const EdgeMargin = 36.0

// ParsePosition resolves a position string, degrading unknown values to
// the fallback with ok=false.
func ParsePosition(s string, fallback Position) (p Position, ok bool) {
	switch Position(s) {
	case TopLeft, TopCenter, TopRight, BottomLeft, BottomCenter, BottomRight, Center:
		return Position(s), true
	}
	return fallback, false
}

// Anchor returns the pdfcpu position code for the anchor.
func (p Position) Anchor() string {
	switch p {
	case TopLeft:
		return "tl"
	case TopCenter:
		return "tc"
	case TopRight:
		return "tr"
	case BottomLeft:
		return "bl"
	case BottomCenter:
		return "bc"
	case BottomRight:
		return "br"
	case Center:
		return "c"
	}
	return "bl"
}

// Offsets returns the x/y offsets in points that push the stamp EdgeMargin
// away from the edges its anchor touches. Centered axes need no offset.
func (p Position) Offsets() (dx, dy float64) {
	switch p {
	case TopLeft:
		return EdgeMargin, -EdgeMargin
	case TopCenter:
		return 0, -EdgeMargin
	case TopRight:
		return -EdgeMargin, -EdgeMargin
	case BottomLeft:
		return EdgeMargin, EdgeMargin
	case BottomCenter:
		return 0, EdgeMargin
	case BottomRight:
		return -EdgeMargin, EdgeMargin
	case Center:
		return 0, 0
	}
	return EdgeMargin, EdgeMargin
}

// Valid reports whether p is one of the defined anchors.
func (p Position) Valid() bool {
	_, ok := ParsePosition(string(p), BottomLeft)
	return ok
}

func (p Position) String() string {
	return string(p)
}
