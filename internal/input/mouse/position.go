package mouse

// Position is a pointer coordinate.
type Position struct {
	X int
	Y int
}

// Equal returns true if two positions are equal.
func (p Position) Equal(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// Buttons is a pressed-button bitmask as carried by pointer events.
type Buttons int

const (
	// ButtonsNone means no button is pressed.
	ButtonsNone Buttons = 0
	// ButtonPrimary is the primary (left) button.
	ButtonPrimary Buttons = 1 << 0
	// ButtonSecondary is the secondary (right) button.
	ButtonSecondary Buttons = 1 << 1
	// ButtonAuxiliary is the middle button.
	ButtonAuxiliary Buttons = 1 << 2
)

// DefaultSentinel is the reserved button mask marking synthetic pointer
// events. No real pointer reports it.
const DefaultSentinel = 1337

// Has reports whether every button in b is pressed.
func (m Buttons) Has(b Buttons) bool {
	return m&b == b
}

// String returns a string representation of the mask.
func (m Buttons) String() string {
	if m == ButtonsNone {
		return "none"
	}
	s := ""
	add := func(name string) {
		if s != "" {
			s += "+"
		}
		s += name
	}
	if m.Has(ButtonPrimary) {
		add("primary")
	}
	if m.Has(ButtonSecondary) {
		add("secondary")
	}
	if m.Has(ButtonAuxiliary) {
		add("auxiliary")
	}
	if rest := m &^ (ButtonPrimary | ButtonSecondary | ButtonAuxiliary); rest != 0 {
		add("other")
	}
	return s
}
