package key

import "strings"

// Well-known key values, as reported by the keyboard.
const (
	Space      = "Space"
	Escape     = "Escape"
	Enter      = "Enter"
	Tab        = "Tab"
	Backspace  = "Backspace"
	Delete     = "Delete"
	Insert     = "Insert"
	Home       = "Home"
	End        = "End"
	PageUp     = "PageUp"
	PageDown   = "PageDown"
	ArrowUp    = "ArrowUp"
	ArrowDown  = "ArrowDown"
	ArrowLeft  = "ArrowLeft"
	ArrowRight = "ArrowRight"
)

// Label converts a raw key value into a storable label.
// The space character becomes "Space"; everything else is kept verbatim.
func Label(raw string) string {
	if raw == " " {
		return Space
	}
	return raw
}

// Normalize returns the lower-cased label used for matching.
func Normalize(raw string) string {
	return strings.ToLower(Label(raw))
}

// Equal reports whether two labels name the same key, ignoring case.
func Equal(a, b string) bool {
	return strings.EqualFold(Label(a), Label(b))
}

// IndexFold returns the index of the first label in keys equal to k,
// ignoring case, or -1.
func IndexFold(keys []string, k string) int {
	for i, candidate := range keys {
		if Equal(candidate, k) {
			return i
		}
	}
	return -1
}

// ContainsFold reports whether keys holds a label equal to k.
func ContainsFold(keys []string, k string) bool {
	return IndexFold(keys, k) >= 0
}

// Join renders labels for display, e.g. "=, +". An empty list is "None".
func Join(keys []string) string {
	if len(keys) == 0 {
		return "None"
	}
	return strings.Join(keys, ", ")
}
