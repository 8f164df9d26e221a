// Package key provides keyboard event types and key-label handling.
//
// A key label is the literal key value reported by the keyboard ("a", "+",
// "Escape", "ArrowUp"), with the space character rewritten to "Space" so it
// can be stored and displayed. Labels keep their case when stored and are
// compared case-insensitively everywhere else:
//
//	key.Label(" ")          // "Space"
//	key.Normalize("Space")  // "space"
//	key.Equal("V", "v")     // true
package key
