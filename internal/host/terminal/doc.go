// Package terminal runs a canvas page in a terminal using tcell.
//
// The page has a toolbar on the first row, a drawing area below it and an
// optional binding settings panel on the right. Pointer input becomes
// mousemove and click events on the page's document; keyboard input
// becomes keydown and keyup events.
//
// Terminals report key presses but not releases. KeyBridge emits a keydown
// for the first press, marks presses that follow within the release
// timeout as repeats and emits the keyup once the key has been silent for
// that long. Holding a key therefore looks like a browser auto-repeat
// followed by a single release.
package terminal
