// Package keymap owns the user's key bindings.
//
// A Registry maps every catalog action to an ordered list of alternative
// key labels. It loads the map from a store.Store at startup, falling back to
// the catalog defaults, and persists the full map after every mutation.
//
// # Storage
//
// The map lives under the "keybinds" key as a JSON object of action id to
// array of labels:
//
//	{"zoomIn": ["=", "+"], "opacity": ["v"], "mousemove": []}
//
// Two older layouts are migrated once by Load:
//
//   - "blueMarble_keybinds" is renamed to "blueMarble_keybinds_v2".
//   - "blueMarble_keybinds_v2", which may hold a single label string per
//     action, is upgraded to arrays and moved to "keybinds".
//
// # Lookup
//
// Match scans the catalog in order and returns the first action bound to a
// label. Two actions may share a label; the earlier catalog entry wins and
// Conflicts reports the overlap.
//
// # Persistence
//
// Mutations never block on the store. A background Persister writes the
// most recent snapshot; intermediate snapshots may be skipped, so the last
// write always wins.
package keymap
