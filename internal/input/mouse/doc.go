// Package mouse gates pointer-move delivery so a drawing tool can be driven
// from discrete key and click events.
//
// # Gate
//
// While blocked, the Gate's capturing mousemove listener records every
// pointer event and discards it unless its button mask equals the
// sentinel value that marks events canvaskeys generated itself:
//
//	gate := mouse.NewGate(doc)
//	gate.Toggle(nil, false) // block
//	doc.Dispatch(&dom.Event{Type: dom.MouseMove, X: 3, Y: 4}) // swallowed
//	gate.Toggle(nil, false) // unblock; one sentinel mousemove at (3,4)
//
// With click passthrough, every click also produces a sentinel mousemove
// at the click point before the click continues, so each tap extends a
// line without the pointer having to move.
//
// # Router
//
// Router sits in front of the host invoker and turns the pointer action
// ids into gate toggles:
//
//   - mousemove: toggles blocking on press.
//   - mousemove_hold: blocks on press and unblocks on release.
//   - line_drawing: toggles blocking with click passthrough on press.
//
// Every other id is forwarded unchanged.
package mouse
