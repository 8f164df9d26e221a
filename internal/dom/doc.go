// Package dom models the slice of a host page's event surface that
// canvaskeys consumes: a single Document receiving keydown, keyup,
// mousemove and click events, with capture and bubble listeners.
//
// Dispatch runs every capture listener in registration order, then every
// bubble listener. Bubble listeners stand in for the host page's own
// handlers: anything that calls StopPropagation during the capture phase
// hides the event from them.
//
//	doc := dom.NewDocument()
//	id := doc.AddEventListener(dom.MouseMove, gateFn, dom.ListenerOptions{Capture: true})
//	doc.Dispatch(&dom.Event{Type: dom.MouseMove, X: 10, Y: 4})
//	doc.RemoveEventListener(id)
//
// Listener panics are recovered so one faulty handler cannot stop later
// events from being processed.
package dom
