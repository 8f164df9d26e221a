// Package input turns raw keyboard events into action invocations.
//
// The Dispatcher listens for document-level keydown and keyup events,
// matches the key label against the binding registry and triggers the
// matched action through an action.Invoker.
//
// # Press and Release
//
// Each physical key moves between two states: idle and pressed. The
// Session's ActiveKeySet holds every pressed label, so:
//
//   - The first keydown of a label invokes its action once (PhasePress).
//   - Further keydowns before the keyup, including OS auto-repeat, do
//     nothing.
//   - The keyup returns the label to idle. Hold actions are invoked a
//     second time (PhaseRelease); other actions are not.
//   - A keyup for a label that is not pressed is ignored.
//
// Matched events are always cancelled (preventDefault and
// stopPropagation) so the host page never sees a bound key. Events that
// target text inputs are left alone.
//
// # Usage
//
//	d := input.NewDispatcher(registry, invoker, input.WithLogger(logger))
//	detach := d.Attach(doc)
//	defer detach()
package input
