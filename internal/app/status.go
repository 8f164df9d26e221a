package app

// Status is the attachment state shown to the user.
type Status uint8

const (
	// StatusStarting means Bootstrap has not finished.
	StatusStarting Status = iota
	// StatusReady means the settings control sits at its anchor.
	StatusReady
	// StatusDegraded means the anchor was missing and the control was
	// attached at the fallback position.
	StatusDegraded
	// StatusError means the host page never became ready. The control
	// carries an error badge.
	StatusError
	// StatusClosed means Shutdown has run.
	StatusClosed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusStarting:
		return "starting"
	case StatusReady:
		return "ready"
	case StatusDegraded:
		return "degraded"
	case StatusError:
		return "error"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// OK reports whether key bindings are live.
func (s Status) OK() bool {
	return s == StatusReady || s == StatusDegraded || s == StatusError
}
