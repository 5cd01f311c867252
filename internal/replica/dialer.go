package replica

import "context"

// Dialer opens the sync connection for a bearer token, asking the server to
// resume after version from.
type Dialer interface {
	Dial(ctx context.Context, token string, from int64) (Conn, error)
}

// DialerFunc adapts a plain function to the [Dialer] interface.
type DialerFunc func(ctx context.Context, token string, from int64) (Conn, error)

// Dial calls f(ctx, token, from).
func (f DialerFunc) Dial(ctx context.Context, token string, from int64) (Conn, error) {
	return f(ctx, token, from)
}

// State is the lifecycle stage of the sync connection.
type State int

const (
	// StateDisconnected is the state before Start.
	StateDisconnected State = iota
	// StateConnecting is the state while dialling.
	StateConnecting
	// StateOpen is the only state in which Set succeeds.
	StateOpen
	// StateClosed is terminal for a connection; only the reconnect extension
	// leaves it.
	StateClosed
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
