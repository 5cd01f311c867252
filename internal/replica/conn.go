package replica

//go:generate mockgen -source=conn.go -destination=../mock/conn_mock.go -package=mock

// Conn is one persistent full-duplex connection carrying sync frames.
// *websocket.Conn from gorilla/websocket satisfies it. Implementations must
// allow one concurrent reader and one concurrent writer.
type Conn interface {
	// ReadMessage blocks until the next message arrives. Any error is final:
	// the connection is considered closed.
	ReadMessage() (messageType int, p []byte, err error)

	// WriteMessage sends one message.
	WriteMessage(messageType int, data []byte) error

	// Close closes the connection, unblocking a pending ReadMessage.
	Close() error
}
