package network

// ConnectionInterface is a framed stream connection on the consuming side
// of a feed. Every message on the wire is a 4-byte big-endian length header
// followed by the payload, so the receiver always observes whole messages.
type ConnectionInterface interface {
	// Connect dials the given address, retrying with a fixed wait between
	// attempts before giving up.
	Connect(serverAddr string, retries int) error

	// IsConnected reports whether the connection currently holds a live socket.
	IsConnected() bool

	// ReceiveData blocks until one whole framed message is read.
	ReceiveData() ([]byte, error)

	// Close tears the socket down. Safe to call more than once.
	Close() error
}
