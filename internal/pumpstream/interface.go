package pumpstream

// Client keeps one logical connection to the pump status feed alive and
// merges every received batch into the pump store.
type Client interface {
	// Connect establishes the stream connection and starts the read loop.
	// Calling it while a connection is already open or pending is a no-op.
	Connect()

	// IsConnected reports whether a live connection is currently held.
	IsConnected() bool

	// Close tears the stream down and stops any pending reconnect.
	Close()
}

// Listeners are optional observability hooks fired from the stream client.
// Both may be nil.
type Listeners struct {
	OnConnect func()
	OnError   func(err error)
}
