package pumpstream

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/BlackBills-Engineering/ung-kiosk/common/logger"
	"github.com/BlackBills-Engineering/ung-kiosk/common/network"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/pumps"
)

var log = logger.GetLogger()

const RECONNECT_BACKOFF = 3 * time.Second
const DIAL_RETRIES = 1

// batchMessage is the wire format of one feed message.
type batchMessage struct {
	Pumps []pumps.Frame `json:"pumps"`
}

type dialFunc func() (network.ConnectionInterface, error)

type streamClient struct {
	store     pumps.Store
	listeners Listeners

	dial    dialFunc
	backoff time.Duration

	mu      sync.Mutex
	current network.ConnectionInterface
	closed  bool
}

func NewClient(address string, store pumps.Store, listeners Listeners) Client {
	return &streamClient{
		store:     store,
		listeners: listeners,
		backoff:   RECONNECT_BACKOFF,
		dial: func() (network.ConnectionInterface, error) {
			conn := network.NewConnection()
			if err := conn.Connect(address, DIAL_RETRIES); err != nil {
				return nil, err
			}
			return conn, nil
		},
	}
}

func (c *streamClient) Connect() {
	c.mu.Lock()
	if c.closed || c.current != nil {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	conn, err := c.dial()
	if err != nil {
		log.Errorf("action: stream_connect | result: failed | error: %v", err)
		c.notifyError(err)
		// One retry timer per failed attempt; Connect itself stays
		// idempotent so overlapping timers cannot double-connect.
		time.AfterFunc(c.backoff, c.Connect)
		return
	}

	c.mu.Lock()
	if c.closed || c.current != nil {
		// A newer connection won the race while we were dialing.
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.current = conn
	c.mu.Unlock()

	log.Infoln("action: stream_connect | result: success")
	if c.listeners.OnConnect != nil {
		c.listeners.OnConnect()
	}

	go c.readLoop(conn)
}

func (c *streamClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

func (c *streamClient) Close() {
	c.mu.Lock()
	c.closed = true
	conn := c.current
	c.current = nil
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// --- PRIVATE METHODS ---

func (c *streamClient) readLoop(conn network.ConnectionInterface) {
	for {
		data, err := conn.ReceiveData()
		if err != nil {
			c.handleDisconnect(conn, err)
			return
		}

		var batch batchMessage
		if err := json.Unmarshal(data, &batch); err != nil {
			log.Errorf("action: stream_decode | result: failed | error: %v", err)
			c.notifyError(err)
			continue
		}

		c.store.Merge(batch.Pumps)
	}
}

// handleDisconnect schedules exactly one reconnect attempt for the broken
// connection. The identity check before acting keeps a stale timer from
// reconnecting over a connection that was established in the meantime.
func (c *streamClient) handleDisconnect(conn network.ConnectionInterface, cause error) {
	c.mu.Lock()
	if c.closed || c.current != conn {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	conn.Close()
	log.Warnf("action: stream_closed | result: reconnecting in %s | error: %v", c.backoff, cause)
	c.notifyError(cause)

	time.AfterFunc(c.backoff, func() {
		c.mu.Lock()
		if c.closed || c.current != conn {
			c.mu.Unlock()
			return
		}
		c.current = nil
		c.mu.Unlock()

		c.Connect()
	})
}

func (c *streamClient) notifyError(err error) {
	if c.listeners.OnError != nil {
		c.listeners.OnError(err)
	}
}
