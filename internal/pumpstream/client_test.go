package pumpstream

import (
	"encoding/json"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/BlackBills-Engineering/ung-kiosk/common/network"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/pumps"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

const testBackoff = 20 * time.Millisecond
const waitTimeout = 2 * time.Second

// fakeConn is a scripted feed connection. Closing the frames channel
// simulates the server dropping the stream.
type fakeConn struct {
	frames chan []byte
	closed atomic.Bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{frames: make(chan []byte, 16)}
}

func (f *fakeConn) Connect(serverAddr string, retries int) error { return nil }
func (f *fakeConn) IsConnected() bool                            { return !f.closed.Load() }

func (f *fakeConn) ReceiveData() ([]byte, error) {
	data, ok := <-f.frames
	if !ok || f.closed.Load() {
		return nil, io.EOF
	}
	return data, nil
}

func (f *fakeConn) Close() error {
	f.closed.Store(true)
	return nil
}

func (f *fakeConn) push(t *testing.T, frames ...pumps.Frame) {
	t.Helper()
	data, err := json.Marshal(batchMessage{Pumps: frames})
	assert.NoError(t, err)
	f.frames <- data
}

// newTestClient wires a client to a scripted dialer with a short backoff.
func newTestClient(store pumps.Store, dial dialFunc) *streamClient {
	return &streamClient{
		store:   store,
		backoff: testBackoff,
		dial:    dial,
	}
}

func singleConnDialer(conn *fakeConn) (dialFunc, *atomic.Int32) {
	var dials atomic.Int32
	return func() (network.ConnectionInterface, error) {
		dials.Add(1)
		return conn, nil
	}, &dials
}

func TestBatchesMergedIntoStore(t *testing.T) {
	store := pumps.NewStore()
	conn := newFakeConn()
	dial, _ := singleConnDialer(conn)
	client := newTestClient(store, dial)
	defer client.Close()

	client.Connect()
	conn.push(t,
		pumps.Frame{PumpID: 1, Status: pumps.StatusIdle},
		pumps.Frame{PumpID: 2, Status: pumps.StatusDispensing},
	)

	assert.Eventually(t, func() bool {
		return store.Len() == 2
	}, waitTimeout, time.Millisecond)

	frame, ok := store.Get(2)
	assert.True(t, ok)
	assert.Equal(t, pumps.StatusDispensing, frame.Status)
}

// TestMalformedBatchTolerated checks that a payload that fails to decode is
// dropped without killing the read loop: the next good batch still merges.
func TestMalformedBatchTolerated(t *testing.T) {
	store := pumps.NewStore()
	conn := newFakeConn()
	dial, _ := singleConnDialer(conn)

	var decodeErrs atomic.Int32
	client := newTestClient(store, dial)
	client.listeners = Listeners{OnError: func(err error) { decodeErrs.Add(1) }}
	defer client.Close()

	client.Connect()
	conn.frames <- []byte("{not json")
	conn.push(t, pumps.Frame{PumpID: 3, Status: pumps.StatusIdle})

	assert.Eventually(t, func() bool {
		return store.Len() == 1
	}, waitTimeout, time.Millisecond)
	assert.True(t, client.IsConnected())
	assert.Equal(t, int32(1), decodeErrs.Load())
}

// TestConnectIsIdempotent checks that a second Connect while a connection
// is open does not dial again.
func TestConnectIsIdempotent(t *testing.T) {
	conn := newFakeConn()
	dial, dials := singleConnDialer(conn)
	client := newTestClient(pumps.NewStore(), dial)
	defer client.Close()

	client.Connect()
	client.Connect()
	client.Connect()

	assert.Equal(t, int32(1), dials.Load())
}

// TestReconnectAfterClose checks that a dropped stream is re-established
// after the backoff, exactly once.
func TestReconnectAfterClose(t *testing.T) {
	var mu sync.Mutex
	conns := []*fakeConn{newFakeConn(), newFakeConn()}
	var dials atomic.Int32
	dial := func() (network.ConnectionInterface, error) {
		mu.Lock()
		defer mu.Unlock()
		conn := conns[0]
		if len(conns) > 1 {
			conns = conns[1:]
		}
		dials.Add(1)
		return conn, nil
	}

	client := newTestClient(pumps.NewStore(), dial)
	defer client.Close()

	first := conns[0]
	client.Connect()
	close(first.frames) // server drops the stream

	assert.Eventually(t, func() bool {
		return dials.Load() == 2 && client.IsConnected()
	}, waitTimeout, time.Millisecond)

	// No duplicate timer fires after the reconnect settled.
	time.Sleep(3 * testBackoff)
	assert.Equal(t, int32(2), dials.Load())
}

// TestCloseCancelsPendingReconnect checks that closing the client while a
// reconnect timer is pending stops it from dialing again.
func TestCloseCancelsPendingReconnect(t *testing.T) {
	conn := newFakeConn()
	dial, dials := singleConnDialer(conn)
	client := newTestClient(pumps.NewStore(), dial)

	client.Connect()
	close(conn.frames)
	client.Close()

	time.Sleep(3 * testBackoff)
	assert.Equal(t, int32(1), dials.Load())
}

// TestDialFailureRetried checks that a failed dial is retried on the fixed
// backoff instead of busy-looping.
func TestDialFailureRetried(t *testing.T) {
	conn := newFakeConn()
	var dials atomic.Int32
	dial := func() (network.ConnectionInterface, error) {
		if dials.Add(1) == 1 {
			return nil, errors.New("connection refused")
		}
		return conn, nil
	}

	var streamErrs atomic.Int32
	client := newTestClient(pumps.NewStore(), dial)
	client.listeners = Listeners{OnError: func(err error) { streamErrs.Add(1) }}
	defer client.Close()

	client.Connect()
	assert.False(t, client.IsConnected())

	assert.Eventually(t, func() bool {
		return client.IsConnected()
	}, waitTimeout, time.Millisecond)
	assert.Equal(t, int32(2), dials.Load())
	assert.Equal(t, int32(1), streamErrs.Load())
}
