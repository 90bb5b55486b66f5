package websocket

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeConn struct {
	mu      sync.Mutex
	events  []*Event
	failing bool
	closed  bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("broken pipe")
	}
	f.events = append(f.events, v.(*Event))
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) received() []*Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Event(nil), f.events...)
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func TestNotifyDeliversToRegisteredUser(t *testing.T) {
	userID := uuid.New()
	conn := &fakeConn{}
	Register <- &Client{UserID: userID, Conn: conn}
	defer func() { Unregister <- &Client{UserID: userID, Conn: conn} }()

	Notify(userID, "booking.accepted", map[string]string{"id": "b1"})
	Notify(uuid.New(), "booking.accepted", nil)

	assert.Eventually(t, func() bool { return len(conn.received()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "booking.accepted", conn.received()[0].Type)
}

func TestUnregisterIgnoresStaleConnection(t *testing.T) {
	userID := uuid.New()
	first, second := &fakeConn{}, &fakeConn{}

	Register <- &Client{UserID: userID, Conn: first}
	Register <- &Client{UserID: userID, Conn: second}
	Unregister <- &Client{UserID: userID, Conn: first}

	assert.Eventually(t, func() bool { return first.isClosed() }, time.Second, 10*time.Millisecond)
	assert.True(t, Connected(userID))

	Unregister <- &Client{UserID: userID, Conn: second}
	assert.Eventually(t, func() bool { return !Connected(userID) }, time.Second, 10*time.Millisecond)
}

func TestFailedWriteDropsClient(t *testing.T) {
	userID := uuid.New()
	conn := &fakeConn{failing: true}
	Register <- &Client{UserID: userID, Conn: conn}

	Notify(userID, "payment.completed", nil)

	assert.Eventually(t, func() bool { return !Connected(userID) && conn.isClosed() }, time.Second, 10*time.Millisecond)
}
