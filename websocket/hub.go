package websocket

import (
	"sync"

	"github.com/anjiri1684/skill_tutor/logger"
	"github.com/google/uuid"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Client struct {
	UserID uuid.UUID
	Conn   Conn
}

// Event is pushed to a single user as {type, data}.
type Event struct {
	UserID uuid.UUID   `json:"-"`
	Type   string      `json:"type"`
	Data   interface{} `json:"data"`
}

var (
	clients   = make(map[uuid.UUID]Conn)
	clientsMu sync.RWMutex

	Register   = make(chan *Client)
	Unregister = make(chan *Client)
	Broadcast  = make(chan *Event, 256)
)

func init() {
	go RunHub()
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			clientsMu.Lock()
			if old, ok := clients[client.UserID]; ok && old != client.Conn {
				_ = old.Close()
			}
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
			logger.Log.Debugw("Websocket client registered", "user_id", client.UserID)
		case client := <-Unregister:
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
			logger.Log.Debugw("Websocket client unregistered", "user_id", client.UserID)
		case event := <-Broadcast:
			deliver(event)
		}
	}
}

func deliver(event *Event) {
	clientsMu.RLock()
	conn, ok := clients[event.UserID]
	clientsMu.RUnlock()
	if !ok {
		return
	}

	if err := conn.WriteJSON(event); err != nil {
		logger.Log.Warnw("Websocket write failed, dropping client", "user_id", event.UserID, "error", err)
		_ = conn.Close()
		clientsMu.Lock()
		if current, ok := clients[event.UserID]; ok && current == conn {
			delete(clients, event.UserID)
		}
		clientsMu.Unlock()
	}
}

// Notify queues an event for userID. It never blocks; when the queue is full
// the event is dropped.
func Notify(userID uuid.UUID, eventType string, data interface{}) {
	select {
	case Broadcast <- &Event{UserID: userID, Type: eventType, Data: data}:
	default:
		logger.Log.Warnw("Websocket queue full, dropping event", "user_id", userID, "type", eventType)
	}
}

// Connected reports whether userID has a live connection.
func Connected(userID uuid.UUID) bool {
	clientsMu.RLock()
	defer clientsMu.RUnlock()
	_, ok := clients[userID]
	return ok
}
