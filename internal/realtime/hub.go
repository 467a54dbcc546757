// internal/realtime/hub.go
// Change-feed collaborator: fans inserted-row events out to websocket
// subscribers. Delivery is at-most-once per connection with no ordering
// guarantee across streams; a slow client gets dropped, not buffered
// without bound.

package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"
)

// Stream names
const (
	StreamPosts         = "posts"
	StreamNotifications = "notifications"
	StreamMessages      = "messages"
)

// Event is one inserted-row notification pushed to subscribers
type Event struct {
	Stream    string      `json:"stream"`
	Row       interface{} `json:"row"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub maintains active subscriptions keyed by stream name
type Hub struct {
	clients    map[*Client]bool
	clientsMux sync.RWMutex

	broadcast  chan Event
	register   chan *Client
	unregister chan *Client

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewHub creates an idle hub; call Run on a goroutine to start it
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run processes registrations and broadcasts until Shutdown
func (h *Hub) Run() {
	h.wg.Add(1)
	defer h.wg.Done()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)

		case <-h.ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Publish pushes an inserted row onto a stream. It never blocks the
// calling mutation: if the hub buffer is full the event is dropped.
func (h *Hub) Publish(stream string, row interface{}) {
	event := Event{Stream: stream, Row: row, Timestamp: time.Now()}
	select {
	case h.broadcast <- event:
	default:
		log.Printf("realtime: broadcast buffer full, dropping event on %s", stream)
	}
}

// UserStream builds a per-recipient stream name, e.g. notifications:42
func UserStream(base string, userID int64) string {
	return fmt.Sprintf("%s:%d", base, userID)
}

// Shutdown stops the hub and closes all client connections
func (h *Hub) Shutdown() {
	h.cancel()
	h.wg.Wait()
}

func (h *Hub) registerClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	h.clients[client] = true
	log.Printf("realtime: client subscribed to %v (%d connected)", client.streams, len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *Hub) broadcastEvent(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("realtime: failed to marshal event: %v", err)
		return
	}

	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	for client := range h.clients {
		if !client.subscribed(event.Stream) {
			continue
		}
		select {
		case client.send <- payload:
		default:
			// Slow consumer; drop the event for this client.
		}
	}
}

func (h *Hub) closeAll() {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}
