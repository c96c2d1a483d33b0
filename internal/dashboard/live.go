package dashboard

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait = 10 * time.Second
	// sendBuffer is how many events may queue for one client before it is
	// considered stuck and disconnected.
	sendBuffer = 64
)

// Event types pushed to websocket clients.
const (
	EventFragment   = "fragment"
	EventProgress   = "progress"
	EventNotice     = "notice"
	EventSubscribed = "subscribed"
)

// Event is the outgoing websocket message format.
type Event struct {
	Type string `json:"type"`
	// Target is the id of the element a fragment replaces.
	Target  string `json:"target,omitempty"`
	Section string `json:"section,omitempty"`
	HTML    string `json:"html,omitempty"`
	OK      bool   `json:"ok,omitempty"`
	Message string `json:"message,omitempty"`
	Sent    int64  `json:"sent,omitempty"`
	Total   int64  `json:"total,omitempty"`
}

// subscription is the only message clients send: the section they show.
type subscription struct {
	Section string `json:"section"`
}

type client struct {
	conn *websocket.Conn
	send chan Event
	done chan struct{}
	once sync.Once

	mu      sync.Mutex
	section string
}

func (c *client) watching(section string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.section == section
}

func (c *client) watch(section string) {
	c.mu.Lock()
	c.section = section
	c.mu.Unlock()
}

// Hub fans events out to connected websocket clients. Every client has its
// own queue drained by a writer goroutine, so a slow client only delays
// itself.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues ev for its recipients: fragment events go to clients
// showing ev.Section, everything else to all clients. Clients whose queue
// is full are disconnected.
func (h *Hub) Broadcast(ev Event) {
	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		if ev.Type != EventFragment || c.watching(ev.Section) {
			targets = append(targets, c)
		}
	}
	h.mu.Unlock()

	for _, c := range targets {
		select {
		case c.send <- ev:
		default:
			log.Printf("dashboard: websocket client fell behind, disconnecting")
			h.remove(c)
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

func (h *Hub) writeLoop(c *client) {
	for {
		select {
		case ev := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				log.Printf("dashboard: websocket write: %v", err)
				h.remove(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

// ServeHTTP upgrades the request and keeps the client registered until it
// disconnects. Clients send {"section": "<name>"} to receive that
// section's fragments; the hub answers with a subscribed event.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("dashboard: websocket upgrade: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan Event, sendBuffer), done: make(chan struct{})}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	defer h.remove(c)

	go h.writeLoop(c)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("dashboard: websocket read: %v", err)
			}
			return
		}
		var sub subscription
		if err := json.Unmarshal(msg, &sub); err != nil {
			continue
		}
		c.watch(sub.Section)
		select {
		case c.send <- Event{Type: EventSubscribed, Section: sub.Section}:
		default:
		}
	}
}
