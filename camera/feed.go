package camera

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans frames out to websocket subscribers. Slow subscribers are
// dropped rather than allowed to stall the feed.
type Hub struct {
	lock    sync.Mutex
	clients map[*client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]bool)}
}

func (h *Hub) Broadcast(frame []byte) {
	h.lock.Lock()
	defer h.lock.Unlock()
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			close(c.send)
			delete(h.clients, c)
		}
	}
}

func (h *Hub) Subscribers() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.clients)
}

func (h *Hub) remove(c *client) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Error("Error upgrading camera subscriber")
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 8)}

	h.lock.Lock()
	h.clients[c] = true
	h.lock.Unlock()

	log.Infof("Camera subscriber %s", r.RemoteAddr)

	go func() {
		defer conn.Close()
		for frame := range c.send {
			if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				h.remove(c)
				return
			}
		}
	}()

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.remove(c)
				conn.Close()
				return
			}
		}
	}()
}

// Feed grabs frames from the source at a fixed rate and republishes them
// on the hub. It does nothing else with the frames.
type Feed struct {
	Source Source
	Hub    *Hub
	Rate   float64 // frames per second
}

func (f *Feed) Run(ctx context.Context) {
	rate := f.Rate
	if rate <= 0 {
		rate = 10
	}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame, err := f.Source.Grab()
			if err != nil {
				log.WithError(err).Error("Error grabbing frame")
				continue
			}
			f.Hub.Broadcast(frame)
		}
	}
}
