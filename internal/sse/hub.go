// Package sse fans team-scoped events out to connected dashboard clients.
package sse

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type Client struct {
	ID     string
	UserID uuid.UUID
	TeamID uuid.UUID
	Send   chan []byte
}

type teamMessage struct {
	teamID uuid.UUID
	event  Event
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *teamMessage
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *teamMessage, 256),
		done:       make(chan struct{}),
	}
}

// Run owns client registration and delivery until ctx is cancelled.
// Register and Unregister return immediately once Run has stopped.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.event)
			if err != nil {
				continue
			}
			h.mu.RLock()
			for _, client := range h.clients {
				if client.TeamID != msg.teamID {
					continue
				}
				select {
				case client.Send <- data:
				default:
					// slow client, drop
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues an event for every client watching teamID. It never blocks;
// events are dropped when the queue is full.
func (h *Hub) Publish(teamID uuid.UUID, eventType string, data any) {
	select {
	case h.broadcast <- &teamMessage{teamID: teamID, event: Event{Type: eventType, Data: data}}:
	default:
	}
}

// ClientCount reports how many clients are connected for teamID.
func (h *Hub) ClientCount(teamID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, c := range h.clients {
		if c.TeamID == teamID {
			n++
		}
	}
	return n
}
