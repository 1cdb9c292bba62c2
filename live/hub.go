// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Event names pushed to viewers. Events are bare signals: receivers
// re-fetch the relevant snapshot instead of trusting an embedded delta,
// which keeps the protocol self-healing after missed events.
const (
	EventStateChanged   = "stateChanged"
	EventStatsUpdated   = "statsUpdated"
	EventQnASubmitted   = "qnaSubmitted"
	EventQnAHighlighted = "qnaHighlighted"
	EventQnARejected    = "qnaRejected"
)

// Event is the wire format of a push notification. ID is only set for the
// Q&A highlight/reject events (0 means "no highlighted item").
type Event struct {
	Event string `json:"event"`
	ID    int64  `json:"id,omitempty"`
}

// Notifier is the write-path view of the hub. Mutation code depends on
// this instead of the concrete Hub so tests can record events.
type Notifier interface {
	Notify(Event)
}

// Hub manages all connected viewers and fans change notifications out to
// them. Mutating request paths call Notify after their write commits;
// Notify never blocks, so a slow or disconnected viewer cannot stall or
// fail the originating write.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 64),
	}
}

// Run is the hub's event loop. Start it in a goroutine before serving.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			slog.Info("viewer connected", "client", client.ID, "viewers", h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			slog.Info("viewer disconnected", "client", client.ID, "viewers", h.ClientCount())

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				slog.Error("failed to marshal event", "event", event.Event, "error", err)
				continue
			}

			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Slow consumer: drop rather than block the loop.
					// The client re-fetches on its next event anyway.
					slog.Warn("dropping event for slow viewer", "client", client.ID, "event", event.Event)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Notify queues an event for broadcast. Fire-and-forget: if the hub is
// backed up the event is dropped, never the caller's request.
func (h *Hub) Notify(event Event) {
	select {
	case h.broadcast <- event:
	default:
		slog.Warn("broadcast queue full, dropping event", "event", event.Event)
	}
}

// Register adds a viewer to the hub.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a viewer; safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// ClientCount reports the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
