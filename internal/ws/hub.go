// Package ws pushes newly detected chain-pull alerts to connected dashboard
// clients. It supplements the polling endpoint; pollers remain the source of
// the at-most-once delivery guarantee.
package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains the set of active clients and broadcasts alert payloads.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run owns the client set. Start it once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow or gone; drop it rather than block the hub.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastAlert sends an alert payload to every connected client.
func (h *Hub) BroadcastAlert(payload interface{}) {
	message, err := json.Marshal(map[string]interface{}{"type": "alert", "payload": payload})
	if err != nil {
		log.Printf("websocket: marshalling alert failed: %v", err)
		return
	}
	h.broadcast <- message
}
