package websocket

import "github.com/rs/zerolog/log"

type scopedMessage struct {
	scope   string
	client  *Client // set for replies to a single client
	message []byte
}

// Hub maintains the set of active clients and fans messages out to the
// clients of one owner scope. All maps are owned by the Run goroutine.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// A map of owner scopes to the set of clients listening on it.
	subscriptions map[string]map[*Client]bool

	publish chan scopedMessage
	done    chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
		publish:       make(chan scopedMessage, 256),
		done:          make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.Register:
			h.clients[client] = true
			h.addSubscription(client)
			log.Info().Int("total_clients", len(h.clients)).Str("scope", client.Scope).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case m := <-h.publish:
			if m.client != nil {
				if h.clients[m.client] {
					h.deliver(m.client, m.message)
				}
				continue
			}
			for client := range h.subscriptions[m.scope] {
				h.deliver(client, m.message)
			}
		}
	}
}

// Stop halts the Run loop and closes every client.
func (h *Hub) Stop() {
	close(h.done)
}

// Publish queues message for the clients subscribed to scope. When the queue
// is full the message is dropped rather than blocking the caller.
func (h *Hub) Publish(scope string, message []byte) {
	h.enqueue(scopedMessage{scope: scope, message: message})
}

// SendTo queues message for a single registered client.
func (h *Hub) SendTo(client *Client, message []byte) {
	h.enqueue(scopedMessage{scope: client.Scope, client: client, message: message})
}

func (h *Hub) enqueue(m scopedMessage) {
	select {
	case h.publish <- m:
	case <-h.done:
	default:
		log.Warn().Str("scope", m.scope).Msg("Hub queue full, dropping message")
	}
}

// deliver hands message to client, dropping clients that stopped reading.
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	h.removeSubscription(client)
}

func (h *Hub) addSubscription(client *Client) {
	if h.subscriptions[client.Scope] == nil {
		h.subscriptions[client.Scope] = make(map[*Client]bool)
	}
	h.subscriptions[client.Scope][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	if subs, ok := h.subscriptions[client.Scope]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscriptions, client.Scope)
		}
	}
}
