package realtime

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/spicehut/food-order-app/store"
	"github.com/spicehut/food-order-app/utils"
)

// Event types pushed to dashboard clients.
const (
	EventOrdersUpdate   = "orders_update"
	EventPaymentsUpdate = "payments_update"
	EventOffersUpdate   = "offers_update"
	EventProductsUpdate = "products_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds the connected dashboard clients (admin, chef) and fans store
// changes out to them, replacing the hosted backend's realtime
// subscriptions for anything that watches a collection.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]string // conn -> role
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]string)}
}

// Register adds a connection with its role.
func (h *Hub) Register(conn *websocket.Conn, role string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = role
}

// Unregister drops and closes a connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

// Broadcast sends the event to every connected client. Write failures
// evict the client.
func (h *Hub) Broadcast(event string, data interface{}) {
	msg := Message{Event: event, Data: data}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(msg); err != nil {
			utils.ErrorLogger.Printf("Dropping websocket client: %v", err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// BindStore subscribes the hub to the collections dashboards care about.
// Returns an unsubscribe func for shutdown.
func (h *Hub) BindStore(st store.Store) func() {
	events := map[string]string{
		"orders":   EventOrdersUpdate,
		"payments": EventPaymentsUpdate,
		"offers":   EventOffersUpdate,
		"products": EventProductsUpdate,
	}

	unsubs := make([]func(), 0, len(events))
	for collection, event := range events {
		event := event
		unsubs = append(unsubs, st.Subscribe(collection, func(_ string, snap store.Snapshot) {
			h.Broadcast(event, snap)
		}))
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
