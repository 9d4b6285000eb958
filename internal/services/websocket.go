package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client represents a WebSocket client
type Client struct {
	ID   uint
	Role string
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mutex      sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client %d connected", client.ID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("Client %d disconnected", client.ID)

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					log.Printf("Warning: could not send to client %d (channel full)", client.ID)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// BroadcastToUser sends a message to a specific user
func (h *Hub) BroadcastToUser(userID uint, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.ID == userID {
			select {
			case client.Send <- message:
			default:
				log.Printf("Warning: could not send to client %d (channel full)", client.ID)
			}
		}
	}
}

// BroadcastToRole sends a message to all users with a specific role
func (h *Hub) BroadcastToRole(role string, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.Role == role {
			select {
			case client.Send <- message:
			default:
				log.Printf("Warning: could not send to client %d (channel full)", client.ID)
			}
		}
	}
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// WebSocket message types
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// DonationApproved notifies the donor their donation was approved.
type DonationApproved struct {
	DonationID uint   `json:"donationId"`
	ItemName   string `json:"itemName"`
}

// TaskAccepted notifies the donor a volunteer took their donation.
type TaskAccepted struct {
	DonationID  uint   `json:"donationId"`
	VolunteerID uint   `json:"volunteerId"`
	Volunteer   string `json:"volunteer"`
}

// TaskCompleted notifies the donor their donation was delivered.
type TaskCompleted struct {
	DonationID  uint `json:"donationId"`
	VolunteerID uint `json:"volunteerId"`
}

// NewTaskAvailable is broadcast to volunteers when a donation becomes
// available for pickup.
type NewTaskAvailable struct {
	DonationID uint   `json:"donationId"`
	ItemType   string `json:"itemType"`
	ItemName   string `json:"itemName"`
	City       string `json:"city"`
}

// HandleWebSocket handles WebSocket connections
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint, role string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:   userID,
		Role: role,
		Conn: conn,
		Send: make(chan []byte, 256),
		Hub:  hub,
	}

	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var wsMessage WebSocketMessage
		if err := json.Unmarshal(message, &wsMessage); err != nil {
			log.Printf("Error unmarshaling WebSocket message: %v", err)
			continue
		}

		// Clients only listen; the one inbound message handled is a ping.
		if wsMessage.Type == "ping" {
			pong, _ := json.Marshal(WebSocketMessage{Type: "pong"})
			select {
			case c.Send <- pong:
			default:
			}
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// SendDonationApproved sends an approval notification to the donor
func (hub *Hub) SendDonationApproved(donorID uint, approved DonationApproved) {
	message := WebSocketMessage{
		Type: "donation_approved",
		Data: approved,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling donation approved: %v", err)
		return
	}

	hub.BroadcastToUser(donorID, data)
}

// SendTaskAccepted sends a task acceptance notification to the donor
func (hub *Hub) SendTaskAccepted(donorID uint, accepted TaskAccepted) {
	message := WebSocketMessage{
		Type: "task_accepted",
		Data: accepted,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling task accepted: %v", err)
		return
	}

	hub.BroadcastToUser(donorID, data)
}

// SendTaskCompleted sends a delivery notification to the donor
func (hub *Hub) SendTaskCompleted(donorID uint, completed TaskCompleted) {
	message := WebSocketMessage{
		Type: "task_completed",
		Data: completed,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling task completed: %v", err)
		return
	}

	hub.BroadcastToUser(donorID, data)
}

// SendNewTaskAvailable broadcasts a newly approved donation to volunteers
func (hub *Hub) SendNewTaskAvailable(task NewTaskAvailable) {
	message := WebSocketMessage{
		Type: "new_task_available",
		Data: task,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling new task available: %v", err)
		return
	}

	hub.BroadcastToRole("volunteer", data)
}
