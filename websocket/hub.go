package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// BookingEvent is pushed to every connected admin dashboard when a booking
// crosses a lifecycle transition.
type BookingEvent struct {
	Type          string    `json:"type"`
	Reference     string    `json:"reference"`
	CourtName     string    `json:"court_name"`
	Status        string    `json:"status"`
	SessionStatus string    `json:"session_status"`
	At            time.Time `json:"at"`
}

const (
	EventBookingCreated   = "booking_created"
	EventBookingPaid      = "booking_paid"
	EventBookingCancelled = "booking_cancelled"
	EventBookingRefunded  = "booking_refunded"
	EventBookingExpired   = "booking_expired"
	EventCheckedIn        = "checked_in"
	EventCheckedOut       = "checked_out"
)

type Client struct {
	ID   uuid.UUID
	Conn *websocket.Conn
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *BookingEvent, 64)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Admin feed client connected: %s", client.ID)
			clientsMu.Lock()
			clients[client.ID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Admin feed client disconnected: %s", client.ID)
			clientsMu.Lock()
			if conn, ok := clients[client.ID]; ok && conn == client.Conn {
				delete(clients, client.ID)
			}
			clientsMu.Unlock()
		case event := <-Broadcast:
			var stale []uuid.UUID
			clientsMu.RLock()
			for id, conn := range clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error pushing event to admin client %s: %v", id, err)
					conn.Close()
					stale = append(stale, id)
				}
			}
			clientsMu.RUnlock()
			if len(stale) > 0 {
				clientsMu.Lock()
				for _, id := range stale {
					delete(clients, id)
				}
				clientsMu.Unlock()
			}
		}
	}
}

// Publish never blocks a state transition on slow dashboard consumers; the
// event is dropped if the buffer is full.
func Publish(eventType, reference, courtName, status, sessionStatus string) {
	event := &BookingEvent{
		Type:          eventType,
		Reference:     reference,
		CourtName:     courtName,
		Status:        status,
		SessionStatus: sessionStatus,
		At:            time.Now(),
	}
	select {
	case Broadcast <- event:
	default:
		log.Println("⚠️ Admin feed buffer full, dropping event")
	}
}
