package ws

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Inventory actions pushed to subscribers.
const (
	ActionUpdate  = "update"
	ActionBook    = "book"
	ActionCollect = "collect"
)

// InventoryUpdate is the payload broadcast when a station's stock changes.
type InventoryUpdate struct {
	StationID          int64  `json:"station_id"`
	StationName        string `json:"station_name"`
	AvailableBatteries int    `json:"available_batteries"`
	BookedBatteries    int    `json:"booked_batteries"`
	TotalBatteries     int    `json:"total_batteries"`
	Action             string `json:"action"`
	Timestamp          string `json:"timestamp"`
}

// Hub fans inventory updates out to websocket subscribers. Clients subscribe
// to a single station or, with id 0, to every station.
type Hub struct {
	mu           sync.RWMutex
	subs         map[int64]map[*websocket.Conn]struct{}
	logger       *zap.Logger
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
}

// NewHub builds the hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[int64]map[*websocket.Conn]struct{}),
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		writeTimeout: 10 * time.Second,
	}
}

// Handler upgrades GET /ws/stations/{id} and keeps the connection registered
// until the peer goes away. The read loop only drains control frames.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stationID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil || stationID < 0 {
			http.Error(w, "invalid station id", http.StatusBadRequest)
			return
		}

		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		h.add(stationID, conn)
		h.logger.Info("inventory subscriber connected", zap.Int64("station_id", stationID))

		defer func() {
			h.remove(stationID, conn)
			conn.Close()
		}()

		conn.SetReadLimit(512)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

func (h *Hub) add(stationID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[stationID] == nil {
		h.subs[stationID] = make(map[*websocket.Conn]struct{})
	}
	h.subs[stationID][conn] = struct{}{}
}

func (h *Hub) remove(stationID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[stationID], conn)
	if len(h.subs[stationID]) == 0 {
		delete(h.subs, stationID)
	}
}

// Broadcast pushes an update to the station's subscribers and to the
// all-stations group. Write failures drop the subscriber.
func (h *Hub) Broadcast(update InventoryUpdate) {
	if update.Timestamp == "" {
		update.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	payload, err := json.Marshal(update)
	if err != nil {
		h.logger.Warn("failed to encode inventory update", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, group := range []int64{update.StationID, 0} {
		for conn := range h.subs[group] {
			conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.logger.Info("dropping inventory subscriber", zap.Int64("station_id", update.StationID), zap.Error(err))
				conn.Close()
				delete(h.subs[group], conn)
			}
		}
	}
}

// SubscriberCount reports currently connected clients.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, group := range h.subs {
		total += len(group)
	}
	return total
}
