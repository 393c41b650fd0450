package websocket

import (
	"sync"

	"github.com/gorilla/websocket"

	"hangoutspots/models"
	"hangoutspots/utils"
)

// GamificationClient is one connection subscribed to gamification updates.
type GamificationClient struct {
	Conn    *websocket.Conn
	UserID  string
	writeMu sync.Mutex
}

// SafeWriteJSON serializes writes; gorilla connections allow one writer at a time.
func (gc *GamificationClient) SafeWriteJSON(v interface{}) error {
	gc.writeMu.Lock()
	defer gc.writeMu.Unlock()
	return gc.Conn.WriteJSON(v)
}

var (
	gamificationClients = make(map[*GamificationClient]bool)
	gamificationMutex   sync.RWMutex
)

// RegisterGamificationClient adds a client to the broadcast set.
func RegisterGamificationClient(client *GamificationClient) {
	gamificationMutex.Lock()
	defer gamificationMutex.Unlock()
	gamificationClients[client] = true
	utils.Sugar.Debugf("gamification client registered, total: %d", len(gamificationClients))
}

// UnregisterGamificationClient removes a client and closes its connection.
func UnregisterGamificationClient(client *GamificationClient) {
	gamificationMutex.Lock()
	defer gamificationMutex.Unlock()
	delete(gamificationClients, client)
	client.Conn.Close()
	utils.Sugar.Debugf("gamification client unregistered, total: %d", len(gamificationClients))
}

// BroadcastGamificationEvent pushes a points or achievement event to every
// connected client. Failed writes drop the client.
func BroadcastGamificationEvent(event models.GamificationEvent) {
	gamificationMutex.RLock()
	defer gamificationMutex.RUnlock()

	message := map[string]interface{}{
		"type":      event.Type,
		"userId":    event.UserID,
		"timestamp": event.Timestamp,
	}
	if event.AchievementType != "" {
		message["achievementType"] = event.AchievementType
	}
	if event.Points != 0 {
		message["points"] = event.Points
	}

	for client := range gamificationClients {
		if err := client.SafeWriteJSON(message); err != nil {
			utils.Sugar.Warnf("gamification broadcast write error: %v", err)
			go UnregisterGamificationClient(client)
		}
	}
}

// GamificationClientsCount reports how many clients are connected.
func GamificationClientsCount() int {
	gamificationMutex.RLock()
	defer gamificationMutex.RUnlock()
	return len(gamificationClients)
}
