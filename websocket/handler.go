package websocket

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"hangoutspots/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Cross-origin browsers connect from the SPA host; the JWT is the gate.
		return true
	},
}

// GamificationHandler upgrades an authenticated request to a WebSocket
// subscribed to gamification events. Browsers cannot set headers on
// WebSocket dials, so the token may arrive as a query parameter instead.
func GamificationHandler(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string
		if authz := c.GetHeader("Authorization"); authz != "" {
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
			return
		}

		claims, err := utils.ParseToken(jwtSecret, tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			utils.Sugar.Errorf("websocket upgrade error: %v", err)
			return
		}

		client := &GamificationClient{
			Conn:   conn,
			UserID: claims.UserID,
		}
		RegisterGamificationClient(client)
		defer UnregisterGamificationClient(client)

		client.SafeWriteJSON(map[string]interface{}{
			"type":   "connected",
			"userId": claims.UserID,
		})

		for {
			messageType, _, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					utils.Sugar.Debugf("gamification websocket closed: %v", err)
				}
				return
			}
			if messageType == websocket.PingMessage {
				if err := conn.WriteMessage(websocket.PongMessage, nil); err != nil {
					return
				}
			}
		}
	}
}
