package websocket

import (
	"context"
	"net/http"
	"time"

	"mindgrove/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	// In production, adjust the CheckOrigin function to allow only trusted origins.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	validator services.TokenValidator
	companion services.Chatbot
	log       *logrus.Logger
)

// Init installs the chat handler dependencies.
func Init(v services.TokenValidator, c services.Chatbot, l *logrus.Logger) {
	validator = v
	companion = c
	log = l
	if log == nil {
		log = logrus.StandardLogger()
	}
}

// Message is one inbound chat turn from the client.
type Message struct {
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Reply is one outbound companion turn.
type Reply struct {
	Message          string `json:"message"`
	SuggestsExercise bool   `json:"suggests_exercise"`
	Error            string `json:"error,omitempty"`
}

const replyTimeout = 30 * time.Second

// ChatHandler upgrades the connection and relays messages to the AI
// companion until the client hangs up. Auth uses a token query
// parameter because browsers cannot set headers on WebSocket dials.
func ChatHandler(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		log.Warn("websocket connection failed: missing token")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}

	user, err := validator.UserFromToken(c.Request.Context(), token)
	if err != nil {
		log.WithError(err).Warn("websocket connection failed: invalid token")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Error("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log.WithField("userID", user.ID).Info("chat session opened")

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Warn("chat read failed")
			}
			break
		}
		if msg.Message == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
		reply, err := companion.SendMessage(ctx, msg.Message, msg.Context)
		cancel()
		if err != nil {
			if writeErr := conn.WriteJSON(Reply{Error: "chat failed"}); writeErr != nil {
				break
			}
			continue
		}

		if err := conn.WriteJSON(Reply{Message: reply.Message, SuggestsExercise: reply.SuggestsExercise}); err != nil {
			break
		}
	}

	log.WithField("userID", user.ID).Info("chat session closed")
}
