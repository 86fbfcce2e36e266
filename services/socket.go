package services

import (
	"sync"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	log "github.com/sirupsen/logrus"

	"github.com/dev-quest/quest_api/shared"
)

// SocketService pushes progression events to connected clients. A user may
// hold several connections (multiple tabs); every one receives each event.
type SocketService struct {
	context.DefaultService

	jwtSvc *JWTService

	mu    sync.RWMutex
	conns map[string]map[*websocket.Conn]chan socketEnvelope
}

const SOCKET_SVC = "socket_svc"

// Event names are part of the client contract.
const (
	EventJoin                = "join"
	EventTaskCreated         = "taskCreated"
	EventTaskUpdated         = "taskUpdated"
	EventTaskDeleted         = "taskDeleted"
	EventTaskCompleted       = "taskCompleted"
	EventStatsUpdated        = "statsUpdated"
	EventAchievementUnlocked = "achievementUnlocked"
	EventChallengeCompleted  = "challengeCompleted"
)

const sendBufferSize = 32

type socketEnvelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func (svc SocketService) Id() string {
	return SOCKET_SVC
}

func (svc *SocketService) Configure(ctx *context.Context) error {
	svc.conns = make(map[string]map[*websocket.Conn]chan socketEnvelope)
	return svc.DefaultService.Configure(ctx)
}

func (svc *SocketService) Start() error {
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	return nil
}

// UpgradeMiddleware authenticates the connection before the websocket
// handshake. The token comes from the query string because browsers cannot
// set headers on websocket requests.
func (svc *SocketService) UpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		token := c.Query("token")
		if token == "" {
			token, _ = svc.jwtSvc.ExtractTokenFromHeader(c.Get("Authorization"))
		}

		userID, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil || userID == "" {
			return fiber.ErrUnauthorized
		}

		c.Locals(shared.UserID, userID)
		return c.Next()
	}
}

// Handler owns the connection lifecycle. A writer goroutine drains the send
// channel; the read loop exists only to notice the peer going away.
func (svc *SocketService) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(shared.UserID).(string)
		if userID == "" {
			_ = conn.Close()
			return
		}

		send := svc.register(userID, conn)
		defer svc.unregister(userID, conn)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for msg := range send {
				if err := conn.WriteJSON(msg); err != nil {
					return
				}
			}
		}()

		svc.enqueue(send, socketEnvelope{Event: EventJoin, Data: fiber.Map{"userId": userID}})

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		svc.unregister(userID, conn)
		<-done
	})
}

func (svc *SocketService) register(userID string, conn *websocket.Conn) chan socketEnvelope {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.conns[userID] == nil {
		svc.conns[userID] = make(map[*websocket.Conn]chan socketEnvelope)
	}
	send := make(chan socketEnvelope, sendBufferSize)
	svc.conns[userID][conn] = send

	log.WithField("user_id", userID).Debug("Socket connected")
	return send
}

// unregister removes the connection and closes its send channel in one
// critical section, so Emit can never reach a closed channel. Safe to call
// more than once per connection.
func (svc *SocketService) unregister(userID string, conn *websocket.Conn) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	peers, ok := svc.conns[userID]
	if !ok {
		return
	}
	send, ok := peers[conn]
	if !ok {
		return
	}

	delete(peers, conn)
	close(send)
	if len(peers) == 0 {
		delete(svc.conns, userID)
	}
}

// Emit delivers an event to every live connection of the user. Slow
// consumers get dropped messages rather than blocking the caller.
func (svc *SocketService) Emit(userID, event string, data interface{}) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	for _, send := range svc.conns[userID] {
		svc.enqueue(send, socketEnvelope{Event: event, Data: data})
	}
}

func (svc *SocketService) enqueue(send chan socketEnvelope, msg socketEnvelope) {
	select {
	case send <- msg:
	default:
		log.WithField("event", msg.Event).Warn("Socket send buffer full, dropping event")
	}
}
