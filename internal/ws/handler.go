package ws

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// UserIDFunc reads the authenticated user from the upgrade request. An empty
// result subscribes the client to every event.
type UserIDFunc func(c fiber.Ctx) string

type Handler struct {
	hub    *Hub
	log    zerolog.Logger
	userID UserIDFunc
}

func NewHandler(hub *Hub, log zerolog.Logger, userID UserIDFunc) *Handler {
	return &Handler{hub: hub, log: log, userID: userID}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) HandleAnalysesWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	userID := ""
	if h.userID != nil {
		userID = h.userID(c)
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn().Err(err).Msg("ws upgrade failed")
			return
		}

		client := NewClient(h.hub, conn, userID)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}
