package ws

import (
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ProgressHandler returns the route handler that upgrades the connection
// and subscribes it to pipeline progress events.
func ProgressHandler(hub *Hub, logger *log.Logger) fiber.Handler {
	serve := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			if logger != nil {
				logger.Printf("ws=progress event=upgrade_error error=%v", err)
			}
			return
		}

		client := NewClient(hub, conn)
		hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return func(c fiber.Ctx) error {
		if hub == nil {
			return fiber.ErrServiceUnavailable
		}
		return serve(c)
	}
}
