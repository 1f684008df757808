package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dockside/truck-management/internal/realtime"
)

// WSHandler upgrades HTTP requests to websocket connections and hands
// them to the hub for event fan-out.
type WSHandler struct {
	hub    *realtime.Hub
	logger zerolog.Logger

	upgrader websocket.Upgrader
}

func NewWSHandler(hub *realtime.Hub, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The socket carries no client-specific data, only public change
			// events, so cross-origin dashboards may subscribe.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve handles GET /ws. The connection is registered with the hub for
// the duration of the read loop; clients never send meaningful frames,
// but the loop must run to process control messages and detect closes.
func (h *WSHandler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	h.hub.Register(conn)
	h.logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("websocket client connected")

	defer func() {
		h.hub.Deregister(conn)
		_ = conn.Close()
		h.logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("websocket client disconnected")
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}
