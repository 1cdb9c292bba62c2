// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Aditya060/Quiz-Stats/live"
	"github.com/Aditya060/Quiz-Stats/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Viewers connect from phones and the shared display; origin policy
	// is handled upstream, same as the CORS middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type LiveHandler struct {
	hub *live.Hub
}

func NewLiveHandler(hub *live.Hub) *LiveHandler {
	return &LiveHandler{hub: hub}
}

// Serve handles GET /api/ws
// Upgrades the connection and attaches the viewer to the broadcast hub.
func (h *LiveHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		slog.Warn("websocket upgrade failed", "error", err, "remote", middleware.GetClientIP(r))
		return
	}

	client := live.NewClient(conn)
	h.hub.Register(client)

	go client.WritePump()
	client.ReadPump(h.hub)
}
