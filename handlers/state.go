// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Aditya060/Quiz-Stats/middleware"
	"github.com/Aditya060/Quiz-Stats/models"
	"github.com/Aditya060/Quiz-Stats/state"
)

type StateHandler struct {
	machine *state.Machine
}

func NewStateHandler(machine *state.Machine) *StateHandler {
	return &StateHandler{machine: machine}
}

// Get handles GET /api/state
// Every viewer re-fetches this snapshot on a stateChanged event.
func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.machine.Snapshot()
	if err != nil {
		slog.Error("failed to read poll state", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, snap)
}
