package server

import (
	"errors"
	"net/http"

	"github.com/cardroom/holdemd/internal/engine"
	"github.com/cardroom/holdemd/internal/table"
)

// Request bodies for the control surface.

type createTableRequest struct {
	SmallBlind int `json:"smallBlind"`
	BigBlind   int `json:"bigBlind"`
	Ante       int `json:"ante,omitempty"`
	MaxSeats   int `json:"maxSeats"`
}

type joinRequest struct {
	Name  string `json:"name"`
	Chips int    `json:"chips"`
}

type actRequest struct {
	Seat   int    `json:"seat"`
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

type seatRequest struct {
	Seat int `json:"seat"`
}

// Response bodies.

type createTableResponse struct {
	TableID string `json:"tableId"`
}

type joinResponse struct {
	Seat int `json:"seat"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type listTablesResponse struct {
	Tables []string `json:"tables"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// errorStatus maps an engine or registry error to its HTTP status and wire
// code. Unknown errors surface as an internal fault.
func errorStatus(err error) (int, errorResponse) {
	var illegal *engine.IllegalActionError
	switch {
	case errors.As(err, &illegal):
		return http.StatusUnprocessableEntity, errorResponse{Error: "illegal_action", Reason: string(illegal.Reason)}
	case errors.Is(err, engine.ErrUnknownSeat):
		return http.StatusNotFound, errorResponse{Error: "unknown_seat"}
	case errors.Is(err, engine.ErrTableFull):
		return http.StatusConflict, errorResponse{Error: "table_full"}
	case errors.Is(err, engine.ErrInsufficientPlayers):
		return http.StatusConflict, errorResponse{Error: "insufficient_players"}
	case errors.Is(err, engine.ErrNotYourTurn):
		return http.StatusConflict, errorResponse{Error: "not_your_turn"}
	case errors.Is(err, engine.ErrWrongPhase):
		return http.StatusConflict, errorResponse{Error: "wrong_phase"}
	case errors.Is(err, table.ErrTableNotFound):
		return http.StatusNotFound, errorResponse{Error: "table_not_found"}
	case errors.Is(err, table.ErrTableClosed):
		return http.StatusGone, errorResponse{Error: "table_closed"}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal", Reason: err.Error()}
	}
}
