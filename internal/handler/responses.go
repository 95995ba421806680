package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/verdantlabs/gardenledger/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Encode through a pooled buffer to reduce allocations
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers already sent; nothing left to do but log
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses. Internal detail stays in the logs; clients get a stable message.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, ErrMsgNotAuthorized
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden, ErrMsgPlantNotYours
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusBadRequest, ErrMsgNotEnoughTokens
	case errors.Is(err, domain.ErrInsufficientPayment):
		return http.StatusBadRequest, ErrMsgPaymentTooSmall
	case errors.Is(err, domain.ErrSupplyExceeded):
		return http.StatusBadRequest, ErrMsgSupplyCapReached
	case errors.Is(err, domain.ErrDailyLimitExceeded):
		return http.StatusTooManyRequests, ErrMsgDailyLimit
	case errors.Is(err, domain.ErrBelowMinimum):
		return http.StatusBadRequest, ErrMsgBurnTooSmall
	case errors.Is(err, domain.ErrCooldownActive):
		return http.StatusTooManyRequests, ErrMsgOnCooldown
	case errors.Is(err, domain.ErrUnknownItem):
		return http.StatusBadRequest, ErrMsgUnknownItem
	case errors.Is(err, domain.ErrNoSeedItem):
		return http.StatusBadRequest, ErrMsgNoSeed
	case errors.Is(err, domain.ErrPlantNotFound):
		return http.StatusNotFound, ErrMsgPlantNotFound
	case errors.Is(err, domain.ErrPlantNotMature):
		return http.StatusBadRequest, ErrMsgPlantNotMature
	case errors.Is(err, domain.ErrPlantDead):
		return http.StatusBadRequest, ErrMsgPlantDead
	case errors.Is(err, domain.ErrEmptyTreasury):
		return http.StatusBadRequest, ErrMsgEmptyTreasury
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestSummary
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}

// respondServiceError logs the raw error and writes the mapped response.
func respondServiceError(w http.ResponseWriter, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	respondError(w, status, msg)
}
