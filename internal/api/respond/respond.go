// Package respond writes the success/error/redirect envelope every endpoint returns.
package respond

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dom/weather-gate/internal/domain"
)

const (
	TypeSuccess  = "success"
	TypeError    = "error"
	TypeRedirect = "redirect"
)

type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
	Message string `json:"message,omitempty"`
	Route   string `json:"route,omitempty"`
}

func Success(w http.ResponseWriter, payload any) {
	write(w, http.StatusOK, Envelope{Type: TypeSuccess, Payload: payload})
}

func Redirect(w http.ResponseWriter, route string) {
	write(w, http.StatusOK, Envelope{Type: TypeRedirect, Route: route})
}

func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Type: TypeError, Message: message})
}

// Err maps err to a status and a client-facing message. Internal failures
// are logged under op and reported without detail.
func Err(w http.ResponseWriter, op string, err error) {
	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		log.Printf("ERROR [%s]: %v", op, err)
	}
	Error(w, status, message)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrDuplicateUser):
		return http.StatusConflict, "User already exists"
	case errors.Is(err, domain.ErrUnknownUser):
		return http.StatusUnauthorized, "User not found"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, domain.ErrUnknownSession):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, domain.ErrLocationNotFound):
		return http.StatusNotFound, "City not found"
	case errors.Is(err, domain.ErrExternalProvider):
		return http.StatusBadGateway, "Weather provider is unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Printf("ERROR [respond.write]: %v", err)
	}
}
