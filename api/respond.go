package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jacentio/mysfits/store"
)

// Client-facing messages. These are stable and never carry internal causes.
const (
	msgHealth         = "Nothing here, used for health check. Try /mysfits instead."
	msgInvalidFilter  = `Query parameter "filter" must be either "GoodEvil" or "LawChaos".`
	msgMissingValue   = `Query parameter "value" is required when using "filter".`
	msgNotFound       = "Mysfit not found."
	msgInternal       = "Failed to load mysfits data."
	msgRouteNotFound  = "Not found."
	msgMethodNotAllow = "Method not allowed."
)

// messageResponse is the body of health and error responses.
type messageResponse struct {
	Message string `json:"message"`
}

// listResponse is the body of GET /mysfits.
type listResponse struct {
	Mysfits []store.Summary `json:"mysfits"`
}

// updateResponse is the body of a successful like or adopt.
type updateResponse struct {
	Update string `json:"Update"`
}

var updateSuccess = updateResponse{Update: "Success"}

// writeJSON writes data as JSON with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; all that is left is to record it.
		slog.Default().Error("failed to encode JSON response", "error", err)
	}
}

// writeMessage writes a {"message": ...} body.
func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, messageResponse{Message: message})
}
