// Package api exposes the mysfits REST API over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter builds the HTTP handler for the service, middleware included.
// A nil logger uses slog.Default().
func NewRouter(s Store, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := NewHandler(s, logger)

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, msgRouteNotFound)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, msgMethodNotAllow)
	})

	router.HandleFunc("/", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/mysfits", h.ListMysfits).Methods(http.MethodGet)
	router.HandleFunc("/mysfits/{mysfitId}", h.GetMysfit).Methods(http.MethodGet)
	router.HandleFunc("/mysfits/{mysfitId}/like", h.LikeMysfit).Methods(http.MethodPost)
	router.HandleFunc("/mysfits/{mysfitId}/adopt", h.AdoptMysfit).Methods(http.MethodPost)

	// Wrapped outside the mux so 404, 405 and preflight responses get the same treatment.
	return Chain(
		RequestID,
		AccessLog(logger),
		Recovery(logger),
		CORS,
	)(router)
}
