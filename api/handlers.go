package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jacentio/mysfits/query"
	"github.com/jacentio/mysfits/store"
)

// Store is the subset of *store.Store the handlers need.
type Store interface {
	query.Lister
	Get(ctx context.Context, id string) (*store.Mysfit, error)
	IncrementLikes(ctx context.Context, id string) error
	Adopt(ctx context.Context, id string) error
}

// Handler serves the mysfits REST API. Each request makes exactly one store call.
type Handler struct {
	store  Store
	lister *query.Router
	logger *slog.Logger
}

// NewHandler creates a Handler. A nil logger uses slog.Default().
func NewHandler(s Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:  s,
		lister: query.NewRouter(s),
		logger: logger,
	}
}

// Health handles GET /.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, msgHealth)
}

// ListMysfits handles GET /mysfits with optional filter and value parameters.
func (h *Handler) ListMysfits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	summaries, err := h.lister.List(r.Context(), q.Get("filter"), q.Get("value"))
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Mysfits: summaries})
}

// GetMysfit handles GET /mysfits/{mysfitId}.
func (h *Handler) GetMysfit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["mysfitId"]
	m, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, id)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// LikeMysfit handles POST /mysfits/{mysfitId}/like.
func (h *Handler) LikeMysfit(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.store.IncrementLikes)
}

// AdoptMysfit handles POST /mysfits/{mysfitId}/adopt.
func (h *Handler) AdoptMysfit(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.store.Adopt)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, op func(context.Context, string) error) {
	id := mux.Vars(r)["mysfitId"]
	if err := op(r.Context(), id); err != nil {
		h.writeError(w, r, err, id)
		return
	}
	writeJSON(w, http.StatusOK, updateSuccess)
}

// writeError maps a store error to a status code and a stable message.
// Anything unrecognised is a 500 whose cause is logged but not returned.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, mysfitID string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeMessage(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, store.ErrInvalidFilter):
		writeMessage(w, http.StatusBadRequest, msgInvalidFilter)
	case errors.Is(err, store.ErrMissingValue):
		writeMessage(w, http.StatusBadRequest, msgMissingValue)
	default:
		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"requestId", GetRequestID(r.Context()),
			"error", err,
		}
		if mysfitID != "" {
			attrs = append(attrs, "mysfitId", mysfitID)
		}
		var ie *store.IntegrityError
		if errors.As(err, &ie) {
			attrs = append(attrs, "recordId", ie.ID, "attribute", ie.Attribute)
		}
		h.logger.ErrorContext(r.Context(), "request failed", attrs...)
		writeMessage(w, http.StatusInternalServerError, msgInternal)
	}
}
