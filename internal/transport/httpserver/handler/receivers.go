package handler

import (
	"errors"
	"net/http"
	"time"

	receiverdomain "yatra-app-go/internal/domain/receiver"
	"yatra-app-go/internal/transport/httpserver/middleware"
)

type createReceiverRequest struct {
	Name   string `json:"name"`
	Method string `json:"method"`
}

type receiverResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Method    string    `json:"method"`
	CreatedAt time.Time `json:"created_at"`
}

type receiverListResponse struct {
	Items []string `json:"items"`
}

func (h *Handlers) ListReceivers(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	names, err := h.Receivers.List(r.Context(), parseMethodParam(r.URL.Query().Get("method")), s.Role)
	if err != nil {
		h.writeReceiverError(w, "receivers.list", err)
		return
	}

	writeJSON(w, http.StatusOK, receiverListResponse{Items: names})
}

func (h *Handlers) CreateReceiver(w http.ResponseWriter, r *http.Request) {
	var req createReceiverRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	created, err := h.Receivers.Add(r.Context(), req.Name, parseMethodParam(req.Method))
	if err != nil {
		h.writeReceiverError(w, "receivers.create", err, "name", req.Name)
		return
	}

	writeJSON(w, http.StatusCreated, receiverResponse{
		ID:        created.ID,
		Name:      created.Name,
		Method:    string(created.Method),
		CreatedAt: created.CreatedAt,
	})
}

func (h *Handlers) DeleteReceiver(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	query := r.URL.Query()
	name := query.Get("name")
	if err := h.Receivers.Delete(r.Context(), name, parseMethodParam(query.Get("method")), s.Role); err != nil {
		h.writeReceiverError(w, "receivers.delete", err, "name", name)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeReceiverError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, receiverdomain.ErrInvalidReceiver):
		h.log.BusinessError(op+": invalid receiver", err, args...)
		writeError(w, http.StatusBadRequest, "invalid_receiver", err.Error())
	case errors.Is(err, receiverdomain.ErrReceiverExists):
		h.log.BusinessError(op+": receiver exists", err, args...)
		writeError(w, http.StatusConflict, "receiver_exists", err.Error())
	case errors.Is(err, receiverdomain.ErrReceiverNotFound):
		h.log.BusinessError(op+": receiver not found", err, args...)
		writeError(w, http.StatusNotFound, "receiver_not_found", "receiver not found")
	default:
		h.log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
