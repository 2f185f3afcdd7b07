package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	authdomain "yatra-app-go/internal/domain/auth"
	sessiondomain "yatra-app-go/internal/domain/session"
	"yatra-app-go/internal/transport/httpserver/middleware"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

type changeSecretRequest struct {
	Secret  string `json:"secret"`
	Confirm string `json:"confirm"`
}

type sessionResponse struct {
	Role         string    `json:"role"`
	Label        string    `json:"label"`
	Name         string    `json:"name"`
	MobileNumber string    `json:"mobile_number,omitempty"`
	HomePath     string    `json:"home_path"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type loginResponse struct {
	Token string `json:"token"`
	sessionResponse
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	identity, err := h.Auth.Authenticate(r.Context(), req.Identifier, req.Secret)
	if err != nil {
		var credErr *authdomain.CredentialError
		switch {
		case errors.Is(err, authdomain.ErrMissingCredentials):
			h.Metrics.ObserveLogin("", "missing_credentials")
			writeError(w, http.StatusBadRequest, "missing_credentials", err.Error())
		case errors.As(err, &credErr):
			h.Metrics.ObserveLogin(credErr.Role.String(), "invalid_credentials")
			h.log.BusinessError("auth.login: invalid credential", err, "role", credErr.Role.String())
			message := "invalid credentials"
			if hint := credErr.Hint(); hint != "" {
				message += ": " + hint
			}
			writeError(w, http.StatusUnauthorized, "invalid_credentials", message)
		case errors.Is(err, authdomain.ErrIdentityNotFound):
			h.Metrics.ObserveLogin("", "not_found")
			h.log.BusinessError("auth.login: identity not found", err)
			writeError(w, http.StatusNotFound, "identity_not_found", "no account matches this identifier")
		default:
			h.Metrics.ObserveLogin("", "error")
			h.log.InternalError("auth.login: authenticate failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	s, token, err := h.Sessions.Start(r.Context(), identity)
	if err != nil {
		h.Metrics.ObserveLogin(identity.Role.String(), "error")
		h.log.InternalError("auth.login: start session failed", err, "role", identity.Role.String())
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	h.Metrics.ObserveLogin(identity.Role.String(), "success")
	h.log.Info("auth.login: session started", "role", identity.Role.String(), "session_id", s.ID)
	writeJSON(w, http.StatusOK, loginResponse{
		Token:           token,
		sessionResponse: toSessionResponse(s),
	})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Sessions.End(r.Context(), s.ID); err != nil {
		h.log.InternalError("auth.logout: end session failed", err, "session_id", s.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(s))
}

func (h *Handlers) ChangeAdminSecret(w http.ResponseWriter, r *http.Request) {
	var req changeSecretRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Secret) != strings.TrimSpace(req.Confirm) {
		writeError(w, http.StatusBadRequest, "secret_mismatch", "secret and confirmation do not match")
		return
	}

	if err := h.Auth.ChangeAdminSecret(r.Context(), req.Secret); err != nil {
		switch {
		case errors.Is(err, authdomain.ErrSecretTooShort), errors.Is(err, authdomain.ErrSecretTooLong):
			h.log.BusinessError("settings.admin_secret: rejected", err)
			writeError(w, http.StatusBadRequest, "invalid_secret", err.Error())
		default:
			h.log.InternalError("settings.admin_secret: update failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	h.log.Info("settings.admin_secret: updated")
	w.WriteHeader(http.StatusNoContent)
}

func toSessionResponse(s sessiondomain.Session) sessionResponse {
	return sessionResponse{
		Role:         s.Role.String(),
		Label:        s.Role.Label(),
		Name:         s.Name,
		MobileNumber: s.MobileNumber,
		HomePath:     s.Role.HomePath(),
		ExpiresAt:    s.ExpiresAt,
	}
}
