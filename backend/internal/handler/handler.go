// Package handler serves the QMail HTTP API.
//
// There is no session or token: mailbox, key lookup and send endpoints
// trust the addresses in the request.
package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/qmail-dev/qmail/backend/internal/service"
	"github.com/qmail-dev/qmail/shared/api"
	"github.com/qmail-dev/qmail/shared/utils"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth   service.AuthService
	mail   service.MailService
	health HealthChecker
}

func New(auth service.AuthService, mail service.MailService, health HealthChecker) *Handler {
	return &Handler{auth: auth, mail: mail, health: health}
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, api.RootResponse{Project: "QMail"})
}

// emailParam returns the {email} path segment, percent-decoded.
func emailParam(r *http.Request) string {
	raw := chi.URLParam(r, "email")
	if email, err := url.PathUnescape(raw); err == nil {
		return email
	}
	return raw
}
