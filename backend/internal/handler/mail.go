package handler

import (
	"net/http"

	"github.com/qmail-dev/qmail/shared/api"
	"github.com/qmail-dev/qmail/shared/domain"
	"github.com/qmail-dev/qmail/shared/utils"
)

func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var body api.SendEmailRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	_, err := h.mail.Send(r.Context(), domain.MessageCreationData{
		SenderEmail:    *body.SenderEmail,
		RecipientEmail: *body.RecipientEmail,
		EncryptedBody:  *body.EncryptedBody,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.SendEmailResponse{Message: "Email has been sent and stored successfully!"})
}

func (h *Handler) Inbox(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.mail.Inbox(r.Context(), emailParam(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, mailbox(msgs))
}

func (h *Handler) Sent(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.mail.Sent(r.Context(), emailParam(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, mailbox(msgs))
}

// mailbox keeps an empty result rendered as [] rather than null.
func mailbox(msgs []domain.Message) api.MailboxResponse {
	if msgs == nil {
		return api.MailboxResponse{}
	}
	return api.MailboxResponse(msgs)
}
