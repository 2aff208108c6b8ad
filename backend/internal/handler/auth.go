package handler

import (
	"net/http"

	"github.com/qmail-dev/qmail/shared/api"
	"github.com/qmail-dev/qmail/shared/domain"
	"github.com/qmail-dev/qmail/shared/utils"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body api.RegisterRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	email, err := h.auth.Register(r.Context(), domain.UserCreationData{
		Username:      *body.Username,
		Password:      *body.Password,
		PublicKey:     *body.PublicKey,
		FirstName:     *body.FirstName,
		LastName:      *body.LastName,
		PhoneNumber:   *body.PhoneNumber,
		Address:       *body.Address,
		RecoveryEmail: *body.RecoveryEmail,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, api.RegisterResponse{Message: "User registered successfully", Email: email})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	email, err := h.auth.Login(r.Context(), domain.Credentials{Email: *body.Email, Password: *body.Password})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.LoginResponse{Message: "Login successful", Email: email})
}

func (h *Handler) PublicKey(w http.ResponseWriter, r *http.Request) {
	email := emailParam(r)

	key, err := h.auth.PublicKey(r.Context(), email)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.PublicKeyResponse{Email: email, PublicKey: key})
}
