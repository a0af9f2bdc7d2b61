package http

import (
	"encoding/json"
	"net/http"

	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/internal/utils"
	"github.com/safenode/vaultsync/models"
)

// tokenResponse is the body of successful register and login calls.
type tokenResponse struct {
	Token string `json:"token"`
}

// register handles POST /api/auth/register.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req models.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "malformed JSON body")
		return
	}

	token, err := h.services.AuthService.RegisterUser(r.Context(), req.Login, req.AuthHash)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	logger.FromRequest(r).Info().
		Str("func", "*Handler.register").
		Str("login", req.Login).
		Msg("account registered")

	_, _ = utils.WriteJSON(w, tokenResponse{Token: token.SignedString}, http.StatusCreated)
}

// login handles POST /api/auth/login.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req models.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "malformed JSON body")
		return
	}

	token, err := h.services.AuthService.LoginUser(r.Context(), req.Login, req.AuthHash)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, tokenResponse{Token: token.SignedString}, http.StatusOK)
}
