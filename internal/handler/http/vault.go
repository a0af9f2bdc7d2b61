package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/safenode/vaultsync/internal/store"
	"github.com/safenode/vaultsync/internal/utils"
	"github.com/safenode/vaultsync/models"
)

// vaultSalt handles GET /api/vault/salt. First call creates the account's
// salt; every later call, from any device, returns the same bytes.
func (h *Handler) vaultSalt(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "no authenticated account")
		return
	}

	salt, err := h.services.VaultService.IssueSalt(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.SaltResponse{
		Salt: base64.StdEncoding.EncodeToString(salt),
	}, http.StatusOK)
}

// vaultInit handles POST /api/vault/init: the one-time first push. A version
// conflict here means a vault already exists, which gets its own code so the
// client knows to pull instead of retrying.
func (h *Handler) vaultInit(w http.ResponseWriter, r *http.Request) {
	accountID, ciphertext, iv, version, ok := h.decodePush(w, r)
	if !ok {
		return
	}

	newVersion, err := h.services.VaultService.Init(r.Context(), accountID, ciphertext, iv, version)
	if err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			writeError(w, http.StatusConflict, CodeVaultAlreadyExists, "vault already initialized")
			return
		}
		writeServiceError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.VaultPushResponse{Success: true, Version: newVersion}, http.StatusCreated)
}

// vaultSave handles POST /api/vault/save: a compare-and-swap push of the next
// version.
func (h *Handler) vaultSave(w http.ResponseWriter, r *http.Request) {
	accountID, ciphertext, iv, version, ok := h.decodePush(w, r)
	if !ok {
		return
	}

	newVersion, err := h.services.VaultService.Save(r.Context(), accountID, ciphertext, iv, version)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.VaultPushResponse{Success: true, Version: newVersion}, http.StatusOK)
}

// vaultLatest handles GET /api/vault/latest?since=N. The since parameter lets
// an up-to-date client skip downloading a blob it already has.
func (h *Handler) vaultLatest(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "no authenticated account")
		return
	}

	var since int64
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeInvalidRequest, "since must be an integer")
			return
		}
		since = parsed
	}

	blob, err := h.services.VaultService.Latest(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, store.ErrVaultNotFound) {
			_, _ = utils.WriteJSON(w, models.VaultLatestResponse{Exists: false}, http.StatusOK)
			return
		}
		writeServiceError(w, err)
		return
	}

	if since > 0 && since == blob.Version {
		_, _ = utils.WriteJSON(w, models.VaultLatestResponse{
			Exists:   true,
			UpToDate: true,
			Version:  blob.Version,
		}, http.StatusOK)
		return
	}

	_, _ = utils.WriteJSON(w, models.VaultLatestResponse{
		Exists:         true,
		EncryptedVault: base64.StdEncoding.EncodeToString(blob.Ciphertext),
		IV:             base64.StdEncoding.EncodeToString(blob.IV),
		Salt:           base64.StdEncoding.EncodeToString(blob.Salt),
		Version:        blob.Version,
	}, http.StatusOK)
}

// decodePush parses and base64-decodes a vault push body. Reports the error
// itself and returns ok=false when the request is unusable.
func (h *Handler) decodePush(w http.ResponseWriter, r *http.Request) (accountID int64, ciphertext, iv []byte, version int64, ok bool) {
	accountID, found := utils.GetAccountIDFromContext(r.Context())
	if !found {
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "no authenticated account")
		return 0, nil, nil, 0, false
	}

	var req models.VaultPushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "malformed JSON body")
		return 0, nil, nil, 0, false
	}

	ciphertext, err := base64.StdEncoding.DecodeString(req.EncryptedVault)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "encryptedVault is not valid base64")
		return 0, nil, nil, 0, false
	}
	iv, err = base64.StdEncoding.DecodeString(req.IV)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "iv is not valid base64")
		return 0, nil, nil, 0, false
	}

	return accountID, ciphertext, iv, req.Version, true
}
