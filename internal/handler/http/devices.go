package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/safenode/vaultsync/internal/utils"
	"github.com/safenode/vaultsync/models"
)

// deviceRegister handles POST /api/devices/register. It runs inside the
// authenticated ring but outside the device ring: the device being admitted
// obviously cannot pass the device check yet. On success the caller's
// session is bound to the new device.
func (h *Handler) deviceRegister(w http.ResponseWriter, r *http.Request) {
	session, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "no authenticated session")
		return
	}

	var req models.DeviceRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "malformed JSON body")
		return
	}

	device, err := h.services.DeviceTrustService.Register(r.Context(), session.AccountID, req.DeviceID, req.Name, req.Platform)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.services.SessionService.Bind(r.Context(), session, device.DeviceID); err != nil {
		writeServiceError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, device, http.StatusCreated)
}

// deviceList handles GET /api/devices.
func (h *Handler) deviceList(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "no authenticated account")
		return
	}

	devices, err := h.services.DeviceTrustService.List(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.DeviceListResponse{
		Devices: devices,
		Length:  len(devices),
	}, http.StatusOK)
}

// deviceApprove handles POST /api/devices/approve. The approver is the
// caller's own verified device.
func (h *Handler) deviceApprove(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "no authenticated account")
		return
	}
	approverDeviceID, ok := utils.GetDeviceIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, CodeMissingDeviceID, "no verified device")
		return
	}

	var req models.DeviceApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "malformed JSON body")
		return
	}
	if req.DeviceID == "" {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "deviceId is required")
		return
	}

	device, err := h.services.DeviceTrustService.Approve(r.Context(), accountID, approverDeviceID, req.DeviceID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, device, http.StatusOK)
}

// deviceRemove handles DELETE /api/devices/{deviceID}.
func (h *Handler) deviceRemove(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "no authenticated account")
		return
	}
	callerDeviceID, ok := utils.GetDeviceIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, CodeMissingDeviceID, "no verified device")
		return
	}

	targetDeviceID := chi.URLParam(r, "deviceID")
	revoked, err := h.services.DeviceTrustService.Remove(r.Context(), accountID, callerDeviceID, targetDeviceID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.DeviceRemoveResponse{
		Success:         true,
		RevokedSessions: revoked,
	}, http.StatusOK)
}
