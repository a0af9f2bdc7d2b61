package http

import (
	"context"
	"net/http"

	"github.com/safenode/vaultsync/internal/utils"
)

// deviceIDHeader carries the caller's device identity on device-scoped
// routes.
const deviceIDHeader = "X-Device-Id"

// requireDevice enforces the device-trust ring: the request must carry a
// device identifier, the device must be registered and active, and the
// session must be (or become) bound to exactly this device. The binding is
// permanent, so a stolen token cannot be replayed from another device.
func (h *Handler) requireDevice(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceID := r.Header.Get(deviceIDHeader)
		if deviceID == "" {
			writeError(w, http.StatusBadRequest, CodeMissingDeviceID, "missing "+deviceIDHeader+" header")
			return
		}

		session, ok := utils.GetSessionFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "no authenticated session")
			return
		}

		if err := h.services.DeviceTrustService.Verify(r.Context(), session.AccountID, deviceID); err != nil {
			writeServiceError(w, err)
			return
		}

		if err := h.services.SessionService.Bind(r.Context(), session, deviceID); err != nil {
			writeServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), utils.DeviceIDCtxKey, deviceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
