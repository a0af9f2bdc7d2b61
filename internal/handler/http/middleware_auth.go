package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/safenode/vaultsync/internal/utils"
)

// authenticate verifies the Authorization bearer token and loads its session.
// On success the request context carries the account ID, the session ID, and
// the full session for the device middleware downstream.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing bearer token")
			return
		}

		session, err := h.services.SessionService.Validate(r.Context(), tokenString)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), utils.AccountIDCtxKey, session.AccountID)
		ctx = context.WithValue(ctx, utils.SessionIDCtxKey, session.ID)
		ctx = context.WithValue(ctx, utils.SessionCtxKey, session)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
