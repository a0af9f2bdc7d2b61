package http

import (
	"errors"
	"net/http"

	"github.com/safenode/vaultsync/internal/service"
	"github.com/safenode/vaultsync/internal/store"
	"github.com/safenode/vaultsync/internal/utils"
	"github.com/safenode/vaultsync/models"
)

// Stable machine-readable error codes of the HTTP API. Clients branch on
// these, never on the human-readable message.
const (
	CodeInvalidRequest           = "INVALID_REQUEST"
	CodeUnauthorized             = "UNAUTHORIZED"
	CodeTokenExpired             = "TOKEN_EXPIRED"
	CodeSessionInvalidated       = "SESSION_INVALIDATED"
	CodeLoginTaken               = "LOGIN_TAKEN"
	CodeMissingDeviceID          = "MISSING_DEVICE_ID"
	CodeSessionDeviceMismatch    = "SESSION_DEVICE_MISMATCH"
	CodeDeviceNotRegistered      = "DEVICE_NOT_REGISTERED"
	CodeDeviceReapprovalRequired = "DEVICE_REAPPROVAL_REQUIRED"
	CodeDeviceLimitReached       = "DEVICE_LIMIT_REACHED"
	CodeDeviceNotFound           = "DEVICE_NOT_FOUND"
	CodeApproverNotTrusted       = "APPROVER_NOT_TRUSTED"
	CodeSelfRemoval              = "CANNOT_REMOVE_CURRENT_DEVICE"
	CodeVaultAlreadyExists       = "VAULT_ALREADY_EXISTS"
	CodeVersionConflict          = "VERSION_CONFLICT"
	CodeVaultNotFound            = "VAULT_NOT_FOUND"
	CodeSaltNotIssued            = "SALT_NOT_ISSUED"
	CodeInternalError            = "INTERNAL_ERROR"
)

// writeError writes the uniform JSON error body.
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	_, _ = utils.WriteJSON(w, models.ErrorResponse{Code: code, Message: message}, statusCode)
}

// writeServiceError maps a service/store error to its HTTP status and stable
// code and writes the response. Unknown errors become an opaque 500.
func writeServiceError(w http.ResponseWriter, err error) {
	type mapping struct {
		target error
		status int
		code   string
	}

	mappings := []mapping{
		{service.ErrInvalidDataProvided, http.StatusBadRequest, CodeInvalidRequest},
		{service.ErrVaultVersionInvalid, http.StatusBadRequest, CodeInvalidRequest},
		{service.ErrWrongPassword, http.StatusUnauthorized, CodeUnauthorized},
		{service.ErrInvalidToken, http.StatusUnauthorized, CodeUnauthorized},
		{service.ErrTokenIsExpired, http.StatusUnauthorized, CodeTokenExpired},
		{service.ErrSessionInvalidated, http.StatusUnauthorized, CodeSessionInvalidated},
		{service.ErrSessionDeviceMismatch, http.StatusForbidden, CodeSessionDeviceMismatch},
		{service.ErrDeviceNotRegistered, http.StatusForbidden, CodeDeviceNotRegistered},
		{service.ErrDeviceReapprovalRequired, http.StatusForbidden, CodeDeviceReapprovalRequired},
		{service.ErrDeviceLimitReached, http.StatusForbidden, CodeDeviceLimitReached},
		{service.ErrApproverNotTrusted, http.StatusForbidden, CodeApproverNotTrusted},
		{service.ErrSelfRemoval, http.StatusConflict, CodeSelfRemoval},
		{store.ErrLoginAlreadyExists, http.StatusConflict, CodeLoginTaken},
		{store.ErrVersionConflict, http.StatusConflict, CodeVersionConflict},
		{store.ErrSaltNotIssued, http.StatusConflict, CodeSaltNotIssued},
		{store.ErrVaultNotFound, http.StatusNotFound, CodeVaultNotFound},
		{store.ErrDeviceNotFound, http.StatusNotFound, CodeDeviceNotFound},
		{store.ErrNoUserWasFound, http.StatusUnauthorized, CodeUnauthorized},
	}

	for _, m := range mappings {
		if errors.Is(err, m.target) {
			writeError(w, m.status, m.code, m.target.Error())
			return
		}
	}

	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
