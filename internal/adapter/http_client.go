// Package adapter implements the client side of the vault protocol over
// HTTP. All transport detail stays in here: callers work with typed results
// and sentinel errors.
package adapter

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/safenode/vaultsync/internal/config"
	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/models"
)

// tokenResponse mirrors the server's auth response body.
type tokenResponse struct {
	Token string `json:"token"`
}

// httpServerAdapter is the resty-backed implementation of [ServerAdapter].
type httpServerAdapter struct {
	logger *logger.Logger
	client *resty.Client

	mu       sync.RWMutex
	token    string
	deviceID string
}

// NewHTTPServerAdapter constructs a [ServerAdapter] against cfg.ServerURL.
func NewHTTPServerAdapter(cfg config.Client, log *logger.Logger) ServerAdapter {
	log.Debug().Str("server_url", cfg.ServerURL).Msg("creating http server adapter")

	client := resty.New().
		SetBaseURL(cfg.ServerURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Content-Type", "application/json")

	return &httpServerAdapter{
		logger: log,
		client: client,
	}
}

// SetToken implements [ServerAdapter].
func (a *httpServerAdapter) SetToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
}

// SetDeviceID implements [ServerAdapter].
func (a *httpServerAdapter) SetDeviceID(deviceID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deviceID = deviceID
}

// authedRequest builds a request carrying the bearer token and, when set,
// the device identifier.
func (a *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	a.mu.RLock()
	defer a.mu.RUnlock()

	req := a.client.R().SetContext(ctx)
	if a.token != "" {
		req.SetAuthToken(a.token)
	}
	if a.deviceID != "" {
		req.SetHeader("X-Device-Id", a.deviceID)
	}
	return req
}

// mapError converts an error response into the matching sentinel. Server-side
// failures (5xx) are transient; everything else is structural.
func (a *httpServerAdapter) mapError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("%w: server returned %d", ErrTransient, resp.StatusCode())
	}

	errResp, _ := resp.Error().(*models.ErrorResponse)
	if errResp == nil {
		return fmt.Errorf("server returned %d", resp.StatusCode())
	}

	sentinels := map[string]error{
		"UNAUTHORIZED":                 ErrUnauthorized,
		"TOKEN_EXPIRED":                ErrUnauthorized,
		"SESSION_INVALIDATED":          ErrSessionInvalidated,
		"LOGIN_TAKEN":                  ErrLoginTaken,
		"VERSION_CONFLICT":             ErrVersionConflict,
		"VAULT_ALREADY_EXISTS":         ErrVaultAlreadyExists,
		"VAULT_NOT_FOUND":              ErrVaultNotFound,
		"SALT_NOT_ISSUED":              ErrSaltNotIssued,
		"DEVICE_NOT_REGISTERED":        ErrDeviceNotRegistered,
		"DEVICE_REAPPROVAL_REQUIRED":   ErrReapprovalRequired,
		"DEVICE_LIMIT_REACHED":         ErrDeviceLimitReached,
		"SESSION_DEVICE_MISMATCH":      ErrSessionDeviceMismatch,
		"CANNOT_REMOVE_CURRENT_DEVICE": ErrSelfRemoval,
	}
	if sentinel, ok := sentinels[errResp.Code]; ok {
		return sentinel
	}

	return fmt.Errorf("server error %s: %s", errResp.Code, errResp.Message)
}

// execute runs the prepared request and normalizes transport and API errors.
func (a *httpServerAdapter) execute(req *resty.Request, method, url string) (*resty.Response, error) {
	resp, err := req.SetError(&models.ErrorResponse{}).Execute(method, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	if resp.IsError() {
		return nil, a.mapError(resp)
	}
	return resp, nil
}

// Register implements [ServerAdapter].
func (a *httpServerAdapter) Register(ctx context.Context, login, authHash string) (string, error) {
	var out tokenResponse
	req := a.client.R().SetContext(ctx).
		SetBody(models.AuthRequest{Login: login, AuthHash: authHash}).
		SetResult(&out)

	if _, err := a.execute(req, http.MethodPost, "/api/auth/register"); err != nil {
		return "", err
	}
	return out.Token, nil
}

// Login implements [ServerAdapter].
func (a *httpServerAdapter) Login(ctx context.Context, login, authHash string) (string, error) {
	var out tokenResponse
	req := a.client.R().SetContext(ctx).
		SetBody(models.AuthRequest{Login: login, AuthHash: authHash}).
		SetResult(&out)

	if _, err := a.execute(req, http.MethodPost, "/api/auth/login"); err != nil {
		return "", err
	}
	return out.Token, nil
}

// FetchSalt implements [ServerAdapter].
func (a *httpServerAdapter) FetchSalt(ctx context.Context) ([]byte, error) {
	var out models.SaltResponse
	req := a.authedRequest(ctx).SetResult(&out)

	if _, err := a.execute(req, http.MethodGet, "/api/vault/salt"); err != nil {
		return nil, err
	}

	salt, err := base64.StdEncoding.DecodeString(out.Salt)
	if err != nil {
		return nil, fmt.Errorf("server returned malformed salt: %w", err)
	}
	return salt, nil
}

// RegisterDevice implements [ServerAdapter].
func (a *httpServerAdapter) RegisterDevice(ctx context.Context, deviceID, name, platform string) (models.Device, error) {
	var out models.Device
	req := a.authedRequest(ctx).
		SetBody(models.DeviceRegisterRequest{DeviceID: deviceID, Name: name, Platform: platform}).
		SetResult(&out)

	if _, err := a.execute(req, http.MethodPost, "/api/devices/register"); err != nil {
		return models.Device{}, err
	}
	return out, nil
}

// InitVault implements [ServerAdapter].
func (a *httpServerAdapter) InitVault(ctx context.Context, ciphertext, iv []byte) (int64, error) {
	return a.push(ctx, "/api/vault/init", ciphertext, iv, 1)
}

// SaveVault implements [ServerAdapter].
func (a *httpServerAdapter) SaveVault(ctx context.Context, ciphertext, iv []byte, version int64) (int64, error) {
	return a.push(ctx, "/api/vault/save", ciphertext, iv, version)
}

func (a *httpServerAdapter) push(ctx context.Context, url string, ciphertext, iv []byte, version int64) (int64, error) {
	var out models.VaultPushResponse
	req := a.authedRequest(ctx).
		SetBody(models.VaultPushRequest{
			EncryptedVault: base64.StdEncoding.EncodeToString(ciphertext),
			IV:             base64.StdEncoding.EncodeToString(iv),
			Version:        version,
		}).
		SetResult(&out)

	if _, err := a.execute(req, http.MethodPost, url); err != nil {
		return 0, err
	}
	return out.Version, nil
}

// LatestVault implements [ServerAdapter].
func (a *httpServerAdapter) LatestVault(ctx context.Context, since int64) (RemoteVault, error) {
	var out models.VaultLatestResponse
	req := a.authedRequest(ctx).SetResult(&out)
	if since > 0 {
		req.SetQueryParam("since", fmt.Sprintf("%d", since))
	}

	if _, err := a.execute(req, http.MethodGet, "/api/vault/latest"); err != nil {
		return RemoteVault{}, err
	}

	remote := RemoteVault{
		Exists:   out.Exists,
		UpToDate: out.UpToDate,
		Blob:     models.EncryptedVaultBlob{Version: out.Version},
	}
	if !out.Exists || out.UpToDate {
		return remote, nil
	}

	var err error
	if remote.Blob.Ciphertext, err = base64.StdEncoding.DecodeString(out.EncryptedVault); err != nil {
		return RemoteVault{}, fmt.Errorf("server returned malformed ciphertext: %w", err)
	}
	if remote.Blob.IV, err = base64.StdEncoding.DecodeString(out.IV); err != nil {
		return RemoteVault{}, fmt.Errorf("server returned malformed iv: %w", err)
	}
	if remote.Blob.Salt, err = base64.StdEncoding.DecodeString(out.Salt); err != nil {
		return RemoteVault{}, fmt.Errorf("server returned malformed salt: %w", err)
	}

	return remote, nil
}

// ListDevices implements [ServerAdapter].
func (a *httpServerAdapter) ListDevices(ctx context.Context) ([]models.Device, error) {
	var out models.DeviceListResponse
	req := a.authedRequest(ctx).SetResult(&out)

	if _, err := a.execute(req, http.MethodGet, "/api/devices"); err != nil {
		return nil, err
	}
	return out.Devices, nil
}

// ApproveDevice implements [ServerAdapter].
func (a *httpServerAdapter) ApproveDevice(ctx context.Context, deviceID string) (models.Device, error) {
	var out models.Device
	req := a.authedRequest(ctx).
		SetBody(models.DeviceApproveRequest{DeviceID: deviceID}).
		SetResult(&out)

	if _, err := a.execute(req, http.MethodPost, "/api/devices/approve"); err != nil {
		return models.Device{}, err
	}
	return out, nil
}

// RemoveDevice implements [ServerAdapter].
func (a *httpServerAdapter) RemoveDevice(ctx context.Context, deviceID string) (int, error) {
	var out models.DeviceRemoveResponse
	req := a.authedRequest(ctx).SetResult(&out)

	if _, err := a.execute(req, http.MethodDelete, "/api/devices/"+deviceID); err != nil {
		return 0, err
	}
	return out.RevokedSessions, nil
}
