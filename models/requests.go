package models

// AuthRequest is the body of both /api/auth/register and /api/auth/login.
// AuthHash is computed client-side from the KEK; the master password itself
// never crosses the wire.
type AuthRequest struct {
	Login    string `json:"login"`
	AuthHash string `json:"authHash"`
}

// VaultPushRequest is the body of /api/vault/init and /api/vault/save.
// EncryptedVault and IV are base64-encoded. Version is the pusher's new
// version: for init it must be 1, for save it must be exactly one greater
// than the version the pusher last observed on the server.
type VaultPushRequest struct {
	EncryptedVault string `json:"encryptedVault"`
	IV             string `json:"iv"`
	Version        int64  `json:"version"`
}

// DeviceRegisterRequest is the body of /api/devices/register.
type DeviceRegisterRequest struct {
	DeviceID string `json:"deviceId"`
	Name     string `json:"name"`
	Platform string `json:"platform"`
}

// DeviceApproveRequest is the body of /api/devices/approve. The approving
// device is taken from the caller's session binding, not from the body.
type DeviceApproveRequest struct {
	DeviceID string `json:"deviceId"`
}
