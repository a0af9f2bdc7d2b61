package models

// ErrorResponse is the uniform error body of the HTTP API. Code is a stable
// machine-readable identifier; clients must branch on Code, never on Message.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SaltResponse is the body of GET /api/vault/salt.
type SaltResponse struct {
	Salt string `json:"salt"`
}

// VaultPushResponse is the body of successful /api/vault/init and
// /api/vault/save calls. Version echoes the now-current server version.
type VaultPushResponse struct {
	Success bool  `json:"success"`
	Version int64 `json:"version"`
}

// VaultLatestResponse is the body of GET /api/vault/latest. Exactly one of
// three shapes is populated:
//   - Exists=false: no vault has been pushed for the account yet.
//   - UpToDate=true: the caller's ?since version matches the server's.
//   - Exists=true: full blob returned (EncryptedVault/IV/Salt base64).
type VaultLatestResponse struct {
	Exists         bool   `json:"exists"`
	UpToDate       bool   `json:"upToDate,omitempty"`
	EncryptedVault string `json:"encryptedVault,omitempty"`
	IV             string `json:"iv,omitempty"`
	Salt           string `json:"salt,omitempty"`
	Version        int64  `json:"version,omitempty"`
}

// DeviceListResponse is the body of GET /api/devices.
type DeviceListResponse struct {
	Devices []Device `json:"devices"`
	Length  int      `json:"length"`
}

// DeviceRemoveResponse reports how many sessions the removal cascaded to.
type DeviceRemoveResponse struct {
	Success         bool `json:"success"`
	RevokedSessions int  `json:"revokedSessions"`
}
