package models

// EncryptedVaultBlob is the server-stored representation of a vault: the
// single opaque record kept per account. The server never interprets
// Ciphertext; Salt is issued once per account and immutable afterwards.
type EncryptedVaultBlob struct {
	Ciphertext []byte `json:"ciphertext"`
	IV         []byte `json:"iv"`
	Salt       []byte `json:"salt"`

	// Version is non-decreasing across successful pushes. A push whose
	// asserted baseline does not equal the stored version is rejected,
	// never silently overwritten.
	Version int64 `json:"version"`
}

// HasVault reports whether the blob actually carries an encrypted vault.
// A record holding only a salt (created by the first salt fetch, before any
// push) is a valid row but not a vault; a blob missing ciphertext or IV is
// treated as not-found by callers rather than surfaced as corruption.
func (b EncryptedVaultBlob) HasVault() bool {
	return len(b.Ciphertext) > 0 && len(b.IV) > 0 && b.Version >= 1
}
