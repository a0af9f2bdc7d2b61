package crypto

import "github.com/safenode/vaultsync/models"

//go:generate mockgen -source=interfaces.go -destination=../mock/cipher_service_mock.go -package=mock

// CipherService owns all client-side cryptography of the zero-knowledge
// scheme. It knows nothing about the network, storage, or accounts; its only
// job is deriving keys and transforming vault bytes.
//
// Scheme:
//
//	key      = DeriveKey(masterPassword, salt)     // deterministic, Argon2id
//	ct, iv   = Encrypt(plaintext, key)             // AES-256-GCM, fresh IV
//	pt       = Decrypt(ct, iv, key)                // fails closed on tamper
//	authHash = AuthHash(key, login)                // server login credential
type CipherService interface {
	// GenerateSalt returns 16 random bytes (128 bits). The salt is not a
	// secret; the server stores it in the clear, once per account, so that
	// every device deriving with the same password converges on one key.
	GenerateSalt() ([]byte, error)

	// DeriveKey derives a 256-bit symmetric key from the master password and
	// salt via Argon2id. Deterministic: identical inputs always produce the
	// identical key. The key exists only in client memory.
	DeriveKey(masterPassword string, salt []byte) []byte

	// Encrypt seals plaintext with key using AES-256-GCM under a fresh
	// random 12-byte IV. The IV is returned separately because the server
	// record stores ciphertext and IV as distinct fields.
	Encrypt(plaintext, key []byte) (ciphertext, iv []byte, err error)

	// Decrypt opens ciphertext with key and iv. Any bit flip, truncation, or
	// wrong key fails the GCM authentication tag and returns
	// ErrDecryptionFailed, never silently corrupted plaintext.
	Decrypt(ciphertext, iv, key []byte) ([]byte, error)

	// AuthHash computes the login credential sent to the server:
	// SHA-256(key ‖ login). The server can compare it but cannot invert it
	// to recover the key.
	AuthHash(key []byte, login string) string

	// EncodeVault serializes a vault to its plaintext wire form (JSON).
	EncodeVault(vault models.Vault) ([]byte, error)

	// DecodeVault parses plaintext produced by EncodeVault. A parse failure
	// on freshly decrypted bytes means the blob predates this format or was
	// produced by foreign code; it is reported as ErrMalformedVault.
	DecodeVault(plaintext []byte) (models.Vault, error)
}
