package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"

	"github.com/safenode/vaultsync/models"
)

// cipherService is the private implementation of [CipherService].
type cipherService struct {
	// Argon2id tuning parameters. Kept in the struct so they can be adjusted
	// per deployment target (mobile vs. desktop) without touching call sites.
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewCipherService constructs a [CipherService] with the Argon2id parameters
// recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewCipherService() CipherService {
	return &cipherService{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
	}
}

// GenerateSalt implements [CipherService]. It reads 16 random bytes from the
// OS CSPRNG. Returns an error if the random read fails.
func (c *cipherService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DeriveKey implements [CipherService]. It derives a 256-bit key from
// masterPassword and salt using Argon2id with the parameters stored in the
// receiver. Two devices given the same password and salt converge on the
// same key, which is what makes cross-device decryption possible at all.
func (c *cipherService) DeriveKey(masterPassword string, salt []byte) []byte {
	return argon2.IDKey(
		[]byte(masterPassword),
		salt,
		c.argonTime,
		c.argonMemory,
		c.argonThreads,
		c.argonKeyLen,
	)
}

// Encrypt implements [CipherService]. It seals plaintext with AES-256-GCM
// under a fresh random 12-byte IV, returned separately from the ciphertext.
// A given (key, IV) pair is never reused: the IV comes from the CSPRNG on
// every call.
func (c *cipherService) Encrypt(plaintext, key []byte) ([]byte, []byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, fmt.Errorf("create gcm: %w", err)
	}

	iv := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, nil, fmt.Errorf("generate iv: %w", err)
	}

	ciphertext := gcm.Seal(nil, iv, plaintext, nil)
	return ciphertext, iv, nil
}

// Decrypt implements [CipherService]. It opens ciphertext with key and iv
// via AES-256-GCM. An authentication-tag mismatch almost always means the
// user typed the wrong master password, producing a wrong key; it is
// reported as [ErrDecryptionFailed] along with every other open failure.
func (c *cipherService) Decrypt(ciphertext, iv, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	if len(iv) != gcm.NonceSize() {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := gcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	return plaintext, nil
}

// AuthHash implements [CipherService]. It computes SHA-256(key ‖ login) and
// returns the hex digest. The login domain-separates the hash from the key
// material itself; the server stores and compares the digest but cannot
// recover the key from it.
func (c *cipherService) AuthHash(key []byte, login string) string {
	h := sha256.New()
	h.Write(key)
	h.Write([]byte(login))
	return hex.EncodeToString(h.Sum(nil))
}

// EncodeVault implements [CipherService].
func (c *cipherService) EncodeVault(vault models.Vault) ([]byte, error) {
	plaintext, err := json.Marshal(vault)
	if err != nil {
		return nil, fmt.Errorf("marshal vault: %w", err)
	}
	return plaintext, nil
}

// DecodeVault implements [CipherService].
func (c *cipherService) DecodeVault(plaintext []byte) (models.Vault, error) {
	var vault models.Vault
	if err := json.Unmarshal(plaintext, &vault); err != nil {
		return models.Vault{}, fmt.Errorf("%w: %v", ErrMalformedVault, err)
	}
	return vault, nil
}
