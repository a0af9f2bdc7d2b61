package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safenode/vaultsync/models"
)

func TestCipherService_DeriveKey_Deterministic(t *testing.T) {
	svc := NewCipherService()

	salt, err := svc.GenerateSalt()
	require.NoError(t, err)
	require.Len(t, salt, 16)

	key1 := svc.DeriveKey("correct horse battery staple", salt)
	key2 := svc.DeriveKey("correct horse battery staple", salt)

	assert.Len(t, key1, 32)
	assert.Equal(t, key1, key2, "same password+salt must converge on the same key")

	otherSalt, err := svc.GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, key1, svc.DeriveKey("correct horse battery staple", otherSalt),
		"different salts must produce different keys")
}

func TestCipherService_EncryptDecrypt_RoundTrip(t *testing.T) {
	svc := NewCipherService()

	salt, err := svc.GenerateSalt()
	require.NoError(t, err)
	key := svc.DeriveKey("master-password", salt)

	plaintext := []byte(`{"entries":[],"version":3}`)

	ciphertext, iv, err := svc.Encrypt(plaintext, key)
	require.NoError(t, err)
	require.Len(t, iv, 12)
	require.NotEqual(t, plaintext, ciphertext)

	decrypted, err := svc.Decrypt(ciphertext, iv, key)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestCipherService_Encrypt_FreshIVPerCall(t *testing.T) {
	svc := NewCipherService()
	key := svc.DeriveKey("pw", []byte("0123456789abcdef"))

	_, iv1, err := svc.Encrypt([]byte("same plaintext"), key)
	require.NoError(t, err)
	_, iv2, err := svc.Encrypt([]byte("same plaintext"), key)
	require.NoError(t, err)

	assert.NotEqual(t, iv1, iv2, "IV must never repeat for a given key")
}

func TestCipherService_Decrypt_WrongPassword(t *testing.T) {
	svc := NewCipherService()
	salt := []byte("0123456789abcdef")

	key := svc.DeriveKey("right password", salt)
	wrongKey := svc.DeriveKey("wrong password", salt)

	ciphertext, iv, err := svc.Encrypt([]byte("top secret"), key)
	require.NoError(t, err)

	plaintext, err := svc.Decrypt(ciphertext, iv, wrongKey)
	require.ErrorIs(t, err, ErrDecryptionFailed,
		"wrong key must fail closed, never return corrupted plaintext")
	assert.Nil(t, plaintext)
}

func TestCipherService_Decrypt_TamperedCiphertext(t *testing.T) {
	svc := NewCipherService()
	key := svc.DeriveKey("pw", []byte("0123456789abcdef"))

	ciphertext, iv, err := svc.Encrypt([]byte("payload"), key)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(ct, iv []byte) ([]byte, []byte)
	}{
		{
			name: "BitFlipInCiphertext",
			mutate: func(ct, iv []byte) ([]byte, []byte) {
				flipped := append([]byte(nil), ct...)
				flipped[0] ^= 0x01
				return flipped, iv
			},
		},
		{
			name: "TruncatedCiphertext",
			mutate: func(ct, iv []byte) ([]byte, []byte) {
				return ct[:len(ct)-1], iv
			},
		},
		{
			name: "WrongIVLength",
			mutate: func(ct, iv []byte) ([]byte, []byte) {
				return ct, iv[:len(iv)-1]
			},
		},
		{
			name: "DifferentIV",
			mutate: func(ct, iv []byte) ([]byte, []byte) {
				other := append([]byte(nil), iv...)
				other[3] ^= 0xFF
				return ct, other
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, nonce := tt.mutate(ciphertext, iv)
			_, err := svc.Decrypt(ct, nonce, key)
			assert.ErrorIs(t, err, ErrDecryptionFailed)
		})
	}
}

func TestCipherService_AuthHash_DomainSeparated(t *testing.T) {
	svc := NewCipherService()
	key := svc.DeriveKey("pw", []byte("0123456789abcdef"))

	h1 := svc.AuthHash(key, "alice")
	h2 := svc.AuthHash(key, "bob")

	assert.NotEmpty(t, h1)
	assert.NotEqual(t, h1, h2, "login must domain-separate the auth hash")
	assert.Equal(t, h1, svc.AuthHash(key, "alice"))
}

func TestCipherService_VaultCodec_RoundTrip(t *testing.T) {
	svc := NewCipherService()

	vault := models.Vault{
		Version: 7,
		Entries: []models.VaultEntry{
			{
				ID:        "e1",
				Category:  models.CategoryPassword,
				Title:     "example.com",
				Username:  "alice",
				Password:  "hunter2",
				Tags:      []string{"work"},
				CreatedAt: 1000,
				UpdatedAt: 2000,
			},
		},
	}

	plaintext, err := svc.EncodeVault(vault)
	require.NoError(t, err)

	decoded, err := svc.DecodeVault(plaintext)
	require.NoError(t, err)
	assert.Equal(t, vault, decoded)
}

func TestCipherService_DecodeVault_Malformed(t *testing.T) {
	svc := NewCipherService()

	_, err := svc.DecodeVault([]byte("not json at all"))
	assert.ErrorIs(t, err, ErrMalformedVault)
}

// Full protocol round trip: encode → encrypt → decrypt → decode with a key
// derived on a "second device" from the same password and salt.
func TestCipherService_CrossDeviceRoundTrip(t *testing.T) {
	deviceA := NewCipherService()
	deviceB := NewCipherService()

	salt, err := deviceA.GenerateSalt()
	require.NoError(t, err)

	vault := models.Vault{Version: 1, Entries: []models.VaultEntry{{ID: "e1", Title: "note", Category: models.CategoryNote}}}

	plaintext, err := deviceA.EncodeVault(vault)
	require.NoError(t, err)
	ciphertext, iv, err := deviceA.Encrypt(plaintext, deviceA.DeriveKey("shared password", salt))
	require.NoError(t, err)

	decrypted, err := deviceB.Decrypt(ciphertext, iv, deviceB.DeriveKey("shared password", salt))
	require.NoError(t, err)
	decoded, err := deviceB.DecodeVault(decrypted)
	require.NoError(t, err)

	assert.Equal(t, vault, decoded)
}
