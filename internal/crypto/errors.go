package crypto

import "errors"

var (
	// ErrDecryptionFailed is returned whenever a ciphertext cannot be
	// authenticated and opened: wrong master password (wrong derived key),
	// corrupted ciphertext, or a truncated/invalid IV all collapse into this
	// one error. Callers surface it as "incorrect master password or
	// corrupted vault" and count it toward the unlock lockout; it is a
	// structural failure and must never be retried.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrMalformedVault is returned when successfully decrypted plaintext
	// does not parse as a vault. Distinct from ErrDecryptionFailed: the key
	// was right, the payload is not ours.
	ErrMalformedVault = errors.New("malformed vault payload")
)
