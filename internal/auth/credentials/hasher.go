package credentials

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

const hashCost = 12

// bcrypt only reads the first 72 bytes of its input. Longer passwords are
// digested to a fixed-length hex string first so every byte of the input
// affects the stored hash instead of being silently truncated.
func prehash(password string) []byte {
	b := []byte(password)
	if len(b) <= 72 {
		return b
	}
	sum := sha256.Sum256(b)
	return []byte(hex.EncodeToString(sum[:]))
}

// Hash hashes a plaintext password with bcrypt.
func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches the stored hash. Any failure,
// including a malformed stored hash, is treated as a mismatch.
func Verify(password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(password)) == nil
}
