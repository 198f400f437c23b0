// Package password derives and verifies one-way password hashes.
//
// Stored values are "salt:derivedKeyHex". The derivation is scrypt, so
// brute-forcing a leaked hash is memory- and CPU-expensive, and the
// per-user salt defeats precomputed tables.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	saltLen = 16
	keyLen  = 64

	// scrypt cost parameters
	scryptN = 32768
	scryptR = 8
	scryptP = 1
)

// GenerateSalt returns a fresh random salt, hex-encoded.
func GenerateSalt() (string, error) {
	b := make([]byte, saltLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Hash derives a key from raw and salt and returns the stored form
// "salt:derivedKeyHex".
func Hash(raw, salt string) (string, error) {
	derived, err := scrypt.Key([]byte(raw), []byte(salt), scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}
	return salt + ":" + hex.EncodeToString(derived), nil
}

// Verify reports whether raw matches the stored hash. Malformed stored
// values fail closed: the answer is false, never an error.
func Verify(raw, stored string) bool {
	salt, hexKey, ok := strings.Cut(stored, ":")
	if !ok || salt == "" || hexKey == "" {
		return false
	}
	want, err := hex.DecodeString(hexKey)
	if err != nil {
		return false
	}
	derived, err := scrypt.Key([]byte(raw), []byte(salt), scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(derived, want) == 1
}
