package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltLen      = 16
)

// HashPassword derives an scrypt key with a fresh random salt and encodes it
// as "hex(hash).hex(salt)".
func HashPassword(raw string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key, err := scrypt.Key([]byte(raw), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%s", hex.EncodeToString(key), hex.EncodeToString(salt)), nil
}

// CheckPassword re-derives the supplied password with the stored salt and
// compares in constant time.
func CheckPassword(stored, raw string) bool {
	parts := strings.SplitN(stored, ".", 2)
	if len(parts) != 2 {
		return false
	}
	hash, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	key, err := scrypt.Key([]byte(raw), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(hash, key) == 1
}
