package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// GenerateAPIKey returns the plaintext key (shown once), its storage hash,
// and the display prefix.
func GenerateAPIKey() (key, hash, prefix string, err error) {
	buf := make([]byte, 24)
	if _, err = rand.Read(buf); err != nil {
		return "", "", "", err
	}

	key = "pk_" + hex.EncodeToString(buf)
	hash = HashAPIKey(key)
	prefix = key[:11]
	return key, hash, prefix, nil
}

func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
