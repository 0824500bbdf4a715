package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateID returns a random 16-character hex ID used to correlate a
// simulation request with its webhook delivery.
func GenerateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}
