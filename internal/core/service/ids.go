package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// newID returns a 24-character hex identifier.
func newID() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("%024x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
