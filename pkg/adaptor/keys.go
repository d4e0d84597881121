package adaptor

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// KeyPrefix marks API keys issued to remote adaptors.
const KeyPrefix = "ra"

// GenerateAPIKey returns an opaque key of the form <prefix>_<20 hex chars>.
func GenerateAPIKey(prefix string) string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("adaptor: reading random bytes: %v", err))
	}
	sum := sha1.Sum(buf)
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(sum[:])[:20])
}
