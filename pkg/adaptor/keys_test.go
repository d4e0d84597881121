package adaptor

import (
	"strings"
	"testing"
)

func TestGenerateAPIKeyShape(t *testing.T) {
	key := GenerateAPIKey(KeyPrefix)

	if !strings.HasPrefix(key, "ra_") {
		t.Fatalf("expected ra_ prefix, got %s", key)
	}
	hexPart := strings.TrimPrefix(key, "ra_")
	if len(hexPart) != 20 {
		t.Fatalf("expected 20 hex chars, got %d in %s", len(hexPart), key)
	}
	for _, c := range hexPart {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Fatalf("unexpected character %q in key %s", c, key)
		}
	}
}

func TestGenerateAPIKeyIsRandom(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		key := GenerateAPIKey(KeyPrefix)
		if seen[key] {
			t.Fatalf("generated duplicate key %s", key)
		}
		seen[key] = true
	}
}
