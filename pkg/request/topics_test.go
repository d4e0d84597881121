package request

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTopicsValidation(t *testing.T) {
	topics := DefaultTopics()

	if !topics.Valid("education") {
		t.Error("expected education to be a valid topic")
	}
	if !topics.Valid("Education") {
		t.Error("expected topic matching to ignore case")
	}
	if topics.Valid("astrology") {
		t.Error("expected astrology to be rejected")
	}
}

func TestLoadTopicsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.yaml")
	content := "topics:\n  - farming\n  - fishing\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}

	topics, err := LoadTopics(path)
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	if !topics.Valid("fishing") {
		t.Error("expected fishing from the file catalog")
	}
	if topics.Valid("education") {
		t.Error("expected defaults to be replaced by the file catalog")
	}
}

func TestLoadTopicsEmptyPathUsesDefaults(t *testing.T) {
	topics, err := LoadTopics("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !topics.Valid("news") {
		t.Error("expected default catalog")
	}
}

func TestLoadTopicsRejectsEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.yaml")
	if err := os.WriteFile(path, []byte("topics: []\n"), 0o600); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}
	if _, err := LoadTopics(path); err == nil {
		t.Fatal("expected error for empty catalog")
	}
}
