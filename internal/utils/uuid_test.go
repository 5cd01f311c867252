package utils

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_Generate(t *testing.T) {
	g := NewUUIDGenerator()

	first, second := g.Generate(), g.Generate()
	if first == second {
		t.Fatal("expected distinct identifiers")
	}

	parsed, err := uuid.Parse(first)
	if err != nil {
		t.Fatalf("expected a valid UUID, got %q: %v", first, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("expected version 7, got %d", parsed.Version())
	}
}
