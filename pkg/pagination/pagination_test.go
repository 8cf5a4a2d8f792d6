package pagination

import (
	"testing"
	"time"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default %d, got %d", DefaultLimit, got)
	}
	if got := NormalizeLimit(-3); got != DefaultLimit {
		t.Fatalf("expected default for negative, got %d", got)
	}
	if got := NormalizeLimit(MaxLimit + 50); got != MaxLimit {
		t.Fatalf("expected cap %d, got %d", MaxLimit, got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("expected passthrough 10, got %d", got)
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("expected buffered 11, got %d", got)
	}
}

func TestEncodeParseCursorRoundTrip(t *testing.T) {
	placed := time.Date(2025, 6, 12, 18, 30, 0, 123456789, time.UTC)
	encoded := EncodeCursor(Cursor{PlacedAt: placed, ID: 9001})

	parsed, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("ParseCursor failed: %v", err)
	}
	if parsed == nil {
		t.Fatal("expected a cursor")
	}
	if !parsed.PlacedAt.Equal(placed) {
		t.Fatalf("unexpected placed at %v", parsed.PlacedAt)
	}
	if parsed.ID != 9001 {
		t.Fatalf("unexpected id %d", parsed.ID)
	}
}

func TestParseCursor_EmptyAndInvalid(t *testing.T) {
	cursor, err := ParseCursor("   ")
	if err != nil || cursor != nil {
		t.Fatalf("expected nil cursor for blank input, got %v %v", cursor, err)
	}
	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, err := ParseCursor("aGVsbG8="); err == nil {
		t.Fatal("expected error for missing separator")
	}
}
