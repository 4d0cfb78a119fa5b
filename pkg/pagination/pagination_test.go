package pagination

import (
	"testing"
	"time"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("zero should use the default, got %d", got)
	}
	if got := NormalizeLimit(500); got != MaxLimit {
		t.Fatalf("limit should be capped, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("in-range limit should pass through, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	cursor := Cursor{CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC), ID: 1042}
	encoded := EncodeCursor(cursor)

	decoded, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if decoded == nil {
		t.Fatal("expected cursor, got nil")
	}
	if !decoded.CreatedAt.Equal(cursor.CreatedAt) || decoded.ID != cursor.ID {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	decoded, err := ParseCursor("   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded != nil {
		t.Fatal("blank cursor should decode to nil")
	}
}

func TestParseCursorGarbage(t *testing.T) {
	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestTotalPages(t *testing.T) {
	if got := TotalPages(0, 12); got != 0 {
		t.Fatalf("empty total should yield zero pages, got %d", got)
	}
	if got := TotalPages(12, 12); got != 1 {
		t.Fatalf("exact fit should yield one page, got %d", got)
	}
	if got := TotalPages(13, 12); got != 2 {
		t.Fatalf("overflow should round up, got %d", got)
	}
}
