package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestEncodeDecodeTimeCursor(t *testing.T) {
	cursor := &TimeCursor{
		ID:  uuid.New(),
		Key: time.Date(2025, 3, 5, 21, 26, 6, 0, time.UTC),
	}

	token, err := Encode(cursor)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	decoded, err := DecodeTime(token)
	if err != nil {
		t.Fatalf("DecodeTime failed: %v", err)
	}
	if decoded.ID != cursor.ID {
		t.Errorf("expected id %s, got %s", cursor.ID, decoded.ID)
	}
	if !decoded.Key.Equal(cursor.Key) {
		t.Errorf("expected key %v, got %v", cursor.Key, decoded.Key)
	}
}

func TestDecodeEmptyTokenIsNilCursor(t *testing.T) {
	cursor, err := DecodeTime("")
	if err != nil {
		t.Fatalf("DecodeTime failed: %v", err)
	}
	if cursor != nil {
		t.Errorf("expected nil cursor, got %+v", cursor)
	}
}

func TestDecodeMalformedToken(t *testing.T) {
	cases := []string{
		"not-base64!!",
		"bm90IGpzb24",                   // "not json"
		"e30",                           // "{}" — missing id
	}
	for _, token := range cases {
		if _, err := DecodeTime(token); err == nil {
			t.Errorf("expected error for token %q", token)
		}
	}
}

func TestEncodeDecodeCountCursor(t *testing.T) {
	cursor := &CountCursor{ID: uuid.New(), Key: 42}

	token, err := Encode(cursor)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := DecodeCount(token)
	if err != nil {
		t.Fatalf("DecodeCount failed: %v", err)
	}
	if decoded.ID != cursor.ID || decoded.Key != 42 {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}

func TestTrim(t *testing.T) {
	rows := []int{1, 2, 3}

	items, hasMore := Trim(rows, 2)
	if len(items) != 2 || !hasMore {
		t.Errorf("expected 2 items and hasMore, got %d items hasMore=%v", len(items), hasMore)
	}

	items, hasMore = Trim(rows, 3)
	if len(items) != 3 || hasMore {
		t.Errorf("expected 3 items and no more, got %d items hasMore=%v", len(items), hasMore)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		limit, def, max, want int
	}{
		{0, 20, 100, 20},
		{-5, 20, 100, 20},
		{50, 20, 100, 50},
		{500, 20, 100, 100},
	}
	for _, tt := range tests {
		if got := Clamp(tt.limit, tt.def, tt.max); got != tt.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tt.limit, tt.def, tt.max, got, tt.want)
		}
	}
}
