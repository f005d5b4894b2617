package pagination

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/microblog-backend/internal/domain"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	at := time.Date(2025, 6, 1, 12, 30, 45, 123456789, time.UTC)

	token := Encode("created_at", at, id)
	c, err := Decode(token, "created_at")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.Key != "created_at" {
		t.Errorf("Key = %q", c.Key)
	}
	if !c.SortValue.Equal(at) {
		t.Errorf("SortValue = %v, want %v", c.SortValue, at)
	}
	if c.ID != id {
		t.Errorf("ID = %v, want %v", c.ID, id)
	}
}

func TestDecode_WrongOrderKey(t *testing.T) {
	t.Parallel()

	token := Encode("created_at", time.Now(), uuid.New())
	_, err := Decode(token, "updated_at")
	if !errors.Is(err, domain.ErrInvalidCursor) {
		t.Fatalf("expected ErrInvalidCursor, got %v", err)
	}
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	for _, token := range []string{
		"",
		"not base64 ☃",
		"aGVsbG8",              // base64("hello"): too few parts
		"Y3JlYXRlZF9hdHx4fHk", // base64("created_at|x|y"): bad timestamp
	} {
		if _, err := Decode(token, "created_at"); !errors.Is(err, domain.ErrInvalidCursor) {
			t.Errorf("Decode(%q): expected ErrInvalidCursor, got %v", token, err)
		}
	}
}

func TestLimits_Clamp(t *testing.T) {
	t.Parallel()

	l := Limits{Default: 20, Max: 50}

	tests := []struct {
		in, want int
	}{
		{0, 20},
		{-5, 20},
		{1, 1},
		{50, 50},
		{51, 50},
		{10000, 50},
	}
	for _, tt := range tests {
		if got := l.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}

	// Zero-valued Limits falls back to package defaults.
	var zero Limits
	if got := zero.Clamp(0); got != DefaultLimit {
		t.Errorf("zero Clamp(0) = %d, want %d", got, DefaultLimit)
	}
	if got := zero.Clamp(10000); got != MaxLimit {
		t.Errorf("zero Clamp(10000) = %d, want %d", got, MaxLimit)
	}
}
