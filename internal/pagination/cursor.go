// Package pagination implements opaque keyset cursors for stable,
// bounded page traversal over ordered collections. A cursor encodes the
// position (order key, sort value, row id tie-break) in the same total
// order the listing uses, so pages never duplicate or skip rows that
// existed unchanged around the cursor position.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/microblog-backend/internal/domain"
)

// Cursor is a decoded resume position within a listing's total order.
type Cursor struct {
	// Key names the ordering the cursor belongs to (e.g. "created_at").
	// Decoding with a different expected key fails with ErrInvalidCursor.
	Key string
	// SortValue is the primary sort value at the position.
	SortValue time.Time
	// ID is the row id tie-break for equal sort values.
	ID uuid.UUID
}

// Encode serializes the position into an opaque token.
// Format: base64(key|RFC3339Nano|uuid).
func Encode(key string, sortValue time.Time, id uuid.UUID) string {
	raw := key + "|" + sortValue.UTC().Format(time.RFC3339Nano) + "|" + id.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Decode parses a token previously produced by Encode. The token must
// carry the expected order key; tokens from another ordering, malformed
// tokens, and garbage all fail with domain.ErrInvalidCursor.
func Decode(token, expectedKey string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode cursor: %w", domain.ErrInvalidCursor)
	}

	parts := strings.SplitN(string(raw), "|", 3)
	if len(parts) != 3 {
		return Cursor{}, fmt.Errorf("cursor parts: %w", domain.ErrInvalidCursor)
	}
	if parts[0] != expectedKey {
		return Cursor{}, fmt.Errorf("cursor ordering %q: %w", parts[0], domain.ErrInvalidCursor)
	}

	sortValue, err := time.Parse(time.RFC3339Nano, parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("cursor sort value: %w", domain.ErrInvalidCursor)
	}

	id, err := uuid.Parse(parts[2])
	if err != nil {
		return Cursor{}, fmt.Errorf("cursor id: %w", domain.ErrInvalidCursor)
	}

	return Cursor{Key: parts[0], SortValue: sortValue, ID: id}, nil
}
