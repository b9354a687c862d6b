// Package pagination implements the cursor convention shared by every
// list endpoint: a cursor is the (sort key, id) pair of the last row the
// caller has seen, the sort key alone is not unique, and the id is the
// deterministic tie-break. Endpoints fetch limit+1 rows and trim the
// extra one to detect whether more data exists without a count query.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimeCursor marks the last row seen in a timestamp-ordered listing.
// A row comes after the cursor when its key is strictly older, or equal
// with a strictly smaller id.
type TimeCursor struct {
	ID  uuid.UUID `json:"id"`
	Key time.Time `json:"key"`
}

// CountCursor marks the last row seen in a count-ordered listing, e.g.
// trending videos ordered by view count.
type CountCursor struct {
	ID  uuid.UUID `json:"id"`
	Key int64     `json:"key"`
}

// After reports whether a row identified by (key, id) sorts strictly
// after the cursor in descending (key, id) order.
func (c *TimeCursor) After(key time.Time, id uuid.UUID) bool {
	if key.Before(c.Key) {
		return true
	}
	return key.Equal(c.Key) && id.String() < c.ID.String()
}

// Encode serializes a cursor into an opaque token. A nil cursor encodes
// to the empty string.
func Encode(cursor interface{}) (string, error) {
	if cursor == nil {
		return "", nil
	}
	raw, err := json.Marshal(cursor)
	if err != nil {
		return "", fmt.Errorf("failed to encode cursor: %v", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeTime parses an opaque token into a TimeCursor. An empty token
// yields a nil cursor (start of the listing).
func DecodeTime(token string) (*TimeCursor, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor: %v", err)
	}
	var cursor TimeCursor
	if err := json.Unmarshal(raw, &cursor); err != nil {
		return nil, fmt.Errorf("malformed cursor: %v", err)
	}
	if cursor.ID == uuid.Nil {
		return nil, fmt.Errorf("malformed cursor: missing id")
	}
	return &cursor, nil
}

// DecodeCount parses an opaque token into a CountCursor
func DecodeCount(token string) (*CountCursor, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor: %v", err)
	}
	var cursor CountCursor
	if err := json.Unmarshal(raw, &cursor); err != nil {
		return nil, fmt.Errorf("malformed cursor: %v", err)
	}
	if cursor.ID == uuid.Nil {
		return nil, fmt.Errorf("malformed cursor: missing id")
	}
	return &cursor, nil
}

// Trim drops the probe row from a limit+1 fetch. It returns the visible
// page and whether another page exists.
func Trim[T any](rows []T, limit int) ([]T, bool) {
	if len(rows) > limit {
		return rows[:limit], true
	}
	return rows, false
}

// Clamp bounds a caller-supplied limit to [1, max], substituting the
// default when the caller passed nothing.
func Clamp(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
