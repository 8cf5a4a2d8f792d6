// Package pagination implements keyset cursors for pedido listings. A cursor
// carries the placement timestamp and row id of the last row on the previous
// page so listings stay stable while new pedidos arrive.
package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultLimit applies when the caller omits a page size.
	DefaultLimit = 25
	// MaxLimit caps the page size regardless of what was requested.
	MaxLimit = 100

	cursorSep = "|"
)

// Params holds cursor pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor orders pedidos by placement time, with the row id breaking ties.
type Cursor struct {
	PlacedAt time.Time
	ID       int64
}

// NormalizeLimit clamps limit into [1, MaxLimit], substituting DefaultLimit
// for zero or negative values.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitWithBuffer returns the normalized limit plus one sentinel row. Fetching
// one extra row tells the repository whether another page exists without a
// separate count query.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor serializes cursor as an opaque base64 token.
func EncodeCursor(cursor Cursor) string {
	raw := cursor.PlacedAt.UTC().Format(time.RFC3339Nano) + cursorSep + strconv.FormatInt(cursor.ID, 10)
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// ParseCursor reverses EncodeCursor. An empty token yields a nil cursor,
// meaning the listing starts from the newest pedido.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	placed, id, ok := strings.Cut(string(decoded), cursorSep)
	if !ok {
		return nil, errors.New("invalid cursor format")
	}

	at, err := time.Parse(time.RFC3339Nano, placed)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &Cursor{PlacedAt: at, ID: rowID}, nil
}
