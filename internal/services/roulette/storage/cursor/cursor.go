// Package cursor encodes opaque page tokens for match listings.
package cursor

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Cursor marks where the next page starts. FilterHash pins the token to the
// filter it was issued for.
type Cursor struct {
	Seq        uint64 `json:"seq"`
	FilterHash string `json:"fh,omitempty"`
}

// New returns a cursor after seq for filter.
func New(seq uint64, filter string) Cursor {
	return Cursor{Seq: seq, FilterHash: HashFilter(filter)}
}

// Encode serializes c as a URL-safe token.
func Encode(c Cursor) (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

// Decode parses a token produced by Encode.
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, fmt.Errorf("page token is empty")
	}
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode page token: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return Cursor{}, fmt.Errorf("unmarshal page token: %w", err)
	}
	if c.Seq == 0 {
		return Cursor{}, fmt.Errorf("page token has no position")
	}
	return c, nil
}

// HashFilter returns a short stable digest of filter, or "" for no filter.
func HashFilter(filter string) string {
	if filter == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(filter))
	return hex.EncodeToString(sum[:8])
}

// ValidateFilterHash rejects a cursor reused with a different filter.
func ValidateFilterHash(c Cursor, filter string) error {
	if c.FilterHash != HashFilter(filter) {
		return fmt.Errorf("page token was issued for a different filter")
	}
	return nil
}
