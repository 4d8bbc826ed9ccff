package cursor

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := New(42, `winner_id = "u1"`)

	token, err := Encode(original)
	if err != nil {
		t.Fatalf("encode cursor: %v", err)
	}
	decoded, err := Decode(token)
	if err != nil {
		t.Fatalf("decode cursor: %v", err)
	}
	if decoded != original {
		t.Fatalf("cursor mismatch: %+v != %+v", decoded, original)
	}
}

func TestDecodeRejectsBadTokens(t *testing.T) {
	zero, err := json.Marshal(Cursor{})
	if err != nil {
		t.Fatalf("marshal cursor: %v", err)
	}
	tests := map[string]string{
		"empty":       "",
		"bad base64":  "not-base64@@",
		"bad json":    base64.URLEncoding.EncodeToString([]byte("{")),
		"no position": base64.URLEncoding.EncodeToString(zero),
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(token); err == nil {
				t.Fatal("expected decode error")
			}
		})
	}
}

func TestHashFilter(t *testing.T) {
	if HashFilter("") != "" {
		t.Fatal("expected empty hash for empty filter")
	}
	hash := HashFilter("foo")
	if len(hash) != 16 {
		t.Fatalf("expected 16-char hash, got %d", len(hash))
	}
	if hash == HashFilter("bar") {
		t.Fatal("expected different hashes for different filters")
	}
}

func TestValidateFilterHash(t *testing.T) {
	c := New(10, "player_count >= 3")
	if err := ValidateFilterHash(c, "player_count >= 3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateFilterHash(c, "player_count >= 4"); err == nil {
		t.Fatal("expected error for mismatched filter")
	}
}
