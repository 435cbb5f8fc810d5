// internal/form/csrf_test.go

package form

import (
	"encoding/base64"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	tok, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if !VerifyToken(tok) {
		t.Fatal("freshly generated token must verify")
	}
}

func TestTokenRejectsGarbage(t *testing.T) {
	for _, tok := range []string{"", "not-base64!", base64.RawURLEncoding.EncodeToString([]byte("short"))} {
		if VerifyToken(tok) {
			t.Errorf("token %q must not verify", tok)
		}
	}
}

func TestTokenRejectsBitFlip(t *testing.T) {
	tok, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	raw, _ := base64.RawURLEncoding.DecodeString(tok)
	raw[0] ^= 0x01 // corrupt the nonce
	if VerifyToken(base64.RawURLEncoding.EncodeToString(raw)) {
		t.Fatal("corrupted token must not verify")
	}
}
