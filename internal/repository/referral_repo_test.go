package repository

import (
	"strings"
	"testing"
)

func TestGenerateReferralCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code := GenerateReferralCode()
		if len(code) != referralCodeLen {
			t.Fatalf("code %q has length %d, want %d", code, len(code), referralCodeLen)
		}
		for _, c := range code {
			if !strings.ContainsRune(referralCodeCharset, c) {
				t.Fatalf("code %q contains %q outside the charset", code, c)
			}
		}
		if seen[code] {
			t.Fatalf("duplicate code %q in 200 draws", code)
		}
		seen[code] = true
	}
}
