package pin

import (
	"testing"
)

func TestGenerateFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		p, err := Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(p) != 4 {
			t.Fatalf("expected 4 digits, got %q", p)
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in PIN %q", p)
			}
		}
	}
}

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("0042")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "0042" {
		t.Fatalf("hash should not be the plaintext")
	}
	if !Verify(hash, "0042") {
		t.Fatalf("correct PIN rejected")
	}
	if Verify(hash, "0043") {
		t.Fatalf("wrong PIN accepted")
	}
	if Verify("not-a-hash", "0042") {
		t.Fatalf("garbage hash accepted")
	}
}
