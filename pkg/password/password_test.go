package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndMatches(t *testing.T) {
	Cost = bcrypt.MinCost
	h, err := Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h == "s3cret" {
		t.Fatal("hash equals plaintext")
	}
	if !Matches(h, "s3cret") {
		t.Fatal("expected match")
	}
	if Matches(h, "wrong") {
		t.Fatal("unexpected match for wrong password")
	}
}

func TestMatches_EmptyHash(t *testing.T) {
	if Matches("", Default) {
		t.Fatal("empty hash must never match")
	}
}
