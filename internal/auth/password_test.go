package auth

import (
	"strings"
	"testing"
)

// All tests use cost 4 (the bcrypt minimum) — the logic is identical at any
// cost, and cost 12 would make this file take seconds instead of millis.
func newTestPasswordService() *PasswordService {
	return NewPasswordServiceForTest(4)
}

func TestHashAndVerify(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if hash == "correct horse battery staple" {
		t.Fatal("Hash() returned the plaintext")
	}

	if err := ps.Verify(hash, "correct horse battery staple"); err != nil {
		t.Errorf("Verify() with correct password: %v", err)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("the-real-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := ps.Verify(hash, "a-wrong-guess"); err == nil {
		t.Error("Verify() should reject a wrong password")
	}
}

func TestHash_SaltedPerCall(t *testing.T) {
	ps := newTestPasswordService()

	// Same input twice → different hashes, because every call gets a fresh
	// random salt. Both must still verify.
	h1, err := ps.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	h2, err := ps.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password are identical — salt missing?")
	}
	if err := ps.Verify(h1, "same password"); err != nil {
		t.Errorf("Verify(h1) error = %v", err)
	}
	if err := ps.Verify(h2, "same password"); err != nil {
		t.Errorf("Verify(h2) error = %v", err)
	}
}

func TestHash_TooLong(t *testing.T) {
	ps := newTestPasswordService()

	// bcrypt truncates at 72 bytes; we reject instead
	if _, err := ps.Hash(strings.Repeat("x", 73)); err == nil {
		t.Error("Hash() should reject passwords over 72 bytes")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	ps := newTestPasswordService()

	if err := ps.Verify("not-a-bcrypt-hash", "whatever"); err == nil {
		t.Error("Verify() should fail on a malformed hash")
	}
}
