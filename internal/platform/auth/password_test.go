package auth

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("password stored in the clear")
	}
	if err := VerifyPassword(hash, "s3cret-pass"); err != nil {
		t.Errorf("verify: %v", err)
	}
	if err := VerifyPassword(hash, "wrong-pass"); err == nil {
		t.Error("wrong password accepted")
	}
}

func TestHashPassword_EmptyRejected(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("empty password accepted")
	}
	if err := VerifyPassword("", "anything"); err == nil {
		t.Error("empty hash accepted")
	}
}
