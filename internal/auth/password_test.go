package auth

import (
	"strings"
	"testing"
)

func TestPasswordRoundTrip(t *testing.T) {
	digest, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(digest, "$argon2id$") {
		t.Fatalf("unexpected digest format: %s", digest)
	}
	if !VerifyPassword("admin123", digest) {
		t.Fatal("correct password rejected")
	}
}

func TestPasswordMutationsRejected(t *testing.T) {
	digest, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	for _, wrong := range []string{"s3cret-pasS", "s3cret-pas", "s3cret-pass ", "S3cret-pass", ""} {
		if VerifyPassword(wrong, digest) {
			t.Fatalf("password %q accepted against digest for s3cret-pass", wrong)
		}
	}
}

func TestPasswordDistinctSalts(t *testing.T) {
	a, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	b, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password share a salt")
	}
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	for _, digest := range []string{
		"",
		"plaintext",
		"$argon2id$v=19$garbage",
		"$argon2i$v=19$m=65536,t=2,p=1$c2FsdA$aGFzaA",
	} {
		if VerifyPassword("whatever", digest) {
			t.Fatalf("malformed digest %q verified", digest)
		}
	}
}
