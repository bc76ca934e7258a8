package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"uid":"v1"}`)
	secret := "top-secret"
	message := SignedMessage("1712345678", body)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	validSig := hex.EncodeToString(mac.Sum(nil))

	if !VerifySignature(message, validSig, secret) {
		t.Fatalf("expected signature to validate")
	}
	if VerifySignature(message, validSig, "other-secret") {
		t.Fatalf("expected signature with wrong secret to fail")
	}
	if VerifySignature(message, "deadbeef", secret) {
		t.Fatalf("expected bogus signature to fail")
	}
	if VerifySignature(message, "", secret) {
		t.Fatalf("expected empty signature to fail")
	}
	if VerifySignature(message, validSig, "") {
		t.Fatalf("expected empty secret to fail")
	}
}

func TestVerifySignatureSingleCharacterFlip(t *testing.T) {
	message := SignedMessage("123", []byte("payload"))
	valid := Sign(message, "secret")

	for i := range valid {
		flipped := []byte(valid)
		if flipped[i] == 'a' {
			flipped[i] = 'b'
		} else {
			flipped[i] = 'a'
		}
		if string(flipped) == valid {
			continue
		}
		if VerifySignature(message, string(flipped), "secret") {
			t.Fatalf("signature with flipped character at %d validated", i)
		}
	}
}

func TestVerifySignatureUppercaseHexAccepted(t *testing.T) {
	message := SignedMessage("42", []byte("body"))
	valid := Sign(message, "secret")

	upper := make([]byte, len(valid))
	for i := 0; i < len(valid); i++ {
		c := valid[i]
		if c >= 'a' && c <= 'f' {
			c = c - 'a' + 'A'
		}
		upper[i] = c
	}
	if !VerifySignature(message, string(upper), "secret") {
		t.Fatalf("expected uppercase hex signature to validate")
	}
}

func TestSignedMessage(t *testing.T) {
	got := SignedMessage("1712345678", []byte(`{"a":1}`))
	want := `1712345678.{"a":1}`
	if string(got) != want {
		t.Fatalf("SignedMessage = %q, want %q", got, want)
	}
}
