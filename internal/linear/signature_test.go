package linear

import "testing"

func TestVerifySignatureRoundTrip(t *testing.T) {
	body := []byte(`{"type":"Issue","action":"create"}`)
	secret := "super-secret"

	sig := Sign(body, secret)
	if !VerifySignature(body, sig, secret) {
		t.Error("expected signature generated with the same secret to verify")
	}
}

func TestVerifySignatureTamperedBody(t *testing.T) {
	body := []byte(`{"type":"Issue","action":"create"}`)
	secret := "super-secret"
	sig := Sign(body, secret)

	for i := range body {
		tampered := append([]byte(nil), body...)
		tampered[i] ^= 0x01
		if VerifySignature(tampered, sig, secret) {
			t.Errorf("signature verified after mutating byte %d", i)
		}
	}
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	body := []byte("payload")
	sig := Sign(body, "secret-a")
	if VerifySignature(body, sig, "secret-b") {
		t.Error("signature verified with the wrong secret")
	}
}

func TestVerifySignatureNoSecretBypass(t *testing.T) {
	// With no secret configured, verification is skipped and any
	// signature (including garbage) is accepted.
	if !VerifySignature([]byte("body"), "not-a-real-signature", "") {
		t.Error("expected verification to pass when no secret is configured")
	}
}
