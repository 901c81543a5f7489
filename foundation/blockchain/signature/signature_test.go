package signature

import "testing"

func TestSignVerifyRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %s", err)
	}

	message := []byte("transfer 100 units")
	sig := kp.Sign(message)

	if !Verify(kp.Public, message, sig) {
		t.Fatal("Verify returned false for a valid signature")
	}
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %s", err)
	}

	sig := kp.Sign([]byte("original"))
	if Verify(kp.Public, []byte("tampered"), sig) {
		t.Fatal("Verify returned true for a tampered message")
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	kp1, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %s", err)
	}
	kp2, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %s", err)
	}

	message := []byte("hello")
	sig := kp1.Sign(message)

	if Verify(kp2.Public, message, sig) {
		t.Fatal("Verify returned true for the wrong public key")
	}
}

func TestVerifyRejectsShortPublicKey(t *testing.T) {
	if Verify([]byte{0x01, 0x02}, []byte("hello"), []byte("not a real signature")) {
		t.Fatal("Verify returned true for a malformed public key")
	}
}

func TestVerifyOrError(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %s", err)
	}
	message := []byte("hello")
	sig := kp.Sign(message)

	if err := VerifyOrError(kp.Public, message, sig); err != nil {
		t.Fatalf("VerifyOrError: %s", err)
	}

	if err := VerifyOrError([]byte{0x01}, message, sig); err != ErrInvalidPublicKey {
		t.Fatalf("VerifyOrError short key = %v, want %v", err, ErrInvalidPublicKey)
	}

	if err := VerifyOrError(kp.Public, []byte("tampered"), sig); err != ErrInvalidSignature {
		t.Fatalf("VerifyOrError tampered message = %v, want %v", err, ErrInvalidSignature)
	}
}
