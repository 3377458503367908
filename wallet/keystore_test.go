package wallet

import (
	"path/filepath"
	"testing"
)

// TestKeystoreRoundTrip verifies save/load recovers the same key.
func TestKeystoreRoundTrip(t *testing.T) {
	w, err := Generate()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "test.key")

	if err := SaveKey(path, "hunter2", w.PrivKey()); err != nil {
		t.Fatalf("SaveKey: %v", err)
	}
	priv, err := LoadKey(path, "hunter2")
	if err != nil {
		t.Fatalf("LoadKey: %v", err)
	}

	restored := New(priv)
	if restored.PubKey() != w.PubKey() {
		t.Error("restored key does not match original")
	}
	if restored.Address() != w.Address() {
		t.Error("restored address does not match original")
	}
}

// TestKeystoreWrongPassword verifies decryption fails cleanly.
func TestKeystoreWrongPassword(t *testing.T) {
	w, err := Generate()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "test.key")

	if err := SaveKey(path, "correct", w.PrivKey()); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadKey(path, "wrong"); err == nil {
		t.Error("wrong password should fail")
	}
}

// TestWalletCallSigning verifies the helpers produce verifiable calls.
func TestWalletCallSigning(t *testing.T) {
	w, err := Generate()
	if err != nil {
		t.Fatal(err)
	}

	call, err := w.SetScore(7)
	if err != nil {
		t.Fatalf("SetScore: %v", err)
	}
	if call.From != w.PubKey() {
		t.Errorf("from: got %s want %s", call.From, w.PubKey())
	}
	if err := call.Verify(); err != nil {
		t.Errorf("Verify: %v", err)
	}
}
