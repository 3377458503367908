package wallet

import (
	"github.com/veynar/podium/core"
	"github.com/veynar/podium/crypto"
)

// Wallet holds a key pair and provides call-building helpers.
type Wallet struct {
	priv crypto.PrivateKey
	pub  crypto.PublicKey
}

// New creates a Wallet from an existing private key.
func New(priv crypto.PrivateKey) *Wallet {
	return &Wallet{priv: priv, pub: priv.Public()}
}

// Generate creates a Wallet with a freshly generated key pair.
func Generate() (*Wallet, error) {
	priv, _, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return New(priv), nil
}

// PrivKey returns the raw private key (handle with care).
func (w *Wallet) PrivKey() crypto.PrivateKey {
	return w.priv
}

// PubKey returns the hex-encoded ed25519 public key (the call "from" field).
func (w *Wallet) PubKey() string {
	return w.pub.Hex()
}

// Address returns the short registry address derived from the public key.
func (w *Wallet) Address() string {
	return w.pub.Address()
}

// NewCall creates a signed call. payload may be nil.
func (w *Wallet) NewCall(typ core.CallType, payload any) (*core.Call, error) {
	call, err := core.NewCall(typ, w.pub.Hex(), payload)
	if err != nil {
		return nil, err
	}
	call.Sign(w.priv)
	return call, nil
}

// Register creates a signed registration call.
func (w *Wallet) Register() (*core.Call, error) {
	return w.NewCall(core.CallRegister, nil)
}

// AddItem creates a signed call appending item to the inventory.
func (w *Wallet) AddItem(item string) (*core.Call, error) {
	return w.NewCall(core.CallAddItem, core.AddItemPayload{Item: item})
}

// SetScore creates a signed call replacing the wallet's score.
func (w *Wallet) SetScore(score uint64) (*core.Call, error) {
	return w.NewCall(core.CallSetScore, core.SetScorePayload{Score: score})
}

// PickWinner creates a signed call asking the registry to recompute the winner.
func (w *Wallet) PickWinner() (*core.Call, error) {
	return w.NewCall(core.CallPickWinner, nil)
}
