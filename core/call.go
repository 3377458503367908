package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/veynar/podium/crypto"
)

// CallType identifies the kind of operation a call performs.
type CallType string

const (
	CallRegister   CallType = "register"
	CallAddItem    CallType = "add_item"
	CallSetScore   CallType = "set_score"
	CallPickWinner CallType = "pick_winner"
)

// Call is the signed request envelope the host dispatches.
// From holds the sender's full hex-encoded ed25519 public key; the
// caller identity handlers see is the short address derived from it.
// Signature covers all fields except ID and Signature itself.
type Call struct {
	ID        string          `json:"id"`
	Type      CallType        `json:"type"`
	From      string          `json:"from"` // hex-encoded ed25519 public key
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Signature string          `json:"signature"`
}

// signingBody holds the fields covered by the signature.
type signingBody struct {
	Type      CallType        `json:"type"`
	From      string          `json:"from"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Hash returns a deterministic hash of the call (sans ID and Signature).
// Returns an empty string if marshalling fails (which cannot happen in practice).
func (c *Call) Hash() string {
	body := signingBody{
		Type:      c.Type,
		From:      c.From,
		Timestamp: c.Timestamp,
		Payload:   c.Payload,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return ""
	}
	return crypto.Hash(data)
}

// Sign computes the signature and sets ID.
func (c *Call) Sign(priv crypto.PrivateKey) {
	hash := c.Hash()
	c.Signature = crypto.Sign(priv, []byte(hash))
	c.ID = hash
}

// Verify checks the signature and that From is a valid public key.
func (c *Call) Verify() error {
	if c.From == "" {
		return errors.New("missing from field")
	}
	pub, err := crypto.PubKeyFromHex(c.From)
	if err != nil {
		return fmt.Errorf("invalid from (must be ed25519 pubkey hex): %w", err)
	}
	return crypto.Verify(pub, []byte(c.Hash()), c.Signature)
}

// NewCall creates an unsigned call with the current timestamp.
// payload may be nil for call types that carry no payload.
func NewCall(typ CallType, from string, payload any) (*Call, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		raw = data
	}
	return &Call{
		Type:      typ,
		From:      from,
		Timestamp: time.Now().UnixNano(),
		Payload:   raw,
	}, nil
}

// ---- Payload types ----

// AddItemPayload appends an item identifier to the caller's inventory.
type AddItemPayload struct {
	Item string `json:"item"`
}

// SetScorePayload replaces the caller's score wholesale.
type SetScorePayload struct {
	Score uint64 `json:"score"`
}
