package core

// Wallet is a participant record keyed by address.
// Address is the short hex address derived from the participant's
// ed25519 public key.
type Wallet struct {
	Address   string   `json:"address"`
	Score     uint64   `json:"score"`
	Inventory []string `json:"inventory,omitempty"`
}

// GlobalState is the single persisted aggregate: every wallet plus the
// winner declared by the most recent pick_winner call. Wallets keep
// registration order. An empty Winner means no winner has been declared
// (a wallet address is never the empty string).
type GlobalState struct {
	Winner  string    `json:"winner,omitempty"`
	Wallets []*Wallet `json:"wallets,omitempty"`
}

// FindWallet returns the wallet with the given address, or nil.
func (s *GlobalState) FindWallet(address string) *Wallet {
	for _, w := range s.Wallets {
		if w.Address == address {
			return w
		}
	}
	return nil
}
