package registry

import (
	"fmt"

	"github.com/veynar/podium/core"
)

// Store exposes the registry operations. Every mutation runs one
// load-modify-save cycle against the Repository; validation happens
// before anything is written, so a failed operation leaves no trace.
// The host processes calls one at a time, so Store needs no locking.
type Store struct {
	repo *Repository
}

// NewStore creates a Store over repo.
func NewStore(repo *Repository) *Store {
	return &Store{repo: repo}
}

// Register creates a wallet for address with zero score and an empty
// inventory. Registering the same address twice fails.
func (s *Store) Register(address string) error {
	st, err := s.repo.Load()
	if err != nil {
		return err
	}
	if st.FindWallet(address) != nil {
		return fmt.Errorf("%w: %s", core.ErrAlreadyRegistered, address)
	}
	st.Wallets = append(st.Wallets, &core.Wallet{Address: address})
	return s.repo.Save(st)
}

// AddItem appends item to the wallet's inventory. Items are kept in
// call order and never deduplicated.
func (s *Store) AddItem(address, item string) error {
	st, err := s.repo.Load()
	if err != nil {
		return err
	}
	w := st.FindWallet(address)
	if w == nil {
		return fmt.Errorf("%w: %s", core.ErrWalletNotFound, address)
	}
	w.Inventory = append(w.Inventory, item)
	return s.repo.Save(st)
}

// SetScore replaces the wallet's score wholesale. This is an absolute
// set, not a delta; callers fully control their own score.
func (s *Store) SetScore(address string, score uint64) error {
	st, err := s.repo.Load()
	if err != nil {
		return err
	}
	w := st.FindWallet(address)
	if w == nil {
		return fmt.Errorf("%w: %s", core.ErrWalletNotFound, address)
	}
	w.Score = score
	return s.repo.Save(st)
}

// DetermineWinner recomputes the winner from current scores and stores
// it in the aggregate. The winner is the earliest-registered wallet
// with the strictly highest score; with every score at zero (or no
// wallets at all) there is no winner and "" is stored. Callable by
// anyone, any number of times.
func (s *Store) DetermineWinner() (string, error) {
	st, err := s.repo.Load()
	if err != nil {
		return "", err
	}
	var max uint64
	winner := ""
	for _, w := range st.Wallets {
		if w.Score > max {
			max = w.Score
			winner = w.Address
		}
	}
	st.Winner = winner
	if err := s.repo.Save(st); err != nil {
		return "", err
	}
	return winner, nil
}

// Wallet returns the wallet registered under address.
func (s *Store) Wallet(address string) (*core.Wallet, error) {
	st, err := s.repo.Load()
	if err != nil {
		return nil, err
	}
	w := st.FindWallet(address)
	if w == nil {
		return nil, fmt.Errorf("%w: %s", core.ErrWalletNotFound, address)
	}
	return w, nil
}

// Inventory returns the wallet's inventory in insertion order.
func (s *Store) Inventory(address string) ([]string, error) {
	w, err := s.Wallet(address)
	if err != nil {
		return nil, err
	}
	return w.Inventory, nil
}

// Winner returns the currently stored winner address, or "" when no
// winner has been declared.
func (s *Store) Winner() (string, error) {
	st, err := s.repo.Load()
	if err != nil {
		return "", err
	}
	return st.Winner, nil
}
