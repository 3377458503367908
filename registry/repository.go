// Package registry implements the wallet registry: a single persisted
// aggregate holding every wallet plus the declared winner, mutated
// through a strict load-modify-save cycle.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/veynar/podium/core"
	"github.com/veynar/podium/storage"
)

// stateKey is the fixed key the entire aggregate is stored under.
// No other keys are written by this package.
var stateKey = []byte("config")

// Repository owns the encode/decode cycle for the aggregate. Load and
// Save bracket every mutation; nothing is persisted field-by-field.
type Repository struct {
	db storage.DB
}

// NewRepository creates a Repository backed by db.
func NewRepository(db storage.DB) *Repository {
	return &Repository{db: db}
}

// Load reads and decodes the aggregate. A missing key is not an error:
// it yields the canonical initial state (no winner, no wallets). A blob
// that fails to decode wraps core.ErrCorruptState.
func (r *Repository) Load() (*core.GlobalState, error) {
	data, err := r.db.Get(stateKey)
	if errors.Is(err, core.ErrNotFound) {
		return &core.GlobalState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read registry state: %w", err)
	}
	var st core.GlobalState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrCorruptState, err)
	}
	return &st, nil
}

// Save encodes the aggregate and overwrites the stored blob. Only ever
// called after a successful Load plus in-memory mutation.
func (r *Repository) Save(st *core.GlobalState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode registry state: %w", err)
	}
	return r.db.Set(stateKey, data)
}
