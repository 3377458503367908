package registry

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/veynar/podium/core"
	"github.com/veynar/podium/internal/testutil"
)

func newTestStore(t *testing.T) (*Store, *testutil.MemDB) {
	t.Helper()
	db := testutil.NewMemDB()
	return NewStore(NewRepository(db)), db
}

// TestRegisterDuplicate verifies that a second registration fails and
// leaves the wallet list untouched.
func TestRegisterDuplicate(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.Register("alice"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	err := store.Register("alice")
	if !errors.Is(err, core.ErrAlreadyRegistered) {
		t.Fatalf("second register: got %v want ErrAlreadyRegistered", err)
	}

	st, err := store.repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Wallets) != 1 {
		t.Errorf("wallet count after duplicate: got %d want 1", len(st.Wallets))
	}
}

// TestRegisterPreservesOrder verifies wallets keep registration order.
func TestRegisterPreservesOrder(t *testing.T) {
	store, _ := newTestStore(t)

	addrs := []string{"alice", "bob", "carol"}
	for _, a := range addrs {
		if err := store.Register(a); err != nil {
			t.Fatalf("register %s: %v", a, err)
		}
	}

	st, err := store.repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	for i, a := range addrs {
		if st.Wallets[i].Address != a {
			t.Errorf("wallet %d: got %s want %s", i, st.Wallets[i].Address, a)
		}
	}
}

// TestInventoryOrder verifies N add-item calls yield N entries in call order,
// duplicates included.
func TestInventoryOrder(t *testing.T) {
	store, _ := newTestStore(t)
	if err := store.Register("alice"); err != nil {
		t.Fatal(err)
	}

	items := []string{"sword", "shield", "sword"}
	for _, item := range items {
		if err := store.AddItem("alice", item); err != nil {
			t.Fatalf("add %s: %v", item, err)
		}
	}

	got, err := store.Inventory("alice")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, items) {
		t.Errorf("inventory: got %v want %v", got, items)
	}
}

// TestSetScoreOverwrites verifies set-score is an absolute set, not a delta
// or a max, and is idempotent under repetition.
func TestSetScoreOverwrites(t *testing.T) {
	store, _ := newTestStore(t)
	if err := store.Register("alice"); err != nil {
		t.Fatal(err)
	}

	for _, score := range []uint64{5, 3, 3} {
		if err := store.SetScore("alice", score); err != nil {
			t.Fatalf("set score %d: %v", score, err)
		}
	}

	w, err := store.Wallet("alice")
	if err != nil {
		t.Fatal(err)
	}
	if w.Score != 3 {
		t.Errorf("score: got %d want 3", w.Score)
	}
}

// TestWinnerTieBreak verifies the earliest-registered wallet wins ties
// and that a later strictly higher score displaces it.
func TestWinnerTieBreak(t *testing.T) {
	store, _ := newTestStore(t)
	for _, a := range []string{"alice", "bob"} {
		if err := store.Register(a); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.SetScore("alice", 10); err != nil {
		t.Fatal(err)
	}
	if err := store.SetScore("bob", 10); err != nil {
		t.Fatal(err)
	}

	winner, err := store.DetermineWinner()
	if err != nil {
		t.Fatal(err)
	}
	if winner != "alice" {
		t.Errorf("tie winner: got %q want alice", winner)
	}

	if err := store.SetScore("bob", 11); err != nil {
		t.Fatal(err)
	}
	winner, err = store.DetermineWinner()
	if err != nil {
		t.Fatal(err)
	}
	if winner != "bob" {
		t.Errorf("winner after bob pulls ahead: got %q want bob", winner)
	}

	stored, err := store.Winner()
	if err != nil {
		t.Fatal(err)
	}
	if stored != "bob" {
		t.Errorf("stored winner: got %q want bob", stored)
	}
}

// TestNoWinnerAtZero verifies a pick with no wallets, or with every
// score at zero, stores no winner.
func TestNoWinnerAtZero(t *testing.T) {
	store, _ := newTestStore(t)

	winner, err := store.DetermineWinner()
	if err != nil {
		t.Fatal(err)
	}
	if winner != "" {
		t.Errorf("winner with no wallets: got %q want none", winner)
	}

	for _, a := range []string{"alice", "bob"} {
		if err := store.Register(a); err != nil {
			t.Fatal(err)
		}
	}
	winner, err = store.DetermineWinner()
	if err != nil {
		t.Fatal(err)
	}
	if winner != "" {
		t.Errorf("winner with all-zero scores: got %q want none", winner)
	}
}

// TestWinnerRecomputed verifies pick-winner recomputes from current
// scores rather than keeping a stale value.
func TestWinnerRecomputed(t *testing.T) {
	store, _ := newTestStore(t)
	if err := store.Register("alice"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetScore("alice", 7); err != nil {
		t.Fatal(err)
	}
	if _, err := store.DetermineWinner(); err != nil {
		t.Fatal(err)
	}

	// Score drops back to zero; the next pick clears the winner.
	if err := store.SetScore("alice", 0); err != nil {
		t.Fatal(err)
	}
	winner, err := store.DetermineWinner()
	if err != nil {
		t.Fatal(err)
	}
	if winner != "" {
		t.Errorf("winner after score reset: got %q want none", winner)
	}
}

// TestQueriesUnknownAddress verifies lookups fail with ErrWalletNotFound,
// including against the canonical empty state.
func TestQueriesUnknownAddress(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.Wallet("ghost"); !errors.Is(err, core.ErrWalletNotFound) {
		t.Errorf("Wallet on empty store: got %v want ErrWalletNotFound", err)
	}
	if _, err := store.Inventory("ghost"); !errors.Is(err, core.ErrWalletNotFound) {
		t.Errorf("Inventory on empty store: got %v want ErrWalletNotFound", err)
	}

	if err := store.Register("alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Wallet("ghost"); !errors.Is(err, core.ErrWalletNotFound) {
		t.Errorf("Wallet on populated store: got %v want ErrWalletNotFound", err)
	}
	if err := store.AddItem("ghost", "sword"); !errors.Is(err, core.ErrWalletNotFound) {
		t.Errorf("AddItem: got %v want ErrWalletNotFound", err)
	}
	if err := store.SetScore("ghost", 1); !errors.Is(err, core.ErrWalletNotFound) {
		t.Errorf("SetScore: got %v want ErrWalletNotFound", err)
	}
}

// TestRepositoryRoundTrip verifies decode(encode(state)) == state for a
// state exercising every field.
func TestRepositoryRoundTrip(t *testing.T) {
	db := testutil.NewMemDB()
	repo := NewRepository(db)

	want := &core.GlobalState{
		Winner: "bob",
		Wallets: []*core.Wallet{
			{Address: "alice", Score: 3, Inventory: []string{"sword", "sword"}},
			{Address: "bob", Score: 9},
		},
	}
	if err := repo.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip: got %+v want %+v", got, want)
	}
}

// TestCorruptStateBlob verifies a non-decodable blob aborts every
// operation without partial effect.
func TestCorruptStateBlob(t *testing.T) {
	db := testutil.NewMemDB()
	store := NewStore(NewRepository(db))

	blob := []byte("{not json")
	if err := db.Set([]byte("config"), blob); err != nil {
		t.Fatal(err)
	}

	if err := store.Register("alice"); !errors.Is(err, core.ErrCorruptState) {
		t.Fatalf("Register over corrupt blob: got %v want ErrCorruptState", err)
	}
	if _, err := store.DetermineWinner(); !errors.Is(err, core.ErrCorruptState) {
		t.Fatalf("DetermineWinner over corrupt blob: got %v want ErrCorruptState", err)
	}

	// The stored blob must be untouched by the failed operations.
	got, err := db.Get([]byte("config"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(blob) {
		t.Errorf("blob rewritten after failed ops: got %q", got)
	}
}

// TestFreshStateIsEmpty verifies the missing-key case decodes as the
// canonical initial state rather than an error.
func TestFreshStateIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	winner, err := store.Winner()
	if err != nil {
		t.Fatalf("Winner on fresh store: %v", err)
	}
	if winner != "" {
		t.Errorf("fresh winner: got %q want none", winner)
	}
}

// TestManyWallets sanity-checks winner selection over a larger set.
func TestManyWallets(t *testing.T) {
	store, _ := newTestStore(t)
	for i := 0; i < 20; i++ {
		addr := fmt.Sprintf("wallet-%02d", i)
		if err := store.Register(addr); err != nil {
			t.Fatal(err)
		}
		if err := store.SetScore(addr, uint64(i%7)); err != nil {
			t.Fatal(err)
		}
	}

	winner, err := store.DetermineWinner()
	if err != nil {
		t.Fatal(err)
	}
	// Scores cycle 0..6; the first wallet scoring 6 is wallet-06.
	if winner != "wallet-06" {
		t.Errorf("winner: got %q want wallet-06", winner)
	}
}
