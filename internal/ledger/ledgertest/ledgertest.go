// Package ledgertest provides runtime fixtures shared by program tests.
package ledgertest

import (
	"context"
	"crypto/sha256"
	"sync"
	"sync/atomic"
	"time"

	"rwagate/internal/ledger"
	"rwagate/pkg/domain"
	"rwagate/pkg/requestcontext"
)

// Address returns a deterministic address for a test label.
func Address(label string) domain.Address {
	return domain.Address(sha256.Sum256([]byte(label)))
}

// Context pins the call clock to at and marks signers as verified.
func Context(at time.Time, signers ...domain.Address) context.Context {
	ctx := requestcontext.WithTime(context.Background(), at)
	return requestcontext.WithSigners(ctx, signers...)
}

// SpyStore counts every access made through a wrapped store.
type SpyStore struct {
	Inner ledger.Store

	atomics atomic.Int64
	reads   atomic.Int64
	writes  atomic.Int64

	mu      sync.Mutex
	touched []domain.Address
}

func NewSpyStore(inner ledger.Store) *SpyStore {
	return &SpyStore{Inner: inner}
}

func (s *SpyStore) Atomic(ctx context.Context, addrs []domain.Address, fn func(tx ledger.Tx) error) error {
	s.atomics.Add(1)
	return s.Inner.Atomic(ctx, addrs, func(tx ledger.Tx) error {
		return fn(&spyTx{Tx: tx, spy: s})
	})
}

func (s *SpyStore) Load(ctx context.Context, addr domain.Address) (*ledger.Account, error) {
	s.reads.Add(1)
	s.touch(addr)
	return s.Inner.Load(ctx, addr)
}

// Transactions is the number of Atomic calls observed.
func (s *SpyStore) Transactions() int64 { return s.atomics.Load() }

// Reads counts account reads inside and outside transactions.
func (s *SpyStore) Reads() int64 { return s.reads.Load() }

// Writes counts staged creates and puts.
func (s *SpyStore) Writes() int64 { return s.writes.Load() }

// Touched lists every address read or written, in access order.
func (s *SpyStore) Touched() []domain.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Address(nil), s.touched...)
}

func (s *SpyStore) touch(addr domain.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = append(s.touched, addr)
}

type spyTx struct {
	ledger.Tx
	spy *SpyStore
}

func (t *spyTx) Get(ctx context.Context, addr domain.Address) (*ledger.Account, error) {
	t.spy.reads.Add(1)
	t.spy.touch(addr)
	return t.Tx.Get(ctx, addr)
}

func (t *spyTx) Create(ctx context.Context, acct *ledger.Account) error {
	t.spy.writes.Add(1)
	t.spy.touch(acct.Address)
	return t.Tx.Create(ctx, acct)
}

func (t *spyTx) Put(ctx context.Context, acct *ledger.Account) error {
	t.spy.writes.Add(1)
	t.spy.touch(acct.Address)
	return t.Tx.Put(ctx, acct)
}

// ReplayStore runs every call body twice, discarding the first attempt's
// writes, the way an optimistic store behaves after a lost WATCH race.
type ReplayStore struct {
	Inner ledger.Store
}

func (s ReplayStore) Atomic(ctx context.Context, addrs []domain.Address, fn func(tx ledger.Tx) error) error {
	return s.Inner.Atomic(ctx, addrs, func(tx ledger.Tx) error {
		if err := fn(ledger.NewStagedTx(tx.Get)); err != nil {
			return err
		}
		return fn(tx)
	})
}

func (s ReplayStore) Load(ctx context.Context, addr domain.Address) (*ledger.Account, error) {
	return s.Inner.Load(ctx, addr)
}
