package store

import (
	"context"
	"sync"

	"rwagate/internal/ledger"
	"rwagate/pkg/domain"
	"rwagate/pkg/platform/sentinel"
)

// InMemoryStore keeps accounts in a map. Calls lock their accounts through
// per-address mutexes acquired in ascending address order, so calls sharing an
// account serialize and disjoint calls run in parallel.
type InMemoryStore struct {
	mu       sync.RWMutex
	accounts map[domain.Address]*ledger.Account

	locksMu sync.Mutex
	locks   map[domain.Address]*sync.Mutex
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		accounts: make(map[domain.Address]*ledger.Account),
		locks:    make(map[domain.Address]*sync.Mutex),
	}
}

// Atomic expects addrs sorted and distinct, as the runtime supplies them.
func (s *InMemoryStore) Atomic(ctx context.Context, addrs []domain.Address, fn func(tx ledger.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	held := make([]*sync.Mutex, 0, len(addrs))
	for _, addr := range addrs {
		l := s.lockFor(addr)
		l.Lock()
		held = append(held, l)
	}
	defer func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}()

	tx := ledger.NewStagedTx(s.Load)
	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range tx.Writes() {
		s.accounts[w.Account.Address] = w.Account
	}
	return nil
}

func (s *InMemoryStore) Load(_ context.Context, addr domain.Address) (*ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[addr]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return acct.Clone(), nil
}

// Len returns the number of stored accounts.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

func (s *InMemoryStore) lockFor(addr domain.Address) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[addr]
	if !ok {
		l = &sync.Mutex{}
		s.locks[addr] = l
	}
	return l
}
