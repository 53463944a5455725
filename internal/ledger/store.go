package ledger

import (
	"context"
	"errors"

	"rwagate/pkg/domain"
	"rwagate/pkg/platform/sentinel"
)

// AccountReader is the read-only view of runtime state.
type AccountReader interface {
	// Get returns a copy of the account or sentinel.ErrNotFound.
	Get(ctx context.Context, addr domain.Address) (*Account, error)
}

// Tx is the view a call gets of the accounts locked for it.
type Tx interface {
	AccountReader
	// Create stages a new account; sentinel.ErrAccountInUse if the address is taken.
	Create(ctx context.Context, acct *Account) error
	// Put stages an overwrite of an existing account; sentinel.ErrNotFound if absent.
	Put(ctx context.Context, acct *Account) error
}

// Store persists accounts and provides per-call exclusion.
//
// Atomic holds exclusive access to addrs while fn runs. Writes made through tx are
// applied only when fn returns nil; otherwise nothing is persisted. Stores with
// optimistic concurrency may run fn more than once, so fn must not have side
// effects outside tx.
type Store interface {
	Atomic(ctx context.Context, addrs []domain.Address, fn func(tx Tx) error) error
	// Load reads one account without taking part in any call.
	Load(ctx context.Context, addr domain.Address) (*Account, error)
}

// Write is one staged mutation.
type Write struct {
	Account *Account
	Created bool
}

// StagedTx buffers writes over a read function. Stores use it to get
// all-or-nothing semantics regardless of their backing engine.
type StagedTx struct {
	read   func(ctx context.Context, addr domain.Address) (*Account, error)
	staged map[domain.Address]*Account
	create map[domain.Address]bool
	order  []domain.Address
}

// NewStagedTx builds a staged transaction reading committed state through read.
func NewStagedTx(read func(ctx context.Context, addr domain.Address) (*Account, error)) *StagedTx {
	return &StagedTx{
		read:   read,
		staged: make(map[domain.Address]*Account),
		create: make(map[domain.Address]bool),
	}
}

func (t *StagedTx) Get(ctx context.Context, addr domain.Address) (*Account, error) {
	if acct, ok := t.staged[addr]; ok {
		return acct.Clone(), nil
	}
	acct, err := t.read(ctx, addr)
	if err != nil {
		return nil, err
	}
	return acct.Clone(), nil
}

func (t *StagedTx) Create(ctx context.Context, acct *Account) error {
	exists, err := t.exists(ctx, acct.Address)
	if err != nil {
		return err
	}
	if exists {
		return sentinel.ErrAccountInUse
	}
	t.stage(acct, true)
	return nil
}

func (t *StagedTx) Put(ctx context.Context, acct *Account) error {
	exists, err := t.exists(ctx, acct.Address)
	if err != nil {
		return err
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	t.stage(acct, t.create[acct.Address])
	return nil
}

// Writes lists staged mutations in first-touch order.
func (t *StagedTx) Writes() []Write {
	out := make([]Write, 0, len(t.order))
	for _, addr := range t.order {
		out = append(out, Write{Account: t.staged[addr].Clone(), Created: t.create[addr]})
	}
	return out
}

func (t *StagedTx) exists(ctx context.Context, addr domain.Address) (bool, error) {
	if _, ok := t.staged[addr]; ok {
		return true, nil
	}
	_, err := t.read(ctx, addr)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func (t *StagedTx) stage(acct *Account, created bool) {
	if _, ok := t.staged[acct.Address]; !ok {
		t.order = append(t.order, acct.Address)
	}
	t.staged[acct.Address] = acct.Clone()
	t.create[acct.Address] = created
}

// ReaderFunc adapts a load function to AccountReader.
type ReaderFunc func(ctx context.Context, addr domain.Address) (*Account, error)

func (f ReaderFunc) Get(ctx context.Context, addr domain.Address) (*Account, error) {
	return f(ctx, addr)
}
