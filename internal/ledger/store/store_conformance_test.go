package store_test

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/suite"

	"rwagate/internal/ledger"
	"rwagate/internal/ledger/ledgertest"
	"rwagate/pkg/domain"
	"rwagate/pkg/platform/sentinel"
)

// conformanceSuite exercises the ledger.Store contract. Each backend embeds it
// and assigns store in SetupTest.
type conformanceSuite struct {
	suite.Suite
	store ledger.Store
	// concurrency is the number of racing calls in the serialization test.
	concurrency int
}

var (
	ownerAddr = ledgertest.Address("owner")
	acctA     = ledgertest.Address("account-a")
	acctB     = ledgertest.Address("account-b")
)

func (s *conformanceSuite) create(addr domain.Address, lamports uint64, data []byte) {
	err := s.store.Atomic(context.Background(), []domain.Address{addr}, func(tx ledger.Tx) error {
		return tx.Create(context.Background(), &ledger.Account{Address: addr, Owner: ownerAddr, Lamports: lamports, Data: data})
	})
	s.Require().NoError(err)
}

func (s *conformanceSuite) TestCreateThenLoad() {
	s.create(acctA, 42, []byte{1, 2, 3})

	got, err := s.store.Load(context.Background(), acctA)
	s.Require().NoError(err)
	s.Equal(acctA, got.Address)
	s.Equal(ownerAddr, got.Owner)
	s.Equal(uint64(42), got.Lamports)
	s.Equal([]byte{1, 2, 3}, got.Data)
}

func (s *conformanceSuite) TestLoadMissing() {
	_, err := s.store.Load(context.Background(), acctB)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *conformanceSuite) TestCreateExistingFails() {
	s.create(acctA, 1, []byte{9})

	err := s.store.Atomic(context.Background(), []domain.Address{acctA}, func(tx ledger.Tx) error {
		return tx.Create(context.Background(), &ledger.Account{Address: acctA, Owner: ownerAddr, Lamports: 5})
	})
	s.ErrorIs(err, sentinel.ErrAccountInUse)

	got, err := s.store.Load(context.Background(), acctA)
	s.Require().NoError(err)
	s.Equal(uint64(1), got.Lamports)
	s.Equal([]byte{9}, got.Data)
}

func (s *conformanceSuite) TestFailedCallPersistsNothing() {
	s.create(acctA, 10, []byte{0})
	boom := errors.New("handler failed")

	err := s.store.Atomic(context.Background(), []domain.Address{acctA, acctB}, func(tx ledger.Tx) error {
		acct, err := tx.Get(context.Background(), acctA)
		if err != nil {
			return err
		}
		acct.Data = []byte{7}
		if err := tx.Put(context.Background(), acct); err != nil {
			return err
		}
		if err := tx.Create(context.Background(), &ledger.Account{Address: acctB, Owner: ownerAddr}); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	got, err := s.store.Load(context.Background(), acctA)
	s.Require().NoError(err)
	s.Equal([]byte{0}, got.Data)
	_, err = s.store.Load(context.Background(), acctB)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *conformanceSuite) TestPutMissingFails() {
	err := s.store.Atomic(context.Background(), []domain.Address{acctB}, func(tx ledger.Tx) error {
		return tx.Put(context.Background(), &ledger.Account{Address: acctB, Owner: ownerAddr})
	})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *conformanceSuite) TestReadsOwnStagedWrites() {
	err := s.store.Atomic(context.Background(), []domain.Address{acctA}, func(tx ledger.Tx) error {
		ctx := context.Background()
		if err := tx.Create(ctx, &ledger.Account{Address: acctA, Owner: ownerAddr, Data: []byte{1}}); err != nil {
			return err
		}
		acct, err := tx.Get(ctx, acctA)
		if err != nil {
			return err
		}
		acct.Data = []byte{2}
		return tx.Put(ctx, acct)
	})
	s.Require().NoError(err)

	got, err := s.store.Load(context.Background(), acctA)
	s.Require().NoError(err)
	s.Equal([]byte{2}, got.Data)
}

func (s *conformanceSuite) TestConcurrentCallsSerialize() {
	s.create(acctA, 0, nil)
	n := s.concurrency
	if n == 0 {
		n = 16
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.store.Atomic(context.Background(), []domain.Address{acctA}, func(tx ledger.Tx) error {
				acct, err := tx.Get(context.Background(), acctA)
				if err != nil {
					return err
				}
				acct.Lamports++
				return tx.Put(context.Background(), acct)
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	got, err := s.store.Load(context.Background(), acctA)
	s.Require().NoError(err)
	s.Equal(uint64(n), got.Lamports)
}

func (s *conformanceSuite) TestConcurrentCreateOnlyOneWins() {
	n := s.concurrency
	if n == 0 {
		n = 16
	}
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.store.Atomic(context.Background(), []domain.Address{acctB}, func(tx ledger.Tx) error {
				return tx.Create(context.Background(), &ledger.Account{Address: acctB, Owner: ownerAddr, Lamports: uint64(i)})
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	var ok, inUse int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, sentinel.ErrAccountInUse):
			inUse++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, ok)
	s.Equal(n-1, inUse)
}
