package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rwagate/internal/ledger"
	"rwagate/internal/ledger/ledgertest"
	"rwagate/internal/ledger/store"
	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
	"rwagate/pkg/requestcontext"
)

// stubProgram routes a single-byte opcode to a handler set by each test.
type stubProgram struct {
	handler ledger.HandlerFunc
}

func (p *stubProgram) Route(data []byte) (ledger.Route, error) {
	if len(data) != 1 || data[0] != 1 {
		return ledger.Route{}, dErrors.New(dErrors.CodeInvalidCallData, "unknown opcode")
	}
	return ledger.Route{Name: "stub", Handler: p.handler}, nil
}

type RuntimeSuite struct {
	suite.Suite
	spy     *ledgertest.SpyStore
	rt      *ledger.Runtime
	program *stubProgram

	programID domain.Address
	payer     domain.Address
	target    domain.Address
	now       time.Time
}

func TestRuntimeSuite(t *testing.T) {
	suite.Run(t, new(RuntimeSuite))
}

func (s *RuntimeSuite) SetupTest() {
	s.spy = ledgertest.NewSpyStore(store.NewInMemoryStore())
	s.rt = ledger.NewRuntime(s.spy, ledger.WithRent(ledger.Rent{LamportsPerByteYear: 10, ExemptionYears: 2}))
	s.program = &stubProgram{}
	s.programID = ledgertest.Address("program")
	s.payer = ledgertest.Address("payer")
	s.target = ledgertest.Address("target")
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.rt.Register(s.programID, s.program)
}

func (s *RuntimeSuite) ctx(signers ...domain.Address) context.Context {
	ctx := requestcontext.WithTime(context.Background(), s.now)
	return requestcontext.WithSigners(ctx, signers...)
}

func (s *RuntimeSuite) fund(addr domain.Address, lamports uint64) {
	_, err := s.rt.Airdrop(context.Background(), addr, lamports)
	s.Require().NoError(err)
}

func (s *RuntimeSuite) allocIx() ledger.Instruction {
	return ledger.Instruction{
		ProgramID: s.programID,
		Accounts:  []ledger.AccountMeta{ledger.Signer(s.payer, true), ledger.Writable(s.target)},
		Data:      []byte{1},
	}
}

func (s *RuntimeSuite) allocHandler(space int) ledger.HandlerFunc {
	return func(ctx context.Context, call *ledger.Call) error {
		acct, err := call.CreateAccount(ctx, s.payer, s.target, space, call.ProgramID())
		if err != nil {
			return err
		}
		acct.Data[0] = 0xAB
		return call.Put(ctx, acct)
	}
}

func (s *RuntimeSuite) TestRentMinimumBalance() {
	rent := ledger.Rent{LamportsPerByteYear: 3480, ExemptionYears: 2}
	s.Equal(uint64(890880), rent.MinimumBalance(0))
	s.Equal(uint64((353+128)*3480*2), rent.MinimumBalance(353))
}

func (s *RuntimeSuite) TestUnknownProgram() {
	ix := s.allocIx()
	ix.ProgramID = ledgertest.Address("other")
	err := s.rt.Invoke(s.ctx(s.payer), ix)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidAccount))
	s.Zero(s.spy.Transactions())
}

func (s *RuntimeSuite) TestSignerFlagRequiresVerifiedSignature() {
	s.program.handler = s.allocHandler(4)
	err := s.rt.Invoke(s.ctx(), s.allocIx())
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Zero(s.spy.Transactions())
}

func (s *RuntimeSuite) TestUndecodablePayloadNeverOpensTransaction() {
	ix := s.allocIx()
	ix.Data = []byte{9, 9}
	err := s.rt.Invoke(s.ctx(s.payer), ix)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidCallData))
	s.Zero(s.spy.Transactions())
	s.Zero(s.spy.Reads())
}

func (s *RuntimeSuite) TestAllocationDebitsPayerAtMinimumBalance() {
	s.fund(s.payer, 10_000)
	s.program.handler = s.allocHandler(4)

	s.Require().NoError(s.rt.Invoke(s.ctx(s.payer), s.allocIx()))

	want := s.rt.Rent().MinimumBalance(4)
	target, err := s.rt.Load(context.Background(), s.target)
	s.Require().NoError(err)
	s.Equal(want, target.Lamports)
	s.Equal(s.programID, target.Owner)
	s.Equal([]byte{0xAB, 0, 0, 0}, target.Data)

	payer, err := s.rt.Load(context.Background(), s.payer)
	s.Require().NoError(err)
	s.Equal(uint64(10_000)-want, payer.Lamports)
}

func (s *RuntimeSuite) TestAllocationAtUsedAddressIsDuplicate() {
	s.fund(s.payer, 100_000)
	s.program.handler = s.allocHandler(4)
	s.Require().NoError(s.rt.Invoke(s.ctx(s.payer), s.allocIx()))
	before, _ := s.rt.Load(context.Background(), s.payer)

	err := s.rt.Invoke(s.ctx(s.payer), s.allocIx())
	s.True(dErrors.HasCode(err, dErrors.CodeDuplicateRecord))

	after, _ := s.rt.Load(context.Background(), s.payer)
	s.Equal(before.Lamports, after.Lamports)
}

func (s *RuntimeSuite) TestInsufficientFunds() {
	s.fund(s.payer, 1)
	s.program.handler = s.allocHandler(4)

	err := s.rt.Invoke(s.ctx(s.payer), s.allocIx())
	s.True(dErrors.HasCode(err, dErrors.CodeInsufficientFunds))

	_, err = s.rt.Load(context.Background(), s.target)
	s.Error(err)
}

func (s *RuntimeSuite) TestWritesRequireWritableMeta() {
	s.fund(s.payer, 100_000)
	s.program.handler = s.allocHandler(4)
	ix := s.allocIx()
	ix.Accounts[1] = ledger.ReadOnly(s.target)

	err := s.rt.Invoke(s.ctx(s.payer), ix)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidAccount))
}

func (s *RuntimeSuite) TestUnlistedAccountIsNotReadable() {
	s.program.handler = func(ctx context.Context, call *ledger.Call) error {
		_, err := call.Get(ctx, ledgertest.Address("elsewhere"))
		return err
	}
	err := s.rt.Invoke(s.ctx(s.payer), s.allocIx())
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidAccount))
}

func (s *RuntimeSuite) TestForeignOwnedAccountIsNotWritable() {
	s.fund(s.target, 5)
	s.program.handler = func(ctx context.Context, call *ledger.Call) error {
		acct, err := call.Get(ctx, s.target)
		if err != nil {
			return err
		}
		acct.Data = []byte{1}
		return call.Put(ctx, acct)
	}
	err := s.rt.Invoke(s.ctx(s.payer), s.allocIx())
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidAccount))
}

func (s *RuntimeSuite) TestCallObservesPinnedClock() {
	var seen time.Time
	s.program.handler = func(_ context.Context, call *ledger.Call) error {
		seen = call.Now()
		return nil
	}
	s.Require().NoError(s.rt.Invoke(s.ctx(s.payer), s.allocIx()))
	s.Equal(s.now, seen)
}

func (s *RuntimeSuite) TestAfterCommitRunsOnlyOnSuccess() {
	var ran int
	fail := errors.New("nope")
	s.program.handler = func(_ context.Context, call *ledger.Call) error {
		call.AfterCommit(func(context.Context) { ran++ })
		return fail
	}
	err := s.rt.Invoke(s.ctx(s.payer), s.allocIx())
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Zero(ran)

	s.program.handler = func(_ context.Context, call *ledger.Call) error {
		call.AfterCommit(func(context.Context) { ran++ })
		return nil
	}
	s.Require().NoError(s.rt.Invoke(s.ctx(s.payer), s.allocIx()))
	s.Equal(1, ran)
}

func (s *RuntimeSuite) TestAfterAbortRunsOnceOnFailure() {
	rt := ledger.NewRuntime(ledgertest.ReplayStore{Inner: store.NewInMemoryStore()})
	rt.Register(s.programID, s.program)

	var attempts, committed, aborted int
	s.program.handler = func(_ context.Context, call *ledger.Call) error {
		attempts++
		call.AfterCommit(func(context.Context) { committed++ })
		call.AfterAbort(func(context.Context) { aborted++ })
		return nil
	}
	s.Require().NoError(rt.Invoke(s.ctx(), ledger.Instruction{ProgramID: s.programID, Data: []byte{1}}))
	s.Equal(2, attempts)
	s.Equal(1, committed)
	s.Zero(aborted)

	s.program.handler = func(_ context.Context, call *ledger.Call) error {
		call.AfterAbort(func(context.Context) { aborted++ })
		return dErrors.New(dErrors.CodeValidation, "rejected")
	}
	err := rt.Invoke(s.ctx(), ledger.Instruction{ProgramID: s.programID, Data: []byte{1}})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Equal(1, aborted)
	s.Equal(1, committed)
}

func (s *RuntimeSuite) TestInvokeAndReadSeesCommittedState() {
	s.fund(s.payer, 10_000)
	s.program.handler = s.allocHandler(4)

	var seen []byte
	err := s.rt.InvokeAndRead(s.ctx(s.payer), s.allocIx(), func(ctx context.Context, reader ledger.AccountReader) error {
		acct, err := reader.Get(ctx, s.target)
		if err != nil {
			return err
		}
		seen = acct.Data
		return nil
	})
	s.Require().NoError(err)
	s.Equal([]byte{0xAB, 0, 0, 0}, seen)

	target, err := s.rt.Load(context.Background(), s.target)
	s.Require().NoError(err)
	s.Equal(target.Data, seen)
}

func (s *RuntimeSuite) TestInvokeAndReadFailureDiscardsWrites() {
	s.fund(s.payer, 10_000)
	s.program.handler = s.allocHandler(4)

	err := s.rt.InvokeAndRead(s.ctx(s.payer), s.allocIx(), func(context.Context, ledger.AccountReader) error {
		return dErrors.New(dErrors.CodeNotFound, "asset not found")
	})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.rt.Load(context.Background(), s.target)
	s.Error(err)
	payer, err := s.rt.Load(context.Background(), s.payer)
	s.Require().NoError(err)
	s.Equal(uint64(10_000), payer.Lamports)
}

func (s *RuntimeSuite) TestAirdrop() {
	acct, err := s.rt.Airdrop(context.Background(), s.payer, 7)
	s.Require().NoError(err)
	s.Equal(uint64(7), acct.Lamports)
	s.Equal(ledger.SystemProgram, acct.Owner)

	acct, err = s.rt.Airdrop(context.Background(), s.payer, 3)
	s.Require().NoError(err)
	s.Equal(uint64(10), acct.Lamports)

	_, err = s.rt.Airdrop(context.Background(), s.payer, 0)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}
