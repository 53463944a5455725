package ledger

import (
	"context"
	"errors"
	"time"

	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
	"rwagate/pkg/platform/sentinel"
)

// Call is the runtime handle a program handler works through. It exposes only the
// accounts listed in the instruction and enforces the runtime's write rules:
//   - only accounts marked writable may be created or modified
//   - only accounts owned by the executing program may be modified
//   - allocations are funded at the rent-exempt minimum by a writable signing payer
type Call struct {
	programID domain.Address
	accounts  []AccountMeta
	metas     map[domain.Address]AccountMeta
	data      []byte
	now       time.Time
	rent      Rent

	tx     Tx
	funded uint64
	hooks  []func(ctx context.Context)
	aborts []func(ctx context.Context)
}

func newCall(ix Instruction, now time.Time, rent Rent) *Call {
	metas := make(map[domain.Address]AccountMeta, len(ix.Accounts))
	for _, m := range ix.Accounts {
		prev := metas[m.Address]
		metas[m.Address] = AccountMeta{
			Address:    m.Address,
			IsSigner:   prev.IsSigner || m.IsSigner,
			IsWritable: prev.IsWritable || m.IsWritable,
		}
	}
	return &Call{
		programID: ix.ProgramID,
		accounts:  ix.Accounts,
		metas:     metas,
		data:      ix.Data,
		now:       now,
		rent:      rent,
	}
}

// reset clears per-attempt state before a store runs the handler.
func (c *Call) reset(tx Tx) {
	c.tx = tx
	c.funded = 0
	c.hooks = nil
	c.aborts = nil
}

func (c *Call) ProgramID() domain.Address { return c.programID }

// Accounts returns the instruction's account list in the order supplied.
func (c *Call) Accounts() []AccountMeta { return c.accounts }

// Data returns the raw instruction data.
func (c *Call) Data() []byte { return c.data }

// Now is the runtime clock reading for this call. It is fixed for the call's duration.
func (c *Call) Now() time.Time { return c.now }

func (c *Call) Rent() Rent { return c.rent }

// IsSigner reports whether addr co-signed this call.
func (c *Call) IsSigner(addr domain.Address) bool {
	return c.metas[addr].IsSigner
}

// IsWritable reports whether addr was passed as writable.
func (c *Call) IsWritable(addr domain.Address) bool {
	return c.metas[addr].IsWritable
}

// Get reads an account passed to the instruction.
func (c *Call) Get(ctx context.Context, addr domain.Address) (*Account, error) {
	if _, ok := c.metas[addr]; !ok {
		return nil, dErrors.Newf(dErrors.CodeInvalidAccount, "account %s was not passed to the instruction", addr)
	}
	return c.tx.Get(ctx, addr)
}

// CreateAccount allocates space zeroed bytes at addr, owned by owner and funded by
// payer at the rent-exempt minimum. The returned account is staged; callers write
// its data and Put it back.
func (c *Call) CreateAccount(ctx context.Context, payer, addr domain.Address, space int, owner domain.Address) (*Account, error) {
	if meta := c.metas[payer]; !meta.IsSigner || !meta.IsWritable {
		return nil, dErrors.New(dErrors.CodeInvalidAccount, "payer must be a writable signer")
	}
	if !c.IsWritable(addr) {
		return nil, dErrors.Newf(dErrors.CodeInvalidAccount, "account %s must be writable", addr)
	}
	if space < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "negative account space")
	}

	lamports := c.rent.MinimumBalance(space)
	acct := &Account{Address: addr, Owner: owner, Lamports: lamports, Data: make([]byte, space)}
	if err := c.tx.Create(ctx, acct); err != nil {
		if errors.Is(err, sentinel.ErrAccountInUse) {
			return nil, dErrors.Wrap(err, dErrors.CodeDuplicateRecord, "account already in use")
		}
		return nil, err
	}

	if err := c.debit(ctx, payer, lamports); err != nil {
		return nil, err
	}
	c.funded += lamports
	return acct.Clone(), nil
}

func (c *Call) debit(ctx context.Context, payer domain.Address, lamports uint64) error {
	acct, err := c.tx.Get(ctx, payer)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(sentinel.ErrInsufficientFunds, dErrors.CodeInsufficientFunds, "payer has no balance")
		}
		return err
	}
	if acct.Owner != SystemProgram {
		return dErrors.New(dErrors.CodeInvalidAccount, "payer must be a system account")
	}
	if acct.Lamports < lamports {
		return dErrors.Wrap(sentinel.ErrInsufficientFunds, dErrors.CodeInsufficientFunds, "payer cannot cover the minimum balance")
	}
	acct.Lamports -= lamports
	return c.tx.Put(ctx, acct)
}

// Put writes back an account owned by the executing program.
func (c *Call) Put(ctx context.Context, acct *Account) error {
	if !c.IsWritable(acct.Address) {
		return dErrors.Newf(dErrors.CodeInvalidAccount, "account %s must be writable", acct.Address)
	}
	current, err := c.tx.Get(ctx, acct.Address)
	if err != nil {
		return err
	}
	if current.Owner != c.programID || acct.Owner != current.Owner {
		return dErrors.Newf(dErrors.CodeInvalidAccount, "account %s is not owned by the program", acct.Address)
	}
	if acct.Lamports != current.Lamports {
		return dErrors.New(dErrors.CodeInvariantViolation, "handlers may not move lamports")
	}
	return c.tx.Put(ctx, acct)
}

// AfterCommit registers fn to run once the call's writes are durable. Hooks never
// run for a call that fails.
func (c *Call) AfterCommit(fn func(ctx context.Context)) {
	c.hooks = append(c.hooks, fn)
}

// AfterAbort registers fn to run once if the call fails. Only hooks registered
// by the final attempt run; earlier attempts of a retried call are discarded.
func (c *Call) AfterAbort(fn func(ctx context.Context)) {
	c.aborts = append(c.aborts, fn)
}
