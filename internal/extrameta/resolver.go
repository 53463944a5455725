package extrameta

import (
	"context"
	"errors"
	"log/slog"

	"rwagate/internal/events"
	"rwagate/internal/ledger"
	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
	"rwagate/pkg/platform/sentinel"
)

// Resolver publishes and reads the companion-account list of each mint.
type Resolver struct {
	programID domain.Address
	metasFor  func(mint domain.Address) []Meta
	publisher events.Publisher
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMetas sets the descriptor list written for each mint. The default is empty.
func WithMetas(fn func(mint domain.Address) []Meta) Option {
	return func(r *Resolver) {
		r.metasFor = fn
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(r *Resolver) {
		r.publisher = p
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func New(programID domain.Address, opts ...Option) *Resolver {
	r := &Resolver{
		programID: programID,
		metasFor:  func(domain.Address) []Meta { return nil },
		publisher: events.Nop{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ListAddress returns the companion list address for mint.
func (r *Resolver) ListAddress(mint domain.Address) domain.Address {
	return ListAddress(r.programID, mint)
}

// InitParams names the accounts of an initialize.
type InitParams struct {
	Payer domain.Address
	List  domain.Address
	Mint  domain.Address
}

// Initialize allocates the list at its derived address, sized for the
// descriptors, funded by the payer at the minimum balance, and writes it.
// A second initialize for the same mint fails with DuplicateRecord.
func (r *Resolver) Initialize(ctx context.Context, call *ledger.Call, p InitParams) error {
	if p.List != r.ListAddress(p.Mint) {
		return dErrors.New(dErrors.CodeInvalidAccount, "extra account meta list address does not match the mint")
	}
	data := Encode(r.metasFor(p.Mint))

	acct, err := call.CreateAccount(ctx, p.Payer, p.List, len(data), r.programID)
	if err != nil {
		return err
	}
	copy(acct.Data, data)
	if err := call.Put(ctx, acct); err != nil {
		return err
	}

	call.AfterCommit(func(ctx context.Context) {
		r.logger.InfoContext(ctx, "extra account meta list initialized",
			"mint", p.Mint.String(),
			"list", p.List.String(),
			"size", len(data),
			"lamports", acct.Lamports,
		)
		e := events.New(ctx, events.TypeExtraAccountMetasInitialized, r.programID, p.List)
		e.Mint = p.Mint.String()
		if err := r.publisher.Publish(ctx, e); err != nil {
			r.logger.ErrorContext(ctx, "failed to publish event", "event_type", string(e.Type), "error", err)
		}
	})
	return nil
}

// Load reads and decodes the list published for mint.
func (r *Resolver) Load(ctx context.Context, reader ledger.AccountReader, mint domain.Address) ([]Meta, error) {
	acct, err := reader.Get(ctx, r.ListAddress(mint))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "extra account meta list not found")
		}
		return nil, err
	}
	if acct.Owner != r.programID {
		return nil, dErrors.New(dErrors.CodeInvalidAccount, "extra account meta list is not owned by the program")
	}
	return Decode(acct.Data)
}

// TransferAccounts are the fixed accounts of an execute call, in order.
type TransferAccounts struct {
	Source      domain.Address
	Mint        domain.Address
	Destination domain.Address
	Owner       domain.Address
}

// Resolution is what a transfer engine needs to build an execute call.
type Resolution struct {
	ListAddress domain.Address       `json:"extra_account_meta_list"`
	Metas       []Meta               `json:"descriptors"`
	Accounts    []ledger.AccountMeta `json:"extra_accounts"`
}

// Resolve loads the list for fixed.Mint and computes the concrete extra accounts
// for an execute of amount.
func (r *Resolver) Resolve(ctx context.Context, reader ledger.AccountReader, fixed TransferAccounts, amount uint64) (*Resolution, error) {
	metas, err := r.Load(ctx, reader, fixed.Mint)
	if err != nil {
		return nil, err
	}
	list := r.ListAddress(fixed.Mint)
	accounts, err := ResolveAccounts(ctx, reader, r.programID, metas,
		[]domain.Address{fixed.Source, fixed.Mint, fixed.Destination, fixed.Owner, list},
		ExecuteData(amount),
	)
	if err != nil {
		return nil, err
	}
	if metas == nil {
		metas = []Meta{}
	}
	return &Resolution{ListAddress: list, Metas: metas, Accounts: accounts}, nil
}
