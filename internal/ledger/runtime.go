package ledger

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rwagate/internal/ledger/metrics"
	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
	"rwagate/pkg/platform/sentinel"
	"rwagate/pkg/requestcontext"
)

// Runtime routes instructions to registered programs and runs each one as a
// single all-or-nothing store transaction.
type Runtime struct {
	store   Store
	rent    Rent
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer

	mu       sync.RWMutex
	programs map[domain.Address]Program
}

// Option configures a Runtime.
type Option func(*Runtime)

func WithRent(r Rent) Option {
	return func(rt *Runtime) {
		rt.rent = r
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(rt *Runtime) {
		rt.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(rt *Runtime) {
		rt.tracer = t
	}
}

func NewRuntime(store Store, opts ...Option) *Runtime {
	rt := &Runtime{
		store:    store,
		rent:     DefaultRent,
		logger:   slog.Default(),
		tracer:   otel.Tracer("rwagate/ledger"),
		programs: make(map[domain.Address]Program),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Register routes instructions addressed to id to p.
func (r *Runtime) Register(id domain.Address, p Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.programs[id] = p
}

func (r *Runtime) Rent() Rent { return r.rent }

// Invoke executes ix. Signer flags are checked against the identities verified for
// ctx, the payload is decoded before any account is touched, and the handler's
// writes are committed only if it succeeds.
func (r *Runtime) Invoke(ctx context.Context, ix Instruction) error {
	return r.invoke(ctx, ix, nil)
}

// InvokeAndRead executes ix like Invoke, then runs read inside the same
// transaction once the handler succeeds. read sees exactly the state the call
// commits and may run again if the store retries.
func (r *Runtime) InvokeAndRead(ctx context.Context, ix Instruction, read func(ctx context.Context, reader AccountReader) error) error {
	return r.invoke(ctx, ix, read)
}

func (r *Runtime) invoke(ctx context.Context, ix Instruction, read func(ctx context.Context, reader AccountReader) error) error {
	start := time.Now()

	r.mu.RLock()
	prog, ok := r.programs[ix.ProgramID]
	r.mu.RUnlock()
	if !ok {
		return dErrors.Newf(dErrors.CodeInvalidAccount, "program %s is not registered", ix.ProgramID)
	}

	for _, m := range ix.Accounts {
		if m.IsSigner && !requestcontext.IsSigner(ctx, m.Address) {
			return dErrors.Newf(dErrors.CodeUnauthorized, "missing signature for %s", m.Address)
		}
	}

	route, err := prog.Route(ix.Data)
	if err != nil {
		r.metrics.IncrementInvocation("unknown", string(dErrors.CodeOf(err)))
		return err
	}

	ctx, span := r.tracer.Start(ctx, "ledger.invoke "+route.Name, trace.WithAttributes(
		attribute.String("rwagate.program_id", ix.ProgramID.String()),
		attribute.String("rwagate.instruction", route.Name),
		attribute.Int("rwagate.accounts", len(ix.Accounts)),
	))
	defer span.End()

	call := newCall(ix, requestcontext.Now(ctx), r.rent)
	err = r.store.Atomic(ctx, lockSet(ix.Accounts), func(tx Tx) error {
		call.reset(tx)
		if err := route.Handler(ctx, call); err != nil || read == nil {
			return err
		}
		return read(ctx, call)
	})
	r.metrics.ObserveInvokeLatency(route.Name, time.Since(start))
	if err != nil {
		err = translate(err)
		code := dErrors.CodeOf(err)
		r.metrics.IncrementInvocation(route.Name, string(code))
		span.SetStatus(codes.Error, string(code))
		span.RecordError(err)
		if code == dErrors.CodeInternal {
			r.logger.ErrorContext(ctx, "instruction failed",
				"instruction", route.Name,
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		for _, hook := range call.aborts {
			hook(ctx)
		}
		return err
	}

	r.metrics.IncrementInvocation(route.Name, "ok")
	r.metrics.AddLamportsFunded("allocation", call.funded)
	for _, hook := range call.hooks {
		hook(ctx)
	}
	return nil
}

// Load reads committed account state outside any call.
func (r *Runtime) Load(ctx context.Context, addr domain.Address) (*Account, error) {
	return r.store.Load(ctx, addr)
}

// Get implements AccountReader over committed state.
func (r *Runtime) Get(ctx context.Context, addr domain.Address) (*Account, error) {
	return r.store.Load(ctx, addr)
}

// Airdrop credits lamports to addr, creating a system account if none exists.
func (r *Runtime) Airdrop(ctx context.Context, addr domain.Address, lamports uint64) (*Account, error) {
	if lamports == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "lamports must be positive")
	}
	var out *Account
	err := r.store.Atomic(ctx, []domain.Address{addr}, func(tx Tx) error {
		acct, err := tx.Get(ctx, addr)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			out = &Account{Address: addr, Owner: SystemProgram, Lamports: lamports}
			return tx.Create(ctx, out)
		case err != nil:
			return err
		}
		if acct.Lamports > math.MaxUint64-lamports {
			return dErrors.New(dErrors.CodeValidation, "balance would overflow")
		}
		acct.Lamports += lamports
		out = acct
		return tx.Put(ctx, acct)
	})
	if err != nil {
		return nil, translate(err)
	}
	r.metrics.AddLamportsFunded("faucet", lamports)
	r.logger.InfoContext(ctx, "airdrop credited",
		"address", addr.String(),
		"lamports", lamports,
		"balance", out.Lamports,
	)
	return out, nil
}

// lockSet returns the distinct addresses of metas in ascending byte order.
func lockSet(metas []AccountMeta) []domain.Address {
	seen := make(map[domain.Address]struct{}, len(metas))
	out := make([]domain.Address, 0, len(metas))
	for _, m := range metas {
		if _, ok := seen[m.Address]; ok {
			continue
		}
		seen[m.Address] = struct{}{}
		out = append(out, m.Address)
	}
	sort.Slice(out, func(i, j int) bool {
		return string(out[i][:]) < string(out[j][:])
	})
	return out
}

// translate maps store sentinels that escaped a handler onto domain codes.
func translate(err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "account not found")
	case errors.Is(err, sentinel.ErrAccountInUse):
		return dErrors.Wrap(err, dErrors.CodeDuplicateRecord, "account already in use")
	case errors.Is(err, sentinel.ErrInsufficientFunds):
		return dErrors.Wrap(err, dErrors.CodeInsufficientFunds, "insufficient funds")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "call aborted")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "instruction failed")
	}
}
