// Package program assembles the compliance program and exposes the operations
// transports call: raw invocation, record reads, companion-account resolution and
// instruction builders for the native and interface call shapes.
package program

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	assetmetrics "rwagate/internal/asset/metrics"
	"rwagate/internal/asset/models"
	"rwagate/internal/asset/service"
	"rwagate/internal/dispatch"
	"rwagate/internal/events"
	"rwagate/internal/extrameta"
	"rwagate/internal/gate"
	gatemetrics "rwagate/internal/gate/metrics"
	"rwagate/internal/ledger"
	"rwagate/pkg/domain"
)

// Program is the compliance program registered with a runtime.
type Program struct {
	id       domain.Address
	runtime  *ledger.Runtime
	assets   *service.Service
	resolver *extrameta.Resolver
	gate     *gate.Gate
	router   *dispatch.Router
}

type options struct {
	logger    *slog.Logger
	publisher events.Publisher
	registry  prometheus.Registerer
	metas     func(mint domain.Address) []extrameta.Meta
}

type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(o *options) {
		o.publisher = p
	}
}

// WithRegistry registers the program's metrics with reg. Without it no metrics are kept.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithExtraAccountMetas sets the descriptors published for each mint.
func WithExtraAccountMetas(fn func(mint domain.Address) []extrameta.Meta) Option {
	return func(o *options) {
		o.metas = fn
	}
}

// New builds the program and registers it with rt under id.
func New(id domain.Address, rt *ledger.Runtime, opts ...Option) *Program {
	o := &options{logger: slog.Default(), publisher: events.Nop{}}
	for _, opt := range opts {
		opt(o)
	}

	var (
		am *assetmetrics.Metrics
		gm *gatemetrics.Metrics
	)
	if o.registry != nil {
		am = assetmetrics.New(o.registry)
		gm = gatemetrics.New(o.registry)
	}

	resolverOpts := []extrameta.Option{
		extrameta.WithLogger(o.logger),
		extrameta.WithPublisher(o.publisher),
	}
	if o.metas != nil {
		resolverOpts = append(resolverOpts, extrameta.WithMetas(o.metas))
	}
	resolver := extrameta.New(id, resolverOpts...)
	assets := service.New(id, resolver,
		service.WithLogger(o.logger),
		service.WithPublisher(o.publisher),
		service.WithMetrics(am),
	)
	g := gate.New(id, gate.WithLogger(o.logger), gate.WithMetrics(gm))

	p := &Program{
		id:       id,
		runtime:  rt,
		assets:   assets,
		resolver: resolver,
		gate:     g,
		router:   dispatch.New(assets, resolver, g),
	}
	rt.Register(id, p.router)
	return p
}

func (p *Program) ID() domain.Address { return p.id }

// Invoke runs ix through the runtime.
func (p *Program) Invoke(ctx context.Context, ix ledger.Instruction) error {
	return p.runtime.Invoke(ctx, ix)
}

// InvokeForAsset runs ix and returns the record for mint as ix committed it.
func (p *Program) InvokeForAsset(ctx context.Context, ix ledger.Instruction, mint domain.Address) (*models.AssetDetails, error) {
	var details *models.AssetDetails
	err := p.runtime.InvokeAndRead(ctx, ix, func(ctx context.Context, reader ledger.AccountReader) error {
		d, err := p.assets.Read(ctx, reader, mint)
		details = d
		return err
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

// ReadAsset returns the committed record for mint.
func (p *Program) ReadAsset(ctx context.Context, mint domain.Address) (*models.AssetDetails, error) {
	return p.assets.Read(ctx, p.runtime, mint)
}

// AssetAddress is the record address for mint.
func (p *Program) AssetAddress(mint domain.Address) domain.Address {
	return models.AssetAddress(p.id, mint)
}

// ExtraAccountMetaListAddress is the companion list address for mint.
func (p *Program) ExtraAccountMetaListAddress(mint domain.Address) domain.Address {
	return p.resolver.ListAddress(mint)
}

// ResolveExtraAccounts returns what the transfer engine must attach to an
// execute call for fixed and amount.
func (p *Program) ResolveExtraAccounts(ctx context.Context, fixed extrameta.TransferAccounts, amount uint64) (*extrameta.Resolution, error) {
	return p.resolver.Resolve(ctx, p.runtime, fixed, amount)
}
