package service

import (
	"context"
	"log/slog"

	"rwagate/internal/asset/guard"
	"rwagate/internal/asset/metrics"
	"rwagate/internal/asset/models"
	"rwagate/internal/events"
	"rwagate/internal/extrameta"
	"rwagate/internal/ledger"
	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
)

// CompanionInitializer writes the companion-account list for a mint.
type CompanionInitializer interface {
	Initialize(ctx context.Context, call *ledger.Call, p extrameta.InitParams) error
}

// Service owns the compliance record of each asset.
type Service struct {
	programID domain.Address
	companion CompanionInitializer
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(programID domain.Address, companion CompanionInitializer, opts ...Option) *Service {
	s := &Service{
		programID: programID,
		companion: companion,
		publisher: events.Nop{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams are the accounts and arguments of a create.
type CreateParams struct {
	Payer      domain.Address
	Asset      domain.Address
	Custodian  domain.Address
	ExtraMetas domain.Address
	Mint       domain.Address

	AssetType    string
	Identifier   string
	Jurisdiction string
	Valuation    uint64
	MetadataURI  string
}

// Create allocates the record for p.Mint and initializes its companion list in
// the same call. The custodian must co-sign and becomes the stored custodian;
// the payer funds both allocations.
func (s *Service) Create(ctx context.Context, call *ledger.Call, p CreateParams) (*models.AssetDetails, error) {
	details, err := s.create(ctx, call, p)
	if err != nil {
		code := string(dErrors.CodeOf(err))
		call.AfterAbort(func(context.Context) {
			s.metrics.IncrementRejection("create", code)
		})
		return nil, err
	}
	return details, nil
}

func (s *Service) create(ctx context.Context, call *ledger.Call, p CreateParams) (*models.AssetDetails, error) {
	if err := guard.AuthorizeCreate(call, p.Custodian); err != nil {
		return nil, err
	}
	if p.Asset != models.AssetAddress(s.programID, p.Mint) {
		return nil, dErrors.New(dErrors.CodeInvalidAccount, "asset record address does not match the mint")
	}

	details, err := models.NewAssetDetails(p.AssetType, p.Identifier, p.Jurisdiction, p.Valuation, p.Custodian, p.MetadataURI, call.Now())
	if err != nil {
		return nil, err
	}
	data, err := details.Encode()
	if err != nil {
		return nil, err
	}

	acct, err := call.CreateAccount(ctx, p.Payer, p.Asset, models.AssetDetailsSpace, s.programID)
	if err != nil {
		return nil, err
	}
	acct.Data = data
	if err := call.Put(ctx, acct); err != nil {
		return nil, err
	}

	if err := s.companion.Initialize(ctx, call, extrameta.InitParams{Payer: p.Payer, List: p.ExtraMetas, Mint: p.Mint}); err != nil {
		return nil, err
	}

	call.AfterCommit(func(ctx context.Context) {
		s.metrics.IncrementRecordsCreated()
		s.logger.InfoContext(ctx, "asset record created",
			"mint", p.Mint.String(),
			"asset", p.Asset.String(),
			"asset_type", details.AssetType,
			"custodian", details.Custodian.String(),
		)
		e := events.New(ctx, events.TypeAssetCreated, s.programID, p.Asset)
		e.Mint = p.Mint.String()
		e.Asset = details
		s.publish(ctx, e)
	})
	return details, nil
}

// UpdateParams are the accounts and optional fields of an update.
type UpdateParams struct {
	Custodian domain.Address
	Asset     domain.Address
	models.Update
}

// Update applies the supplied fields after confirming the presented custodian
// co-signs and matches the stored one. On rejection nothing changes.
func (s *Service) Update(ctx context.Context, call *ledger.Call, p UpdateParams) (*models.AssetDetails, error) {
	details, err := s.update(ctx, call, p)
	if err != nil {
		code := string(dErrors.CodeOf(err))
		call.AfterAbort(func(context.Context) {
			s.metrics.IncrementRejection("update", code)
		})
		return nil, err
	}
	return details, nil
}

func (s *Service) update(ctx context.Context, call *ledger.Call, p UpdateParams) (*models.AssetDetails, error) {
	current, acct, err := models.LoadAssetDetails(ctx, call, s.programID, p.Asset)
	if err != nil {
		return nil, err
	}
	if err := guard.AuthorizeUpdate(call, p.Custodian, current); err != nil {
		return nil, err
	}

	next, err := current.ApplyUpdate(p.Update)
	if err != nil {
		return nil, err
	}
	data, err := next.Encode()
	if err != nil {
		return nil, err
	}
	acct.Data = data
	if err := call.Put(ctx, acct); err != nil {
		return nil, err
	}

	changed := changedFields(p.Update)
	call.AfterCommit(func(ctx context.Context) {
		for _, f := range changed {
			s.metrics.IncrementFieldUpdated(f)
		}
		if p.ComplianceStatus != nil && *p.ComplianceStatus != current.ComplianceStatus {
			s.metrics.IncrementComplianceChange(*p.ComplianceStatus)
		}
		s.logger.InfoContext(ctx, "asset record updated",
			"asset", p.Asset.String(),
			"changed", changed,
			"compliance_status", next.ComplianceStatus,
		)
		e := events.New(ctx, events.TypeAssetUpdated, s.programID, p.Asset)
		e.Changed = changed
		e.Asset = next
		s.publish(ctx, e)
	})
	return next, nil
}

// Read loads the record for mint from committed state.
func (s *Service) Read(ctx context.Context, reader ledger.AccountReader, mint domain.Address) (*models.AssetDetails, error) {
	details, _, err := models.LoadAssetDetails(ctx, reader, s.programID, models.AssetAddress(s.programID, mint))
	return details, err
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish event",
			"event_type", string(e.Type),
			"account", e.Account,
			"error", err,
		)
	}
}

func changedFields(u models.Update) []string {
	var out []string
	if u.Valuation != nil {
		out = append(out, "valuation")
	}
	if u.ComplianceStatus != nil {
		out = append(out, "compliance_status")
	}
	if u.MetadataURI != nil {
		out = append(out, "metadata_uri")
	}
	return out
}
