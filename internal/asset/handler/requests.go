package handler

import (
	"net/url"
	"strconv"

	"rwagate/internal/asset/models"
	"rwagate/internal/dispatch"
	"rwagate/internal/extrameta"
	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
)

// CreateAssetRequest is the HTTP request body for POST /v1/assets.
// Payer and custodian must both co-sign the request.
type CreateAssetRequest struct {
	Payer        domain.Address `json:"payer"`
	Custodian    domain.Address `json:"custodian"`
	Mint         domain.Address `json:"mint"`
	AssetType    string         `json:"asset_type"`
	Identifier   string         `json:"identifier"`
	Jurisdiction string         `json:"jurisdiction"`
	Valuation    uint64         `json:"valuation"`
	MetadataURI  string         `json:"metadata_uri"`
}

// Validate checks required addresses. Field lengths are enforced by the program.
func (r *CreateAssetRequest) Validate() error {
	if r.Payer.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "payer is required")
	}
	if r.Custodian.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "custodian is required")
	}
	if r.Mint.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "mint is required")
	}
	return nil
}

// Args returns the instruction arguments.
func (r *CreateAssetRequest) Args() dispatch.InitializeAssetArgs {
	return dispatch.InitializeAssetArgs{
		AssetType:    r.AssetType,
		Identifier:   r.Identifier,
		Jurisdiction: r.Jurisdiction,
		Valuation:    r.Valuation,
		MetadataURI:  r.MetadataURI,
	}
}

// UpdateAssetRequest is the HTTP request body for PATCH /v1/assets/{mint}.
// Absent fields are left unchanged.
type UpdateAssetRequest struct {
	Custodian        domain.Address `json:"custodian"`
	Valuation        *uint64        `json:"valuation,omitempty"`
	ComplianceStatus *bool          `json:"compliance_status,omitempty"`
	MetadataURI      *string        `json:"metadata_uri,omitempty"`
}

func (r *UpdateAssetRequest) Validate() error {
	if r.Custodian.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "custodian is required")
	}
	return nil
}

func (r *UpdateAssetRequest) Update() models.Update {
	return models.Update{
		Valuation:        r.Valuation,
		ComplianceStatus: r.ComplianceStatus,
		MetadataURI:      r.MetadataURI,
	}
}

// InitializeExtraAccountMetasRequest is the HTTP request body for
// POST /v1/assets/{mint}/extra-account-metas.
type InitializeExtraAccountMetasRequest struct {
	Payer domain.Address `json:"payer"`
}

func (r *InitializeExtraAccountMetasRequest) Validate() error {
	if r.Payer.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "payer is required")
	}
	return nil
}

// TransferCheckRequest is the HTTP request body for
// POST /v1/assets/{mint}/transfer-check.
type TransferCheckRequest struct {
	Source      domain.Address `json:"source"`
	Destination domain.Address `json:"destination"`
	Owner       domain.Address `json:"owner"`
	Amount      uint64         `json:"amount"`
}

func (r *TransferCheckRequest) Validate() error {
	if r.Source.IsZero() || r.Destination.IsZero() || r.Owner.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "source, destination and owner are required")
	}
	return nil
}

func (r *TransferCheckRequest) transferAccounts(mint domain.Address) extrameta.TransferAccounts {
	return extrameta.TransferAccounts{
		Source:      r.Source,
		Mint:        mint,
		Destination: r.Destination,
		Owner:       r.Owner,
	}
}

// resolveQuery is parsed from GET /v1/assets/{mint}/extra-account-metas.
type resolveQuery struct {
	Source      domain.Address
	Destination domain.Address
	Owner       domain.Address
	Amount      uint64
}

// parseResolveQuery reads source, destination, owner and amount. Missing
// addresses resolve as the zero address; only descriptors that seed from them
// are affected.
func parseResolveQuery(v url.Values) (resolveQuery, error) {
	var q resolveQuery
	for _, f := range []struct {
		name string
		dst  *domain.Address
	}{
		{"source", &q.Source},
		{"destination", &q.Destination},
		{"owner", &q.Owner},
	} {
		raw := v.Get(f.name)
		if raw == "" {
			continue
		}
		addr, err := domain.ParseAddress(raw)
		if err != nil {
			return resolveQuery{}, dErrors.Newf(dErrors.CodeBadRequest, "invalid %s address", f.name)
		}
		*f.dst = addr
	}
	if raw := v.Get("amount"); raw != "" {
		amount, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return resolveQuery{}, dErrors.New(dErrors.CodeBadRequest, "amount must be an unsigned integer")
		}
		q.Amount = amount
	}
	return q, nil
}

func (q resolveQuery) transferAccounts(mint domain.Address) extrameta.TransferAccounts {
	return extrameta.TransferAccounts{
		Source:      q.Source,
		Mint:        mint,
		Destination: q.Destination,
		Owner:       q.Owner,
	}
}
