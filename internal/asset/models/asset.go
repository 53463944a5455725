package models

import (
	"time"

	"rwagate/internal/ledger/codec"
	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
)

const (
	// AssetLabel is the derivation label of the record address for a mint.
	AssetLabel = "asset"

	// AssetDetailsSpace is the fixed allocation for every record:
	// tag 8, asset_type 32, identifier 32, jurisdiction 32, valuation 8,
	// last_audit_date 8, custodian 32, compliance_status 1, metadata_uri 200.
	AssetDetailsSpace = 8 + 32 + 32 + 32 + 8 + 8 + 32 + 1 + 200
)

// AssetDetailsTag identifies account data holding an AssetDetails record.
var AssetDetailsTag = codec.Tag("account:AssetDetails")

// AssetAddress returns the record address for mint under program.
func AssetAddress(program, mint domain.Address) domain.Address {
	return domain.Derive(program, AssetLabel, mint[:])
}

// AssetDetails is the compliance record of one tokenized asset.
//
// Invariants:
//   - Exactly one record exists per mint, at AssetAddress(program, mint)
//   - Custodian is immutable after creation
//   - LastAuditDate is set once at creation and never refreshed
//   - ComplianceStatus starts true; only the custodian may change it
//   - The encoded record never exceeds AssetDetailsSpace bytes
type AssetDetails struct {
	AssetType        string         `json:"asset_type"`
	Identifier       string         `json:"identifier"`
	Jurisdiction     string         `json:"jurisdiction"`
	Valuation        uint64         `json:"valuation"`
	LastAuditDate    int64          `json:"last_audit_date"`
	Custodian        domain.Address `json:"custodian"`
	ComplianceStatus bool           `json:"compliance_status"`
	MetadataURI      string         `json:"metadata_uri"`
}

// NewAssetDetails builds a fresh record stamped with the creation clock.
func NewAssetDetails(assetType, identifier, jurisdiction string, valuation uint64, custodian domain.Address, metadataURI string, now time.Time) (*AssetDetails, error) {
	if custodian.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "custodian is required")
	}
	d := &AssetDetails{
		AssetType:        assetType,
		Identifier:       identifier,
		Jurisdiction:     jurisdiction,
		Valuation:        valuation,
		LastAuditDate:    now.Unix(),
		Custodian:        custodian,
		ComplianceStatus: true,
		MetadataURI:      metadataURI,
	}
	if err := d.CheckSize(); err != nil {
		return nil, err
	}
	return d, nil
}

// Update carries the optional fields of a record mutation. A nil field leaves the
// stored value unchanged.
type Update struct {
	Valuation        *uint64
	ComplianceStatus *bool
	MetadataURI      *string
}

// IsEmpty reports whether the update changes nothing.
func (u Update) IsEmpty() bool {
	return u.Valuation == nil && u.ComplianceStatus == nil && u.MetadataURI == nil
}

// CanUpdate checks that caller is the record's custodian.
// Use with ApplyUpdate so authorization runs before any field changes.
func (d *AssetDetails) CanUpdate(caller domain.Address) error {
	if caller != d.Custodian {
		return dErrors.New(dErrors.CodeUnauthorizedCustodian, "caller is not the asset custodian")
	}
	return nil
}

// ApplyUpdate copies the supplied fields and returns the resulting record.
// The receiver is left untouched; the result has been size-checked.
func (d *AssetDetails) ApplyUpdate(u Update) (*AssetDetails, error) {
	next := *d
	if u.Valuation != nil {
		next.Valuation = *u.Valuation
	}
	if u.ComplianceStatus != nil {
		next.ComplianceStatus = *u.ComplianceStatus
	}
	if u.MetadataURI != nil {
		next.MetadataURI = *u.MetadataURI
	}
	if err := next.CheckSize(); err != nil {
		return nil, err
	}
	return &next, nil
}

// EncodedLen is the number of bytes Encode produces.
func (d *AssetDetails) EncodedLen() int {
	return codec.DiscriminatorLength +
		4 + len(d.AssetType) +
		4 + len(d.Identifier) +
		4 + len(d.Jurisdiction) +
		8 + 8 + domain.AddressLength + 1 +
		4 + len(d.MetadataURI)
}

// CheckSize rejects records that do not fit the fixed allocation.
func (d *AssetDetails) CheckSize() error {
	if n := d.EncodedLen(); n > AssetDetailsSpace {
		return dErrors.Newf(dErrors.CodeValidation, "record encodes to %d bytes, limit is %d", n, AssetDetailsSpace)
	}
	return nil
}

// Encode returns the record as exactly AssetDetailsSpace bytes: tag, fields in
// declaration order, zero padding.
func (d *AssetDetails) Encode() ([]byte, error) {
	if err := d.CheckSize(); err != nil {
		return nil, err
	}
	w := codec.NewWriter(AssetDetailsSpace)
	w.Discriminator(AssetDetailsTag)
	w.String(d.AssetType)
	w.String(d.Identifier)
	w.String(d.Jurisdiction)
	w.U64(d.Valuation)
	w.I64(d.LastAuditDate)
	w.Address(d.Custodian)
	w.Bool(d.ComplianceStatus)
	w.String(d.MetadataURI)

	out := make([]byte, AssetDetailsSpace)
	copy(out, w.Bytes())
	return out, nil
}

// DecodeAssetDetails parses account data. Bytes after the record are ignored.
func DecodeAssetDetails(data []byte) (*AssetDetails, error) {
	r := codec.NewReader(data)
	if tag := r.Discriminator(); r.Err() != nil || tag != AssetDetailsTag {
		return nil, dErrors.New(dErrors.CodeInvalidAccount, "account is not an asset record")
	}
	d := &AssetDetails{
		AssetType:        r.String(),
		Identifier:       r.String(),
		Jurisdiction:     r.String(),
		Valuation:        r.U64(),
		LastAuditDate:    r.I64(),
		Custodian:        r.Address(),
		ComplianceStatus: r.Bool(),
		MetadataURI:      r.String(),
	}
	if err := r.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidAccount, "asset record is corrupt")
	}
	return d, nil
}
