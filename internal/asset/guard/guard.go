// Package guard decides who may create or mutate an asset record.
//
// Both checks report UnauthorizedCustodian on failure, whether the presented
// custodian did not co-sign the call or does not match the stored custodian.
package guard

import (
	"rwagate/internal/asset/models"
	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
)

// SignerChecker reports whether an identity co-signed the current call.
type SignerChecker interface {
	IsSigner(addr domain.Address) bool
}

// AuthorizeCreate requires the presented custodian to be supplied and co-signing.
// The presented value becomes the record's custodian.
func AuthorizeCreate(call SignerChecker, custodian domain.Address) error {
	if custodian.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorizedCustodian, "custodian is required")
	}
	if !call.IsSigner(custodian) {
		return dErrors.New(dErrors.CodeUnauthorizedCustodian, "custodian must co-sign the call")
	}
	return nil
}

// AuthorizeUpdate requires the presented custodian to co-sign and to equal the
// record's stored custodian.
func AuthorizeUpdate(call SignerChecker, presented domain.Address, record *models.AssetDetails) error {
	if !call.IsSigner(presented) {
		return dErrors.New(dErrors.CodeUnauthorizedCustodian, "custodian must co-sign the call")
	}
	return record.CanUpdate(presented)
}
