package models

import (
	"context"
	"errors"

	"rwagate/internal/ledger"
	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
	"rwagate/pkg/platform/sentinel"
)

// LoadAssetDetails reads and verifies the record at addr: it must exist, be owned
// by program and carry the AssetDetails tag.
func LoadAssetDetails(ctx context.Context, r ledger.AccountReader, program, addr domain.Address) (*AssetDetails, *ledger.Account, error) {
	acct, err := r.Get(ctx, addr)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, dErrors.Wrap(err, dErrors.CodeNotFound, "asset record not found")
		}
		return nil, nil, err
	}
	if acct.Owner != program {
		return nil, nil, dErrors.New(dErrors.CodeInvalidAccount, "asset record is not owned by the program")
	}
	d, err := DecodeAssetDetails(acct.Data)
	if err != nil {
		return nil, nil, err
	}
	return d, acct, nil
}
