package handler

import (
	"rwagate/internal/asset/models"
	"rwagate/pkg/domain"
)

// AssetResponse is a committed record together with the addresses derived for its mint.
type AssetResponse struct {
	Mint        domain.Address `json:"mint"`
	Address     domain.Address `json:"address"`
	ListAddress domain.Address `json:"extra_account_meta_list"`
	models.AssetDetails
}

// ExtraAccountMetasResponse is returned after a standalone list initialize.
type ExtraAccountMetasResponse struct {
	Mint        domain.Address `json:"mint"`
	ListAddress domain.Address `json:"extra_account_meta_list"`
}

// TransferCheckResponse reports an approved transfer. Denials are error responses.
type TransferCheckResponse struct {
	Mint    domain.Address `json:"mint"`
	Amount  uint64         `json:"amount"`
	Allowed bool           `json:"allowed"`
}
