package handler

import (
	"rwagate/internal/ledger"
	"rwagate/pkg/domain"
)

type InvokeResponse struct {
	ProgramID domain.Address `json:"program_id"`
	Status    string         `json:"status"`
}

// AccountResponse is committed account state. Data is base64.
type AccountResponse struct {
	Address  domain.Address `json:"address"`
	Owner    domain.Address `json:"owner"`
	Lamports uint64         `json:"lamports"`
	Data     []byte         `json:"data"`
	Space    int            `json:"space"`
}

func toAccountResponse(a *ledger.Account) AccountResponse {
	return AccountResponse{
		Address:  a.Address,
		Owner:    a.Owner,
		Lamports: a.Lamports,
		Data:     a.Data,
		Space:    len(a.Data),
	}
}
