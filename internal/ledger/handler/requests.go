package handler

import (
	"rwagate/internal/ledger"
	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
)

// maxInvokeAccounts bounds the account list of one raw instruction.
const maxInvokeAccounts = 64

// InvokeRequest is the HTTP request body for POST /v1/invoke. Data is base64.
type InvokeRequest struct {
	ProgramID domain.Address       `json:"program_id"`
	Accounts  []ledger.AccountMeta `json:"accounts"`
	Data      []byte               `json:"data"`
}

func (r *InvokeRequest) Validate() error {
	if r.ProgramID.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "program_id is required")
	}
	if len(r.Accounts) > maxInvokeAccounts {
		return dErrors.Newf(dErrors.CodeValidation, "at most %d accounts may be passed", maxInvokeAccounts)
	}
	return nil
}

func (r *InvokeRequest) Instruction() ledger.Instruction {
	return ledger.Instruction{
		ProgramID: r.ProgramID,
		Accounts:  r.Accounts,
		Data:      r.Data,
	}
}

// AirdropRequest is the HTTP request body for POST /v1/faucet.
type AirdropRequest struct {
	Address  domain.Address `json:"address"`
	Lamports uint64         `json:"lamports"`
}

func (r *AirdropRequest) Validate() error {
	if r.Address.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "address is required")
	}
	if r.Lamports == 0 {
		return dErrors.New(dErrors.CodeValidation, "lamports must be positive")
	}
	return nil
}
