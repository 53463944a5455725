package program

import (
	"rwagate/internal/asset/models"
	"rwagate/internal/dispatch"
	"rwagate/internal/extrameta"
	"rwagate/internal/ledger"
	"rwagate/pkg/domain"
)

// CreateAssetInstruction builds initialize_asset. payer and custodian must both sign.
func (p *Program) CreateAssetInstruction(payer, custodian, mint domain.Address, args dispatch.InitializeAssetArgs) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: p.id,
		Accounts: []ledger.AccountMeta{
			ledger.Signer(payer, true),
			ledger.Writable(p.AssetAddress(mint)),
			ledger.Signer(custodian, false),
			ledger.Writable(p.ExtraAccountMetaListAddress(mint)),
			ledger.ReadOnly(mint),
		},
		Data: dispatch.InitializeAssetData(args),
	}
}

// UpdateAssetInstruction builds update_asset_details presenting custodian.
func (p *Program) UpdateAssetInstruction(custodian, mint domain.Address, u models.Update) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: p.id,
		Accounts: []ledger.AccountMeta{
			ledger.Signer(custodian, false),
			ledger.Writable(p.AssetAddress(mint)),
		},
		Data: dispatch.UpdateAssetDetailsData(u),
	}
}

// InitializeExtraAccountMetaListInstruction builds the standalone list initialize.
func (p *Program) InitializeExtraAccountMetaListInstruction(payer, mint domain.Address) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: p.id,
		Accounts: []ledger.AccountMeta{
			ledger.Signer(payer, true),
			ledger.Writable(p.ExtraAccountMetaListAddress(mint)),
			ledger.ReadOnly(mint),
		},
		Data: dispatch.InitializeExtraAccountMetaListData(),
	}
}

// TransferHookInstruction builds the native gate call.
func (p *Program) TransferHookInstruction(fixed extrameta.TransferAccounts, amount uint64) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: p.id,
		Accounts:  p.transferAccounts(fixed),
		Data:      dispatch.TransferHookData(amount),
	}
}

// ExecuteInstruction builds the call the transfer engine issues: interface
// execute tag, same accounts as the native gate call.
func (p *Program) ExecuteInstruction(fixed extrameta.TransferAccounts, amount uint64) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: p.id,
		Accounts:  p.transferAccounts(fixed),
		Data:      dispatch.ExecuteData(amount),
	}
}

func (p *Program) transferAccounts(fixed extrameta.TransferAccounts) []ledger.AccountMeta {
	return []ledger.AccountMeta{
		ledger.ReadOnly(fixed.Source),
		ledger.ReadOnly(fixed.Mint),
		ledger.ReadOnly(fixed.Destination),
		ledger.ReadOnly(fixed.Owner),
		ledger.ReadOnly(p.ExtraAccountMetaListAddress(fixed.Mint)),
		ledger.ReadOnly(p.AssetAddress(fixed.Mint)),
	}
}
