package extrameta

import (
	"context"

	"rwagate/internal/ledger"
	"rwagate/internal/ledger/codec"
	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
)

// ExecuteData is the interface-level execute payload: tag then amount.
func ExecuteData(amount uint64) []byte {
	w := codec.NewWriter(codec.DiscriminatorLength + 8)
	w.Discriminator(ExecuteTag)
	w.U64(amount)
	return w.Bytes()
}

// ResolveAccounts turns descriptors into account metas. Seeds index into the
// fixed accounts followed by the extras resolved so far, so a descriptor may
// refer to any earlier one.
func ResolveAccounts(ctx context.Context, reader ledger.AccountReader, program domain.Address, metas []Meta, fixed []domain.Address, ixData []byte) ([]ledger.AccountMeta, error) {
	known := append([]domain.Address(nil), fixed...)
	out := make([]ledger.AccountMeta, 0, len(metas))

	for i, m := range metas {
		var addr domain.Address
		switch {
		case m.Kind == KindLiteral:
			addr = m.AddressConfig
		case m.Kind == KindDerived || m.Kind >= ExternalProgramBase:
			owner := program
			if m.Kind >= ExternalProgramBase {
				idx := int(m.Kind - ExternalProgramBase)
				if idx >= len(known) {
					return nil, dErrors.Newf(dErrors.CodeInvalidAccount, "descriptor %d refers to missing program account %d", i, idx)
				}
				owner = known[idx]
			}
			seeds, err := UnpackSeeds(m.AddressConfig)
			if err != nil {
				return nil, err
			}
			raw, err := seedBytes(ctx, reader, seeds, known, ixData)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInvalidAccount, "cannot resolve descriptor seeds")
			}
			addr = DeriveFromSeeds(owner, raw)
		default:
			return nil, dErrors.Newf(dErrors.CodeInvalidAccount, "descriptor %d has unknown kind %d", i, m.Kind)
		}
		known = append(known, addr)
		out = append(out, ledger.AccountMeta{Address: addr, IsSigner: m.IsSigner, IsWritable: m.IsWritable})
	}
	return out, nil
}

func seedBytes(ctx context.Context, reader ledger.AccountReader, seeds []Seed, known []domain.Address, ixData []byte) ([][]byte, error) {
	out := make([][]byte, 0, len(seeds))
	for _, s := range seeds {
		switch s := s.(type) {
		case Literal:
			out = append(out, []byte(s))
		case InstructionData:
			end := int(s.Index) + int(s.Length)
			if end > len(ixData) {
				return nil, dErrors.New(dErrors.CodeInvalidCallData, "instruction data seed out of range")
			}
			out = append(out, ixData[s.Index:end])
		case AccountKey:
			if int(s.Index) >= len(known) {
				return nil, dErrors.Newf(dErrors.CodeInvalidAccount, "account key seed refers to missing account %d", s.Index)
			}
			out = append(out, known[s.Index].Bytes())
		case AccountData:
			if int(s.AccountIndex) >= len(known) {
				return nil, dErrors.Newf(dErrors.CodeInvalidAccount, "account data seed refers to missing account %d", s.AccountIndex)
			}
			acct, err := reader.Get(ctx, known[s.AccountIndex])
			if err != nil {
				return nil, err
			}
			end := int(s.DataIndex) + int(s.Length)
			if end > len(acct.Data) {
				return nil, dErrors.New(dErrors.CodeInvalidAccount, "account data seed out of range")
			}
			out = append(out, acct.Data[s.DataIndex:end])
		}
	}
	return out, nil
}
