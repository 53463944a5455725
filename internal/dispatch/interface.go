package dispatch

import (
	"rwagate/internal/extrameta"
	"rwagate/internal/ledger/codec"
	dErrors "rwagate/pkg/domain-errors"
)

// Transfer-hook interface tags. The engine's calling convention fixes these; they
// never match a native tag.
var (
	ExecuteTag                     = extrameta.ExecuteTag
	InitializeExtraAccountMetasTag = codec.Tag("spl-transfer-hook-interface:initialize-extra-account-metas")
	UpdateExtraAccountMetasTag     = codec.Tag("spl-transfer-hook-interface:update-extra-account-metas")
)

// ExecuteData encodes the engine's execute payload for amount.
func ExecuteData(amount uint64) []byte {
	return extrameta.ExecuteData(amount)
}

// translateOpaque rewrites an interface payload into the native call it stands
// for. Only Execute has a native counterpart; it becomes transfer_hook with the
// amount re-encoded. Bytes after the amount are ignored.
func translateOpaque(data []byte) ([]byte, error) {
	r := codec.NewReader(data)
	tag := r.Discriminator()
	if r.Err() != nil {
		return nil, dErrors.New(dErrors.CodeInvalidCallData, "instruction data is shorter than a tag")
	}

	switch tag {
	case ExecuteTag:
		amount := r.U64()
		if r.Err() != nil {
			return nil, dErrors.New(dErrors.CodeInvalidCallData, "execute payload is missing its amount")
		}
		return TransferHookData(amount), nil
	case InitializeExtraAccountMetasTag, UpdateExtraAccountMetasTag:
		return nil, dErrors.New(dErrors.CodeInvalidCallData, "transfer hook interface instruction is not supported")
	default:
		return nil, dErrors.New(dErrors.CodeInvalidCallData, "unknown instruction tag")
	}
}
