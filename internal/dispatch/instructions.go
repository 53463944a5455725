package dispatch

import (
	"rwagate/internal/asset/models"
	"rwagate/internal/ledger/codec"
	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
)

// Native instruction names. Each tag is Tag("global:" + name).
const (
	InitializeAsset                = "initialize_asset"
	UpdateAssetDetails             = "update_asset_details"
	InitializeExtraAccountMetaList = "initialize_extra_account_meta_list"
	TransferHook                   = "transfer_hook"
)

var (
	InitializeAssetTag                = codec.Tag("global:" + InitializeAsset)
	UpdateAssetDetailsTag             = codec.Tag("global:" + UpdateAssetDetails)
	InitializeExtraAccountMetaListTag = codec.Tag("global:" + InitializeExtraAccountMetaList)
	TransferHookTag                   = codec.Tag("global:" + TransferHook)
)

// InitializeAssetArgs are the arguments of initialize_asset, in wire order.
type InitializeAssetArgs struct {
	AssetType    string `json:"asset_type"`
	Identifier   string `json:"identifier"`
	Jurisdiction string `json:"jurisdiction"`
	Valuation    uint64 `json:"valuation"`
	MetadataURI  string `json:"metadata_uri"`
}

// InitializeAssetData encodes an initialize_asset payload.
func InitializeAssetData(a InitializeAssetArgs) []byte {
	w := codec.NewWriter(codec.DiscriminatorLength + 4*4 + 8 + len(a.AssetType) + len(a.Identifier) + len(a.Jurisdiction) + len(a.MetadataURI))
	w.Discriminator(InitializeAssetTag)
	w.String(a.AssetType)
	w.String(a.Identifier)
	w.String(a.Jurisdiction)
	w.U64(a.Valuation)
	w.String(a.MetadataURI)
	return w.Bytes()
}

func decodeInitializeAsset(r *codec.Reader) (InitializeAssetArgs, error) {
	a := InitializeAssetArgs{
		AssetType:    r.String(),
		Identifier:   r.String(),
		Jurisdiction: r.String(),
		Valuation:    r.U64(),
		MetadataURI:  r.String(),
	}
	if err := r.Err(); err != nil {
		return InitializeAssetArgs{}, dErrors.Wrap(err, dErrors.CodeInvalidCallData, "malformed initialize_asset arguments")
	}
	return a, nil
}

// UpdateAssetDetailsData encodes an update_asset_details payload. Nil fields are
// encoded as absent.
func UpdateAssetDetailsData(u models.Update) []byte {
	w := codec.NewWriter(64)
	w.Discriminator(UpdateAssetDetailsTag)
	w.OptionU64(u.Valuation)
	w.OptionBool(u.ComplianceStatus)
	w.OptionString(u.MetadataURI)
	return w.Bytes()
}

func decodeUpdateAssetDetails(r *codec.Reader) (models.Update, error) {
	u := models.Update{
		Valuation:        r.OptionU64(),
		ComplianceStatus: r.OptionBool(),
		MetadataURI:      r.OptionString(),
	}
	if err := r.Err(); err != nil {
		return models.Update{}, dErrors.Wrap(err, dErrors.CodeInvalidCallData, "malformed update_asset_details arguments")
	}
	return u, nil
}

// InitializeExtraAccountMetaListData encodes the argument-free initialize payload.
func InitializeExtraAccountMetaListData() []byte {
	return append([]byte(nil), InitializeExtraAccountMetaListTag[:]...)
}

// TransferHookData encodes the native gate payload for amount.
func TransferHookData(amount uint64) []byte {
	w := codec.NewWriter(codec.DiscriminatorLength + 8)
	w.Discriminator(TransferHookTag)
	w.U64(amount)
	return w.Bytes()
}

func decodeTransferHook(r *codec.Reader) (uint64, error) {
	amount := r.U64()
	if err := r.Err(); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInvalidCallData, "malformed transfer_hook arguments")
	}
	return amount, nil
}

// Account positions per instruction. Accounts after the required ones are
// accepted and ignored.
const (
	initializeAssetAccounts = 5 // payer, asset, custodian, extra_metas, mint
	updateAccounts          = 2 // custodian, asset
	initializeListAccounts  = 3 // payer, extra_metas, mint
	transferHookAccounts    = 6 // source, mint, destination, owner, extra_metas, asset
)

func accountKeys(instruction string, addrs []domain.Address, want int) error {
	if len(addrs) < want {
		return dErrors.Newf(dErrors.CodeInvalidAccount, "%s expects %d accounts, got %d", instruction, want, len(addrs))
	}
	return nil
}
