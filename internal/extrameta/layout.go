package extrameta

import (
	"encoding/hex"
	"encoding/json"

	"rwagate/internal/ledger/codec"
	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
)

const (
	// ListLabel is the derivation label of the companion list for a mint.
	ListLabel = "extra-account-metas"

	// MetaLength is the encoded size of one descriptor.
	MetaLength = 1 + domain.AddressLength + 1 + 1

	// headerLength covers the TLV type, TLV length and descriptor count.
	headerLength = codec.DiscriminatorLength + 4 + 4
)

// ExecuteTag is the transfer-hook interface "execute" tag. It is also the TLV
// type under which the descriptor list for that instruction is stored.
var ExecuteTag = codec.Tag("spl-transfer-hook-interface:execute")

// Descriptor kinds. Values at or above ExternalProgramBase derive the address
// under the program found at account index kind-ExternalProgramBase.
const (
	KindLiteral         uint8 = 0
	KindDerived         uint8 = 1
	ExternalProgramBase uint8 = 128
)

// ListAddress returns the companion list address for mint under program.
func ListAddress(program, mint domain.Address) domain.Address {
	return domain.Derive(program, ListLabel, mint[:])
}

// Meta is one extra-account descriptor.
type Meta struct {
	Kind          uint8
	AddressConfig [domain.AddressLength]byte
	IsSigner      bool
	IsWritable    bool
}

// LiteralMeta describes a fixed address.
func LiteralMeta(addr domain.Address, signer, writable bool) Meta {
	return Meta{Kind: KindLiteral, AddressConfig: addr, IsSigner: signer, IsWritable: writable}
}

// DerivedMeta describes an address derived under the gate's own program from seeds.
func DerivedMeta(seeds []Seed, signer, writable bool) (Meta, error) {
	cfg, err := PackSeeds(seeds)
	if err != nil {
		return Meta{}, err
	}
	return Meta{Kind: KindDerived, AddressConfig: cfg, IsSigner: signer, IsWritable: writable}, nil
}

// ExternalDerivedMeta describes an address derived under the program passed at programIndex.
func ExternalDerivedMeta(programIndex uint8, seeds []Seed, signer, writable bool) (Meta, error) {
	if programIndex >= 128 {
		return Meta{}, dErrors.New(dErrors.CodeValidation, "program index must be below 128")
	}
	cfg, err := PackSeeds(seeds)
	if err != nil {
		return Meta{}, err
	}
	return Meta{Kind: ExternalProgramBase + programIndex, AddressConfig: cfg, IsSigner: signer, IsWritable: writable}, nil
}

func (m Meta) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind          uint8  `json:"kind"`
		Address       string `json:"address,omitempty"`
		AddressConfig string `json:"address_config"`
		IsSigner      bool   `json:"is_signer"`
		IsWritable    bool   `json:"is_writable"`
	}{
		Kind:          m.Kind,
		AddressConfig: hex.EncodeToString(m.AddressConfig[:]),
		IsSigner:      m.IsSigner,
		IsWritable:    m.IsWritable,
	}
	if m.Kind == KindLiteral {
		out.Address = domain.Address(m.AddressConfig).String()
	}
	return json.Marshal(out)
}

// SizeOf returns the encoded size of a list holding n descriptors.
func SizeOf(n int) int {
	return headerLength + n*MetaLength
}

// Encode lays out metas as the Execute TLV entry.
func Encode(metas []Meta) []byte {
	w := codec.NewWriter(SizeOf(len(metas)))
	w.Discriminator(ExecuteTag)
	w.U32(uint32(4 + len(metas)*MetaLength))
	w.U32(uint32(len(metas)))
	for _, m := range metas {
		w.U8(m.Kind)
		w.Raw(m.AddressConfig[:])
		w.Bool(m.IsSigner)
		w.Bool(m.IsWritable)
	}
	return w.Bytes()
}

// Decode parses a list written by Encode. Bytes after the entry are ignored.
func Decode(data []byte) ([]Meta, error) {
	r := codec.NewReader(data)
	if tag := r.Discriminator(); r.Err() != nil || tag != ExecuteTag {
		return nil, dErrors.New(dErrors.CodeInvalidAccount, "account is not an extra account meta list")
	}
	length := r.U32()
	count := r.U32()
	if err := r.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidAccount, "extra account meta list is truncated")
	}
	if uint64(length) != 4+uint64(count)*MetaLength || uint64(count)*MetaLength > uint64(r.Remaining()) {
		return nil, dErrors.New(dErrors.CodeInvalidAccount, "extra account meta list length mismatch")
	}
	metas := make([]Meta, 0, count)
	for i := uint32(0); i < count; i++ {
		var m Meta
		m.Kind = r.U8()
		copy(m.AddressConfig[:], r.Raw(domain.AddressLength))
		m.IsSigner = r.Bool()
		m.IsWritable = r.Bool()
		metas = append(metas, m)
	}
	if err := r.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidAccount, "extra account meta list is corrupt")
	}
	return metas, nil
}
