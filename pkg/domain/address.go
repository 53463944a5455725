package domain

import (
	"encoding/binary"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"

	dErrors "rwagate/pkg/domain-errors"
)

// AddressLength is the width of every account address and identity.
// It equals ed25519.PublicKeySize so an identity doubles as a verification key.
const AddressLength = 32

// maxEncodedAddressLength bounds base58 input before decoding.
const maxEncodedAddressLength = 44

// Address identifies an account, a program, a mint or a signing identity.
// This is a domain primitive: values produced by ParseAddress are always 32 bytes.
type Address [AddressLength]byte

// ParseAddress decodes a base58 address.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Address{}, dErrors.New(dErrors.CodeInvalidInput, "address is required")
	}
	if len(s) > maxEncodedAddressLength {
		return Address{}, dErrors.New(dErrors.CodeInvalidInput, "address is too long")
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return Address{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "address is not valid base58")
	}
	return AddressFromBytes(raw)
}

// AddressFromBytes copies a raw 32-byte address.
func AddressFromBytes(raw []byte) (Address, error) {
	var a Address
	if len(raw) != AddressLength {
		return a, dErrors.Newf(dErrors.CodeInvalidInput, "address must be %d bytes, got %d", AddressLength, len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// MustParseAddress is ParseAddress for constants and tests.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

// Bytes returns a copy of the raw address.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLength)
	copy(b, a[:])
	return b
}

// IsZero reports whether the address is all zeroes (the unset value).
func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// derivationDomain separates derived addresses from any other blake2b use.
const derivationDomain = "rwagate/derived-address/v1"

// Derive computes the deterministic address owned by program for (label, inputs).
//
// Every component is length-prefixed, so distinct (label, inputs) tuples never
// hash the same preimage. The result depends only on its arguments.
func Derive(program Address, label string, inputs ...[]byte) Address {
	h, _ := blake2b.New256(nil)
	writeChunk := func(b []byte) {
		var n [4]byte
		binary.LittleEndian.PutUint32(n[:], uint32(len(b)))
		h.Write(n[:])
		h.Write(b)
	}
	writeChunk([]byte(derivationDomain))
	writeChunk(program[:])
	writeChunk([]byte(label))
	for _, in := range inputs {
		writeChunk(in)
	}
	var out Address
	copy(out[:], h.Sum(nil))
	return out
}
