package ledger

import (
	"rwagate/pkg/domain"
)

// SystemProgram owns plain lamport-holding accounts (payers, faucet recipients).
var SystemProgram = domain.Address{}

// Account is the runtime's unit of storage.
type Account struct {
	Address  domain.Address
	Owner    domain.Address
	Lamports uint64
	Data     []byte
}

// Clone returns a deep copy so staged writes never alias committed state.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	c.Data = append([]byte(nil), a.Data...)
	return &c
}

// AccountMeta describes one account passed to an instruction.
type AccountMeta struct {
	Address    domain.Address `json:"address"`
	IsSigner   bool           `json:"is_signer"`
	IsWritable bool           `json:"is_writable"`
}

// Instruction is one call into a program: the accounts it may touch and an
// opaque data payload the program decodes.
type Instruction struct {
	ProgramID domain.Address
	Accounts  []AccountMeta
	Data      []byte
}

// ReadOnly builds a non-signer, non-writable meta.
func ReadOnly(addr domain.Address) AccountMeta {
	return AccountMeta{Address: addr}
}

// Writable builds a writable, non-signer meta.
func Writable(addr domain.Address) AccountMeta {
	return AccountMeta{Address: addr, IsWritable: true}
}

// Signer builds a signer meta; writable is set when the signer pays for allocations.
func Signer(addr domain.Address, writable bool) AccountMeta {
	return AccountMeta{Address: addr, IsSigner: true, IsWritable: writable}
}
