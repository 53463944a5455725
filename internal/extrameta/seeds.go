package extrameta

import (
	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
)

// Seed encodings inside a descriptor's 32-byte address config.
const (
	seedLiteral         uint8 = 1
	seedInstructionData uint8 = 2
	seedAccountKey      uint8 = 3
	seedAccountData     uint8 = 4
)

// Seed is one component of a derived address.
type Seed interface {
	packedLen() int
	pack(dst []byte)
}

// Literal is a fixed byte string.
type Literal []byte

// InstructionData takes Length bytes at Index of the execute instruction data.
type InstructionData struct{ Index, Length uint8 }

// AccountKey takes the address of the account at Index.
type AccountKey struct{ Index uint8 }

// AccountData takes Length bytes at DataIndex of the data of the account at AccountIndex.
type AccountData struct{ AccountIndex, DataIndex, Length uint8 }

func (s Literal) packedLen() int { return 2 + len(s) }
func (s Literal) pack(dst []byte) {
	dst[0], dst[1] = seedLiteral, uint8(len(s))
	copy(dst[2:], s)
}

func (s InstructionData) packedLen() int { return 3 }
func (s InstructionData) pack(dst []byte) {
	dst[0], dst[1], dst[2] = seedInstructionData, s.Index, s.Length
}

func (s AccountKey) packedLen() int { return 2 }
func (s AccountKey) pack(dst []byte) {
	dst[0], dst[1] = seedAccountKey, s.Index
}

func (s AccountData) packedLen() int { return 4 }
func (s AccountData) pack(dst []byte) {
	dst[0], dst[1], dst[2], dst[3] = seedAccountData, s.AccountIndex, s.DataIndex, s.Length
}

// PackSeeds encodes seeds into an address config. Unused trailing bytes are zero.
func PackSeeds(seeds []Seed) ([domain.AddressLength]byte, error) {
	var cfg [domain.AddressLength]byte
	if len(seeds) == 0 {
		return cfg, dErrors.New(dErrors.CodeValidation, "at least one seed is required")
	}
	off := 0
	for _, s := range seeds {
		if lit, ok := s.(Literal); ok && (len(lit) == 0 || len(lit) > 255) {
			return cfg, dErrors.New(dErrors.CodeValidation, "literal seed must be 1-255 bytes")
		}
		n := s.packedLen()
		if off+n > len(cfg) {
			return cfg, dErrors.New(dErrors.CodeValidation, "seeds do not fit in the address config")
		}
		s.pack(cfg[off : off+n])
		off += n
	}
	return cfg, nil
}

// UnpackSeeds decodes an address config, stopping at the first zero byte.
func UnpackSeeds(cfg [domain.AddressLength]byte) ([]Seed, error) {
	var seeds []Seed
	for off := 0; off < len(cfg) && cfg[off] != 0; {
		need := func(n int) error {
			if off+n > len(cfg) {
				return dErrors.New(dErrors.CodeInvalidAccount, "seed config is truncated")
			}
			return nil
		}
		switch cfg[off] {
		case seedLiteral:
			if err := need(2); err != nil {
				return nil, err
			}
			n := int(cfg[off+1])
			if err := need(2 + n); err != nil {
				return nil, err
			}
			seeds = append(seeds, Literal(append([]byte(nil), cfg[off+2:off+2+n]...)))
			off += 2 + n
		case seedInstructionData:
			if err := need(3); err != nil {
				return nil, err
			}
			seeds = append(seeds, InstructionData{Index: cfg[off+1], Length: cfg[off+2]})
			off += 3
		case seedAccountKey:
			if err := need(2); err != nil {
				return nil, err
			}
			seeds = append(seeds, AccountKey{Index: cfg[off+1]})
			off += 2
		case seedAccountData:
			if err := need(4); err != nil {
				return nil, err
			}
			seeds = append(seeds, AccountData{AccountIndex: cfg[off+1], DataIndex: cfg[off+2], Length: cfg[off+3]})
			off += 4
		default:
			return nil, dErrors.Newf(dErrors.CodeInvalidAccount, "unknown seed kind %d", cfg[off])
		}
	}
	return seeds, nil
}

// DeriveFromSeeds maps a seed list onto domain.Derive: the first seed is the
// label and the rest are inputs.
func DeriveFromSeeds(program domain.Address, seeds [][]byte) domain.Address {
	if len(seeds) == 0 {
		return domain.Derive(program, "")
	}
	return domain.Derive(program, string(seeds[0]), seeds[1:]...)
}
