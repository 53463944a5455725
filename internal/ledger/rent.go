package ledger

// AccountStorageOverhead is charged on top of every account's data length.
const AccountStorageOverhead = 128

// Rent prices account storage. Accounts are always funded at the exempt minimum.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionYears      float64
}

// DefaultRent mirrors the public cluster defaults.
var DefaultRent = Rent{LamportsPerByteYear: 3480, ExemptionYears: 2.0}

// MinimumBalance returns the lamports an account of size data bytes must hold.
func (r Rent) MinimumBalance(size int) uint64 {
	bytes := uint64(size) + AccountStorageOverhead
	return uint64(float64(bytes*r.LamportsPerByteYear) * r.ExemptionYears)
}
