package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"rwagate/internal/ledger"
	"rwagate/pkg/domain"
	"rwagate/pkg/platform/sentinel"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*ledger.Account, error) {
	var (
		address, owner string
		lamports       int64
		data           []byte
	)
	if err := row.Scan(&address, &owner, &lamports, &data); err != nil {
		return nil, err
	}
	addr, err := domain.ParseAddress(address)
	if err != nil {
		return nil, fmt.Errorf("stored address %q: %w", address, err)
	}
	ownerAddr, err := domain.ParseAddress(owner)
	if err != nil {
		return nil, fmt.Errorf("stored owner %q: %w", owner, err)
	}
	if lamports < 0 {
		return nil, fmt.Errorf("stored lamports for %s are negative", address)
	}
	return &ledger.Account{
		Address:  addr,
		Owner:    ownerAddr,
		Lamports: uint64(lamports),
		Data:     append([]byte(nil), data...),
	}, nil
}

// sqlLamports converts a balance to the signed column type.
func sqlLamports(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("lamports %d exceed storable range", v)
	}
	return int64(v), nil
}

// prefetched serves reads from rows loaded at the start of a transaction and
// falls back to fallback for addresses outside the locked set.
func prefetched(locked map[domain.Address]*ledger.Account, lockSet []domain.Address,
	fallback func(ctx context.Context, addr domain.Address) (*ledger.Account, error),
) func(ctx context.Context, addr domain.Address) (*ledger.Account, error) {
	inSet := make(map[domain.Address]struct{}, len(lockSet))
	for _, a := range lockSet {
		inSet[a] = struct{}{}
	}
	return func(ctx context.Context, addr domain.Address) (*ledger.Account, error) {
		if acct, ok := locked[addr]; ok {
			return acct.Clone(), nil
		}
		if _, ok := inSet[addr]; ok {
			return nil, sentinel.ErrNotFound
		}
		return fallback(ctx, addr)
	}
}

func notFoundOnNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	return err
}

func addressStrings(addrs []domain.Address) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.String()
	}
	return out
}
