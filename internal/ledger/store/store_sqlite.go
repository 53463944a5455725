package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"rwagate/internal/ledger"
	"rwagate/internal/ledger/store/migrations"
	"rwagate/internal/platform/migrate"
	"rwagate/pkg/domain"
	"rwagate/pkg/platform/sentinel"
)

// SQLiteStore persists accounts in a single SQLite file. Transactions begin
// IMMEDIATE, so every call holds the database write lock for its duration.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) +
		"?_txlock=immediate&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate.Apply(ctx, db, migrate.SQLite, migrations.FS, "sqlite"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Atomic(ctx context.Context, addrs []domain.Address, fn func(tx ledger.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	locked, err := s.loadSet(ctx, tx, addrs)
	if err != nil {
		return err
	}
	staged := ledger.NewStagedTx(prefetched(locked, addrs, func(ctx context.Context, addr domain.Address) (*ledger.Account, error) {
		return s.loadWith(ctx, tx, addr)
	}))
	if err := fn(staged); err != nil {
		return err
	}

	now := time.Now().UTC().UnixMilli()
	for _, w := range staged.Writes() {
		if w.Created {
			err = s.insert(ctx, tx, w.Account, now)
		} else {
			err = s.update(ctx, tx, w.Account, now)
		}
		if err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger tx: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, addr domain.Address) (*ledger.Account, error) {
	return s.loadWith(ctx, s.db, addr)
}

type sqliteQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore) loadWith(ctx context.Context, q sqliteQuerier, addr domain.Address) (*ledger.Account, error) {
	row := q.QueryRowContext(ctx,
		`SELECT address, owner, lamports, data FROM ledger_accounts WHERE address = ?`,
		addr.String(),
	)
	acct, err := scanAccount(row)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return acct, nil
}

func (s *SQLiteStore) loadSet(ctx context.Context, tx *sql.Tx, addrs []domain.Address) (map[domain.Address]*ledger.Account, error) {
	out := make(map[domain.Address]*ledger.Account, len(addrs))
	if len(addrs) == 0 {
		return out, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(addrs)), ",")
	args := make([]any, len(addrs))
	for i, a := range addrs {
		args[i] = a.String()
	}
	rows, err := tx.QueryContext(ctx,
		`SELECT address, owner, lamports, data FROM ledger_accounts WHERE address IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out[acct.Address] = acct
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) insert(ctx context.Context, tx *sql.Tx, acct *ledger.Account, now int64) error {
	lamports, err := sqlLamports(acct.Lamports)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO ledger_accounts (address, owner, lamports, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		acct.Address.String(), acct.Owner.String(), lamports, acct.Data, now, now,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return sentinel.ErrAccountInUse
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *SQLiteStore) update(ctx context.Context, tx *sql.Tx, acct *ledger.Account, now int64) error {
	lamports, err := sqlLamports(acct.Lamports)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE ledger_accounts SET owner = ?, lamports = ?, data = ?, updated_at = ? WHERE address = ?`,
		acct.Owner.String(), lamports, acct.Data, now, acct.Address.String(),
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isConstraintViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
