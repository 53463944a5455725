package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/lib/pq"

	"rwagate/internal/ledger"
	"rwagate/internal/ledger/store/migrations"
	"rwagate/internal/platform/migrate"
	"rwagate/pkg/domain"
	"rwagate/pkg/platform/sentinel"
)

const pgUniqueViolation = "23505"

// PostgresStore persists accounts in PostgreSQL. Each call runs in one
// transaction that row-locks its existing accounts with SELECT ... FOR UPDATE;
// racing allocations of the same address are resolved by the primary key.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open database. Call Migrate before first use.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres connects with the pgx driver and applies the ledger schema.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := NewPostgresStore(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if err := migrate.Apply(ctx, s.db, migrate.Postgres, migrations.FS, "postgres"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (s *PostgresStore) DB() *sql.DB { return s.db }

func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Atomic(ctx context.Context, addrs []domain.Address, fn func(tx ledger.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	locked, err := s.lockAccounts(ctx, tx, addrs)
	if err != nil {
		return err
	}
	staged := ledger.NewStagedTx(prefetched(locked, addrs, func(ctx context.Context, addr domain.Address) (*ledger.Account, error) {
		return s.loadWith(ctx, tx, addr)
	}))
	if err := fn(staged); err != nil {
		return err
	}

	for _, w := range staged.Writes() {
		if w.Created {
			err = s.insert(ctx, tx, w.Account)
		} else {
			err = s.update(ctx, tx, w.Account)
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

func (s *PostgresStore) Load(ctx context.Context, addr domain.Address) (*ledger.Account, error) {
	return s.loadWith(ctx, s.db, addr)
}

type pgQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) loadWith(ctx context.Context, q pgQuerier, addr domain.Address) (*ledger.Account, error) {
	row := q.QueryRowContext(ctx, `
		SELECT address, owner, lamports, data
		FROM ledger_accounts
		WHERE address = $1
	`, addr.String())
	acct, err := scanAccount(row)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return acct, nil
}

func (s *PostgresStore) lockAccounts(ctx context.Context, tx *sql.Tx, addrs []domain.Address) (map[domain.Address]*ledger.Account, error) {
	out := make(map[domain.Address]*ledger.Account, len(addrs))
	if len(addrs) == 0 {
		return out, nil
	}
	rows, err := tx.QueryContext(ctx, `
		SELECT address, owner, lamports, data
		FROM ledger_accounts
		WHERE address = ANY($1)
		ORDER BY address
		FOR UPDATE
	`, pq.Array(addressStrings(addrs)))
	if err != nil {
		return nil, fmt.Errorf("lock accounts: %w", err)
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

func (s *PostgresStore) insert(ctx context.Context, tx *sql.Tx, acct *ledger.Account) error {
	lamports, err := sqlLamports(acct.Lamports)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO ledger_accounts (address, owner, lamports, data)
		VALUES ($1, $2, $3, $4)
	`, acct.Address.String(), acct.Owner.String(), lamports, acct.Data)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return sentinel.ErrAccountInUse
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *PostgresStore) update(ctx context.Context, tx *sql.Tx, acct *ledger.Account) error {
	lamports, err := sqlLamports(acct.Lamports)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE ledger_accounts
		SET owner = $2, lamports = $3, data = $4, updated_at = now()
		WHERE address = $1
	`, acct.Address.String(), acct.Owner.String(), lamports, acct.Data)
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
