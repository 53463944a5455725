package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"rwagate/internal/ledger/store"
)

type SQLiteStoreSuite struct {
	conformanceSuite
	db *store.SQLiteStore
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, new(SQLiteStoreSuite))
}

func (s *SQLiteStoreSuite) SetupTest() {
	path := filepath.Join(s.T().TempDir(), "ledger.db")
	db, err := store.OpenSQLite(context.Background(), path)
	s.Require().NoError(err)
	s.db = db
	s.store = db
	s.concurrency = 8
}

func (s *SQLiteStoreSuite) TearDownTest() {
	s.Require().NoError(s.db.Close())
}

func (s *SQLiteStoreSuite) TestReopenKeepsAccountsAndSchema() {
	path := filepath.Join(s.T().TempDir(), "reopen.db")
	first, err := store.OpenSQLite(context.Background(), path)
	s.Require().NoError(err)
	s.store = first
	s.create(acctA, 3, []byte("abc"))
	s.Require().NoError(first.Close())

	second, err := store.OpenSQLite(context.Background(), path)
	s.Require().NoError(err)
	defer second.Close()

	got, err := second.Load(context.Background(), acctA)
	s.Require().NoError(err)
	s.Equal([]byte("abc"), got.Data)
}
