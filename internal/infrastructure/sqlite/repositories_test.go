package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-qty-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-qty-api/internal/infrastructure/repotest"
	"github.com/jhoicas/warehouse-qty-api/internal/infrastructure/sqlite"
)

func TestLedgerContract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) (repository.TxRepos, repository.TxRunner) {
		db, err := sqlite.Open(context.Background(), ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		return sqlite.NewRepos(db), sqlite.NewTxRunner(db)
	})
}

func TestOpen_EsquemaIdempotente(t *testing.T) {
	path := t.TempDir() + "/ledger.db"
	db, err := sqlite.Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = sqlite.Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}
