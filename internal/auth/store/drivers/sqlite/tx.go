package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/driftlock/authgate/internal/auth/store"
)

// txStore is a transaction-scoped Store. All repo calls run inside the
// wrapped *sql.Tx until Commit or Rollback.
type txStore struct {
	tx   *sql.Tx
	done bool
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Users() store.Users { return &usersRepo{q: t.tx} }

func (t *txStore) ApplyMigrations() error {
	return errors.New("sqlite: cannot run migrations inside a transaction")
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, errors.New("sqlite: nested transactions are not supported")
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	// Already inside a transaction; just run fn against it.
	return fn(t)
}

func (t *txStore) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Commit()
}

func (t *txStore) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Rollback()
}

func (t *txStore) Close() error { return t.Rollback() }

func (t *txStore) Ping(ctx context.Context) error { return nil }
