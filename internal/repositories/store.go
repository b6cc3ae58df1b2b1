package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the storage context handed to the checkout services. Repositories
// obtained from the Store passed to a WithTx callback share one transaction.
type Store interface {
	Carts() CartRepository
	Orders() OrderRepository
	Variants() VariantRepository
	WithTx(ctx context.Context, fn func(Store) error) error
}

type store struct {
	db   *sql.DB
	q    DBTX
	inTx bool
}

func NewStore(db *sql.DB) Store {
	return &store{db: db, q: db}
}

func (s *store) Carts() CartRepository {
	return NewCartRepo(s.q)
}

func (s *store) Orders() OrderRepository {
	return NewOrderRepository(s.q)
}

func (s *store) Variants() VariantRepository {
	return NewVariantRepo(s.q)
}

// WithTx runs fn inside a read committed transaction. The transaction is
// rolled back when fn returns an error, panics or ctx is cancelled. Nested
// calls join the outer transaction.
func (s *store) WithTx(ctx context.Context, fn func(Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&store{db: s.db, q: tx, inTx: true}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rbErr))
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
