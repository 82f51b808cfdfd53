// Package pgsql implements the repository ports on PostgreSQL through pgx.
package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/partsledger/internal/apperrors"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the query surface shared by the pool and a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type rowScanner interface {
	Scan(dest ...any) error
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.BeginWith(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
}

// BeginWith starts a transaction with explicit options.
func (r *BaseRepository) BeginWith(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	tx, err := r.Pool.BeginTx(ctx, opts)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) && !errors.Is(err, sql.ErrTxDone) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// UnitOfWork runs repository work inside pgx transactions.
type UnitOfWork struct {
	BaseRepository
}

// NewUnitOfWork creates a unit of work over pool.
func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UnitOfWork = (*UnitOfWork)(nil)

// snapshotTxOptions gives every statement of a View the same snapshot.
var snapshotTxOptions = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// WithinTx commits when fn returns nil and rolls back otherwise, including on panic.
func (u *UnitOfWork) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := u.Begin(ctx)
	if err != nil {
		return err
	}
	return u.run(ctx, tx, fn)
}

// View runs fn in a read-only REPEATABLE READ transaction, so multi-statement
// reads such as reconciliation compare rows from one snapshot.
func (u *UnitOfWork) View(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := u.BeginWith(ctx, snapshotTxOptions)
	if err != nil {
		return err
	}
	return u.run(ctx, tx, fn)
}

func (u *UnitOfWork) run(ctx context.Context, tx pgx.Tx, fn portsrepo.TxFunc) error {
	defer func() {
		if p := recover(); p != nil {
			_ = u.Rollback(context.WithoutCancel(ctx), tx)
			panic(p)
		}
	}()

	if err := fn(ctx, NewStore(tx)); err != nil {
		if rbErr := u.Rollback(context.WithoutCancel(ctx), tx); rbErr != nil {
			slog.ErrorContext(ctx, "Failed to roll back transaction", slog.String("error", rbErr.Error()))
		}
		return err
	}
	return u.Commit(ctx, tx)
}

// Store binds every repository to one DBTX.
type Store struct {
	db DBTX
}

// NewStore creates a Store over db, which may be a pool or a transaction.
func NewStore(db DBTX) *Store {
	return &Store{db: db}
}

var _ portsrepo.Store = (*Store)(nil)

func (s *Store) Ledgers() portsrepo.LedgerRepositoryFacade      { return &ledgerRepository{db: s.db} }
func (s *Store) Vouchers() portsrepo.VoucherRepositoryFacade    { return &voucherRepository{db: s.db} }
func (s *Store) Stock() portsrepo.StockRepositoryFacade         { return &stockRepository{db: s.db} }
func (s *Store) Documents() portsrepo.DocumentRepositoryFacade  { return &documentRepository{db: s.db} }
func (s *Store) Parties() portsrepo.PartyRepositoryFacade       { return &partyRepository{db: s.db} }
func (s *Store) Vehicles() portsrepo.VehicleRepositoryFacade    { return &vehicleRepository{db: s.db} }
func (s *Store) Audit() portsrepo.AuditRepositoryFacade         { return &auditRepository{db: s.db} }
func (s *Store) Sequences() portsrepo.SequenceRepository        { return &sequenceRepository{db: s.db} }
func (s *Store) Categories() portsrepo.CategoryRepositoryFacade { return &categoryRepository{db: s.db} }

// Postgres error codes mapped to domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// mapPgError converts constraint violations to the matching domain error and wraps everything else.
func mapPgError(err error, action string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrDuplicate, action, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrNotFound, action, pgErr.ConstraintName)
		case pgCheckViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, action, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// whereBuilder collects AND-ed conditions with positional arguments.
type whereBuilder struct {
	conds []string
	args  []any
}

// add appends cond, replacing each ? with the next placeholder.
func (w *whereBuilder) add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

// arg registers a value and returns its placeholder.
func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereBuilder) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// likePattern wraps a search term for ILIKE.
func likePattern(term string) string {
	return "%" + term + "%"
}
