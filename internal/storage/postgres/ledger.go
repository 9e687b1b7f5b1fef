package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/CodeRunne/burgershop/internal/domain/order"
	"github.com/CodeRunne/burgershop/internal/ledger"
)

var _ ledger.Ledger = (*LedgerRepository)(nil)

// LedgerRepository implements ledger.Ledger on a single orders table. The
// id primary key doubles as insertion order, collapsing the append log and
// the lookup index into one view without weakening either contract: ids are
// dense counts, so ordering by id is creation order.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository returns a LedgerRepository using the given pool.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

func (r *LedgerRepository) NextID(ctx context.Context) (uint32, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "count orders")
	}
	return uint32(count), nil
}

func (r *LedgerRepository) Insert(ctx context.Context, id uint32, o order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return errors.Wrap(err, "marshal order items")
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO orders (id, customer, items, total_price, paid) VALUES ($1, $2, $3, $4, $5)`,
		int64(id), string(o.Customer), itemsJSON, decimal.NewFromUint64(o.TotalPrice), o.Paid,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return &ledger.DuplicateIDError{ID: id}
		}
		return errors.Wrapf(err, "insert order %d", id)
	}
	return nil
}

func (r *LedgerRepository) Get(ctx context.Context, id uint32) (order.Order, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, customer, items, total_price, paid FROM orders WHERE id = $1`,
		int64(id),
	)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, ledger.ErrNotFound
		}
		return order.Order{}, errors.Wrapf(err, "get order %d", id)
	}
	return o, nil
}

func (r *LedgerRepository) List(ctx context.Context) ([]ledger.Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, customer, items, total_price, paid FROM orders ORDER BY id`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		entries = append(entries, ledger.Entry{ID: o.ID, Order: o})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate orders")
	}
	return entries, nil
}

func scanOrder(row pgx.Row) (order.Order, error) {
	var (
		id        int64
		customer  string
		itemsJSON []byte
		total     decimal.Decimal
		paid      bool
	)
	if err := row.Scan(&id, &customer, &itemsJSON, &total, &paid); err != nil {
		return order.Order{}, err
	}

	var items []order.LineItem
	if err := json.Unmarshal(itemsJSON, &items); err != nil {
		return order.Order{}, errors.Wrap(err, "unmarshal order items")
	}

	return order.Order{
		ID:         uint32(id),
		Items:      items,
		Customer:   order.Identity(customer),
		TotalPrice: total.BigInt().Uint64(),
		Paid:       paid,
	}, nil
}
