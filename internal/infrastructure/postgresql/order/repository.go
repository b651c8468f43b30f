package order

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/matyusmilan/xm-forex/pkg/logger"
	"github.com/matyusmilan/xm-forex/pkg/postgresql"
)

var orderColumns = []string{
	"id",
	"client_id",
	"pair",
	"side",
	"kind",
	"quantity",
	"limit_price",
	"status",
	"filled_quantity",
	"last_fill_price",
	"created_at",
	"updated_at",
}

// repository is the repository for archived orders.
type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
}

// NewRepository creates a new repository.
func NewRepository(db postgresql.PostgreSQLClient, logger logger.Interface) *repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts the order row or refreshes its mutable columns. The
// insert wins only for the first event of an order, so created_at keeps
// the value carried by that event.
func (r *repository) Upsert(ctx context.Context, order *Order) error {
	query, args := postgresql.NewInsertBuilder().
		Into("orders").
		Columns(orderColumns...).
		Values(
			order.ID,
			order.ClientID,
			order.Pair,
			order.Side,
			order.Kind,
			order.Quantity,
			order.LimitPrice,
			order.Status,
			order.FilledQuantity,
			order.LastFillPrice,
			order.CreatedAt,
			order.UpdatedAt,
		).
		OnConflict("id").
		OnConflictDoUpdate("status = EXCLUDED.status, filled_quantity = EXCLUDED.filled_quantity, last_fill_price = EXCLUDED.last_fill_price, updated_at = EXCLUDED.updated_at").
		Build()

	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.Debug("Upserted order", logger.Field{
		Key:   "commandTag",
		Value: cmd.String(),
	})

	return nil
}

// GetByID gets an archived order by ID. It returns nil without an error
// when the order has never been archived.
func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	builder := postgresql.NewQueryBuilder().
		Select(orderColumns...).
		From("orders").
		Where("id = ?", id)
	query, args := builder.Build()

	order := &Order{}
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&order.ID,
		&order.ClientID,
		&order.Pair,
		&order.Side,
		&order.Kind,
		&order.Quantity,
		&order.LimitPrice,
		&order.Status,
		&order.FilledQuantity,
		&order.LastFillPrice,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, errors.TracerFromError(err)
	}

	return order, nil
}

// List lists archived orders newest first.
func (r *repository) List(ctx context.Context, filter Filter) ([]*Order, error) {
	builder := postgresql.NewQueryBuilder().
		Select(orderColumns...).
		From("orders")

	if filter.ClientID != "" {
		builder = builder.Where("client_id = ?", filter.ClientID)
	}
	if filter.Pair != "" {
		builder = builder.Where("pair = ?", filter.Pair)
	}
	if filter.Status != "" {
		builder = builder.Where("status = ?", filter.Status)
	}

	builder = builder.OrderBy("created_at", true)

	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
	}

	query, args := builder.Build()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		order := &Order{}
		err := rows.Scan(
			&order.ID,
			&order.ClientID,
			&order.Pair,
			&order.Side,
			&order.Kind,
			&order.Quantity,
			&order.LimitPrice,
			&order.Status,
			&order.FilledQuantity,
			&order.LastFillPrice,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return orders, nil
}
