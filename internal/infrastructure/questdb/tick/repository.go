package tick

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/matyusmilan/xm-forex/pkg/questdb"
)

// Repository represents the repository for the tick archive.
type Repository struct {
	client questdb.QuestDBClient
}

// NewRepository creates a new tick repository.
func NewRepository(client questdb.QuestDBClient) *Repository {
	return &Repository{
		client: client,
	}
}

// Store stores a single tick.
func (r *Repository) Store(ctx context.Context, tick *Tick) error {
	query := `INSERT INTO ticks (timestamp, pair, bid, ask)
			  VALUES ($1, $2, $3, $4)`

	err := r.client.Exec(ctx, query,
		tick.Timestamp, tick.Pair, tick.Bid, tick.Ask)

	if err != nil {
		return fmt.Errorf("failed to store tick: %w", err)
	}

	return nil
}

// StoreBatch stores a batch of ticks.
func (r *Repository) StoreBatch(ctx context.Context, ticks []*Tick) error {
	if len(ticks) == 0 {
		return nil
	}

	// Use CopyFrom for better performance with large batches
	_, err := r.client.CopyFrom(
		ctx,
		pgx.Identifier{"ticks"},
		[]string{"timestamp", "pair", "bid", "ask"},
		pgx.CopyFromSlice(len(ticks), func(i int) ([]any, error) {
			tick := ticks[i]
			return []any{
				tick.Timestamp,
				tick.Pair,
				tick.Bid,
				tick.Ask,
			}, nil
		}),
	)

	if err != nil {
		return fmt.Errorf("failed to copy ticks: %w", err)
	}

	return nil
}

// GetByFilter retrieves archived ticks by filter, newest first.
func (r *Repository) GetByFilter(ctx context.Context, filter Filter) ([]*Tick, error) {
	query := "SELECT timestamp, pair, bid, ask FROM ticks WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.Pair != "" {
		query += fmt.Sprintf(" AND pair = $%d", argIndex)
		args = append(args, filter.Pair)
		argIndex++
	}

	if filter.From != nil {
		query += fmt.Sprintf(" AND timestamp >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND timestamp <= $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}

	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
	}

	rows, err := r.client.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticks: %w", err)
	}
	defer rows.Close()

	var ticks []*Tick
	for rows.Next() {
		tick := &Tick{}
		err := rows.Scan(&tick.Timestamp, &tick.Pair, &tick.Bid, &tick.Ask)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tick: %w", err)
		}
		ticks = append(ticks, tick)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ticks, nil
}

// GetLatestByPair retrieves the most recent archived tick for a pair.
func (r *Repository) GetLatestByPair(ctx context.Context, pair string) (*Tick, error) {
	query := `SELECT timestamp, pair, bid, ask
			  FROM ticks
			  WHERE pair = $1
			  ORDER BY timestamp DESC
			  LIMIT 1`

	tick := &Tick{}
	err := r.client.QueryRow(ctx, query, pair).Scan(
		&tick.Timestamp, &tick.Pair, &tick.Bid, &tick.Ask)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest tick: %w", err)
	}

	return tick, nil
}
