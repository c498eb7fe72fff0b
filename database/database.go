// Package database reads sales history from PostgreSQL.
package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"bakery/models"
)

// DefaultSalesQuery flattens the point-of-sale schema into one row per sold
// line. $1 filters by merchant and $2 by shop; empty strings disable a filter.
const DefaultSalesQuery = `
	SELECT s.sale_date AS date,
	       si.item_name AS item,
	       si.quantity_sold AS quantity,
	       si.subtotal AS revenue,
	       si.quantity_sold * COALESCE(si.original_price_at_sale, 0) AS cogs
	FROM sales s
	JOIN sale_items si ON s.id = si.sale_id
	WHERE ($1::text = '' OR s.merchant_id::text = $1::text)
	  AND ($2::text = '' OR s.shop_id::text = $2::text)
	ORDER BY s.sale_date
`

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Connect sets up the database connection pool and checks it with a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return pool, nil
}

// LoadSalesTable runs query and returns its result as an untyped table, using
// the result column names as headers.
func LoadSalesTable(ctx context.Context, db Querier, query string, args ...any) (*models.RawTable, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	table := &models.RawTable{Source: "database"}
	for _, fd := range rows.FieldDescriptions() {
		table.Headers = append(table.Headers, fd.Name)
	}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan sales row: %w", err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = cellString(v)
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read sales rows: %w", err)
	}
	if len(table.Rows) == 0 {
		return nil, &models.EmptyInputError{Source: table.Source}
	}
	return table, nil
}

// cellString renders a decoded column value the way a CSV export would.
func cellString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format(time.RFC3339)
	case pgtype.Numeric:
		if !v.Valid {
			return ""
		}
		f, err := v.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}
