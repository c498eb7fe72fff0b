package database

import (
	"context"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellString(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, ""},
		{"text", "Croissant", "Croissant"},
		{"bytes", []byte("Scone"), "Scone"},
		{"date", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "2024-03-01"},
		{"timestamp", time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), "2024-03-01T09:30:00Z"},
		{"numeric", pgtype.Numeric{Int: big.NewInt(1250), Exp: -2, Valid: true}, "12.5"},
		{"null numeric", pgtype.Numeric{}, ""},
		{"float", 3.25, "3.25"},
		{"int4", int32(7), "7"},
		{"int8", int64(-3), "-3"},
		{"bool", true, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cellString(tt.value))
		})
	}
}

func TestLoadSalesTable(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("No test database configured - set TEST_DATABASE_URL")
	}
	ctx := context.Background()

	pool, err := Connect(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	query := `SELECT * FROM (VALUES
		('2024-01-01'::date, 'Bread', 3::int, 7.50::numeric, 2.00::numeric),
		('2024-01-02'::date, 'Bread', 4::int, 10.00::numeric, NULL::numeric)
	) AS t(date, item, quantity, revenue, cogs)`

	table, err := LoadSalesTable(ctx, pool, query)
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "item", "quantity", "revenue", "cogs"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"2024-01-01", "Bread", "3", "7.5", "2"}, table.Rows[0])
	assert.Equal(t, "", table.Rows[1][4])
}
