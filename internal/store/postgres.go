package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/opsatya/ved/internal/contracts"
)

// Schema creates the table read by PostgresLoader
const Schema = `
CREATE TABLE IF NOT EXISTS stock_financials (
	id             BIGSERIAL PRIMARY KEY,
	name           TEXT NOT NULL UNIQUE,
	ticker         TEXT,
	verdict        TEXT,
	years          JSONB NOT NULL DEFAULT '{}'::jsonb,
	insider_trades JSONB NOT NULL DEFAULT '[]'::jsonb,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// DBTX is the subset of pgxpool.Pool used here
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresLoader reads stock records from stock_financials
// ⭐ SSOT: the only SQL touching stock records
type PostgresLoader struct {
	db DBTX
}

// NewPostgresLoader creates a loader over a pool
func NewPostgresLoader(db DBTX) *PostgresLoader {
	return &PostgresLoader{db: db}
}

// EnsureSchema creates the table when missing
func (l *PostgresLoader) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create stock_financials: %w", err)
	}
	return nil
}

// Load implements contracts.StockLoader in insertion order
func (l *PostgresLoader) Load(ctx context.Context) ([]contracts.Stock, error) {
	query := `
		SELECT name, COALESCE(ticker, ''), COALESCE(verdict, ''), years, insider_trades
		FROM stock_financials
		ORDER BY id
	`

	rows, err := l.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query stock_financials: %w", err)
	}
	defer rows.Close()

	var stocks []contracts.Stock
	for rows.Next() {
		var (
			s             contracts.Stock
			years, trades []byte
		)
		if err := rows.Scan(&s.Name, &s.Ticker, &s.Verdict, &years, &trades); err != nil {
			return nil, fmt.Errorf("scan stock row: %w", err)
		}
		if err := json.Unmarshal(years, &s.Years); err != nil {
			return nil, fmt.Errorf("decode years for %s: %w", s.Name, err)
		}
		if err := json.Unmarshal(trades, &s.InsiderTrades); err != nil {
			return nil, fmt.Errorf("decode insider trades for %s: %w", s.Name, err)
		}
		stocks = append(stocks, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock rows: %w", err)
	}

	return stocks, nil
}

// Save upserts one stock record by name
func (l *PostgresLoader) Save(ctx context.Context, s contracts.Stock) error {
	years, err := json.Marshal(s.Years)
	if err != nil {
		return fmt.Errorf("encode years: %w", err)
	}
	trades := s.InsiderTrades
	if trades == nil {
		trades = []contracts.Trade{}
	}
	tradesJSON, err := json.Marshal(trades)
	if err != nil {
		return fmt.Errorf("encode insider trades: %w", err)
	}

	query := `
		INSERT INTO stock_financials (name, ticker, verdict, years, insider_trades)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			ticker = EXCLUDED.ticker,
			verdict = EXCLUDED.verdict,
			years = EXCLUDED.years,
			insider_trades = EXCLUDED.insider_trades,
			updated_at = now()
	`

	_, err = l.db.Exec(ctx, query, s.Name, s.Ticker, s.Verdict, string(years), string(tradesJSON))
	return err
}

// SaveBatch upserts records and returns how many were written
func (l *PostgresLoader) SaveBatch(ctx context.Context, stocks []contracts.Stock) (int, error) {
	for i, s := range stocks {
		if err := l.Save(ctx, s); err != nil {
			return i, fmt.Errorf("save %s: %w", s.Name, err)
		}
	}
	return len(stocks), nil
}
