package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"TradeStage/internal/domain/models"
	"TradeStage/internal/domain/repository"
)

// ClickHouseSignalStore implements SignalStore for ClickHouse. Balances and
// prices are stored as strings to keep the fixed-point values exact.
type ClickHouseSignalStore struct {
	db               *sql.DB
	transitionsTable string
	signalsTable     string
}

// NewClickHouseSignalStore creates ClickHouse-backed signal storage.
func NewClickHouseSignalStore(db *sql.DB, transitionsTable, signalsTable string) repository.SignalStore {
	return &ClickHouseSignalStore{db: db, transitionsTable: transitionsTable, signalsTable: signalsTable}
}

func (s *ClickHouseSignalStore) Init(ctx context.Context) error {
	stmts := make([]string, 0, 3)
	if db, _, ok := strings.Cut(s.transitionsTable, "."); ok {
		stmts = append(stmts, "CREATE DATABASE IF NOT EXISTS "+db)
	}
	stmts = append(stmts,
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (account_id String, ts DateTime, prev_balance String, curr_balance String, prev_stage String, curr_stage String, transition String) ENGINE=MergeTree ORDER BY (account_id, ts)", s.transitionsTable),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (symbol String, ts DateTime, entry_price String, take_profit String, stop_loss String, position_size String, leverage Int32, margin_type String, confidence String, stage String) ENGINE=MergeTree ORDER BY (symbol, ts)", s.signalsTable),
	)
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *ClickHouseSignalStore) StoreTransition(ctx context.Context, rep models.TransitionReport) error {
	q := fmt.Sprintf(
		"INSERT INTO %s (account_id, ts, prev_balance, curr_balance, prev_stage, curr_stage, transition) VALUES (?, ?, ?, ?, ?, ?, ?)",
		s.transitionsTable)
	_, err := s.db.ExecContext(ctx, q,
		rep.AccountID,
		rep.Timestamp,
		rep.PreviousBalance.String(),
		rep.CurrentBalance.String(),
		string(rep.PreviousStage),
		string(rep.CurrentStage),
		string(rep.Transition),
	)
	if err != nil {
		return fmt.Errorf("store transition: %w", err)
	}
	return nil
}

func (s *ClickHouseSignalStore) StoreSignals(ctx context.Context, signals []models.TradingSignal) error {
	if len(signals) == 0 {
		return nil
	}

	values := make([]string, 0, len(signals))
	args := make([]interface{}, 0, len(signals)*10)
	for _, sig := range signals {
		if sig.Symbol == "" {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			sig.Symbol,
			sig.CreatedAt,
			sig.EntryPrice.String(),
			sig.TakeProfit.String(),
			sig.StopLoss.String(),
			sig.PositionSize.String(),
			sig.Leverage,
			string(sig.MarginType),
			sig.Confidence.String(),
			string(sig.Stage),
		)
	}
	if len(values) == 0 {
		return nil
	}

	q := fmt.Sprintf(
		"INSERT INTO %s (symbol, ts, entry_price, take_profit, stop_loss, position_size, leverage, margin_type, confidence, stage) VALUES %s",
		s.signalsTable, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("store signals: %w", err)
	}
	return nil
}

func (s *ClickHouseSignalStore) QueryTransitions(ctx context.Context, accountID string, from, to time.Time, limit int) ([]models.TransitionReport, error) {
	q := fmt.Sprintf(
		"SELECT account_id, ts, prev_balance, curr_balance, prev_stage, curr_stage, transition FROM %s WHERE account_id = ? AND ts >= ? AND ts <= ? ORDER BY ts DESC LIMIT ?",
		s.transitionsTable)
	rows, err := s.db.QueryContext(ctx, q, accountID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()

	var out []models.TransitionReport
	for rows.Next() {
		var (
			rep                  models.TransitionReport
			prevBal, currBal     string
			prevStage, currStage string
			transition           string
		)
		if err := rows.Scan(&rep.AccountID, &rep.Timestamp, &prevBal, &currBal, &prevStage, &currStage, &transition); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		if rep.PreviousBalance, err = decimal.NewFromString(prevBal); err != nil {
			return nil, fmt.Errorf("parse prev balance %q: %w", prevBal, err)
		}
		if rep.CurrentBalance, err = decimal.NewFromString(currBal); err != nil {
			return nil, fmt.Errorf("parse curr balance %q: %w", currBal, err)
		}
		rep.PreviousStage = models.AccountStage(prevStage)
		rep.CurrentStage = models.AccountStage(currStage)
		rep.Transition = models.StageTransition(transition)
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (s *ClickHouseSignalStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseSignalStore) Close() error {
	return nil // Managed by pkg
}
