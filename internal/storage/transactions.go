package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DevTechCode/rachunek-bankowy/internal/common"
	"github.com/DevTechCode/rachunek-bankowy/internal/model"
)

// SaveTransactions inserts transactions into the ledger. Rows whose dedup
// hash is already stored are ignored, so ingesting overlapping statements
// is safe. Returns the number of newly inserted rows.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, txs []*model.Transaction) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if len(txs) == 0 {
		return 0, nil
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = dbTx.Rollback() }()

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			dedup_hash, operation_date, value_date, type,
			amount_minor, currency, ending_balance_minor, category,
			counterparty_fingerprint, counterparty_name,
			split_payment, tax_form, payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	var inserted int64
	for _, tx := range txs {
		payload, marshalErr := json.Marshal(tx)
		if marshalErr != nil {
			return 0, fmt.Errorf("failed to marshal transaction %s: %w", tx.DedupHash, marshalErr)
		}

		var fingerprint, name, taxForm string
		if tx.Counterparty != nil {
			fingerprint = tx.Counterparty.Fingerprint
			name = tx.Counterparty.Name
		}
		if tx.VatInfo != nil {
			taxForm = tx.VatInfo.TaxForm
		}

		res, execErr := stmt.ExecContext(ctx,
			tx.DedupHash,
			model.DateKey(tx.OperationDate),
			model.DateKey(tx.ValueDate),
			tx.Type,
			tx.Amount.Minor(),
			tx.Amount.Currency(),
			tx.EndingBalance.Minor(),
			string(tx.Category),
			fingerprint,
			name,
			tx.SplitPayment,
			taxForm,
			string(payload),
		)
		if execErr != nil {
			return 0, fmt.Errorf("failed to insert transaction %s: %w", tx.DedupHash, execErr)
		}
		n, affectedErr := res.RowsAffected()
		if affectedErr != nil {
			return 0, fmt.Errorf("failed to read rows affected: %w", affectedErr)
		}
		inserted += n
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transactions: %w", err)
	}
	return inserted, nil
}

// ListTransactions returns ledger rows ordered by operation date, value
// date and hash. The from/to bounds are inclusive and optional.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, from, to *time.Time) ([]*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT payload FROM transactions`
	var args []any
	var conds []string
	if from != nil {
		conds = append(conds, "operation_date >= ?")
		args = append(args, model.DateKey(*from))
	}
	if to != nil {
		conds = append(conds, "operation_date <= ?")
		args = append(args, model.DateKey(*to))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY operation_date, value_date, dedup_hash"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Transaction
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		var tx model.Transaction
		if err := json.Unmarshal([]byte(payload), &tx); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transaction payload: %w", err)
		}
		out = append(out, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return out, nil
}

// GetTransaction fetches one ledger row by dedup hash.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, dedupHash string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM transactions WHERE dedup_hash = ?`, dedupHash).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction %s: %w", dedupHash, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}

	var tx model.Transaction
	if err := json.Unmarshal([]byte(payload), &tx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction payload: %w", err)
	}
	return &tx, nil
}

// CountTransactions returns the total number of ledger rows.
func (s *SQLiteStorage) CountTransactions(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

// ImportRecord is one ingest run.
type ImportRecord struct {
	Source    string
	Format    string
	Total     int
	Inserted  int64
	RowErrors int
}

// RecordImport logs one ingest run in the imports table.
func (s *SQLiteStorage) RecordImport(ctx context.Context, rec ImportRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO imports (source, format, total, inserted, row_errors) VALUES (?, ?, ?, ?, ?)`,
		rec.Source, rec.Format, rec.Total, rec.Inserted, rec.RowErrors)
	if err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}
	return nil
}
