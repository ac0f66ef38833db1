package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/DevTechCode/rachunek-bankowy/internal/chain"
	"github.com/DevTechCode/rachunek-bankowy/internal/cli"
	"github.com/DevTechCode/rachunek-bankowy/internal/common"
	"github.com/DevTechCode/rachunek-bankowy/internal/config"
	"github.com/DevTechCode/rachunek-bankowy/internal/model"
	"github.com/DevTechCode/rachunek-bankowy/internal/statement"
	"github.com/DevTechCode/rachunek-bankowy/internal/storage"
)

// initStorage opens the ledger database and applies pending migrations.
// The caller owns the returned storage and must Close it.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "rachunek", "ledger.db")
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger at %s: %w", dbPath, err)
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to migrate ledger: %w", err)
	}
	return store, nil
}

// selectReader maps the --format flag to a statement reader.
func selectReader(format string) (statement.Reader, error) {
	switch format {
	case "auto", "":
		return statement.NewAutoReader(), nil
	case "xml":
		return statement.NewXMLReader(), nil
	case "html":
		return statement.NewHTMLReader(), nil
	case "ofx":
		return statement.NewOFXReader(), nil
	default:
		return nil, fmt.Errorf("unknown statement format %q (want auto, xml, html or ofx)", format)
	}
}

// readStatement parses one statement file and returns deduplicated,
// balance-chain ordered transactions together with the reader result.
func readStatement(ctx context.Context, path, format string, bestEffort bool) (*statement.Result, []*model.Transaction, error) {
	reader, err := selectReader(format)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, common.NewUserError(fmt.Sprintf("cannot open statement file %s", path), err)
	}
	defer f.Close()

	result, err := reader.Read(ctx, f, statement.Options{BestEffort: bestEffort})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	txs := model.Deduplicate(result.Transactions)
	model.SortCanonical(txs)
	return result, chain.Sort(txs), nil
}

// reportRowErrors prints per-row parse failures collected in best-effort mode.
func reportRowErrors(result *statement.Result) {
	for _, rowErr := range result.RowErrors {
		fmt.Fprintln(os.Stderr, cli.FormatWarning(fmt.Sprintf("skipped %s: %v", rowErr.Path, rowErr.Err)))
	}
	if n := len(result.RowErrors); n > 0 {
		slog.Warn("Some statement rows could not be parsed", "skipped", n)
	}
}
