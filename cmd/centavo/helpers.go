package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/centavo-dev/centavo/internal/common"
	"github.com/centavo-dev/centavo/internal/config"
	"github.com/centavo-dev/centavo/internal/money"
	"github.com/centavo-dev/centavo/internal/service"
	"github.com/centavo-dev/centavo/internal/storage"
)

// initStorage opens the SQLite database and brings the schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath, err := config.DatabasePath()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// resolveCurrency picks the account currency: the --currency flag when set,
// otherwise the configured default.
func resolveCurrency(flagValue string) (money.Currency, error) {
	code := flagValue
	if code == "" {
		code = config.DefaultCurrency()
	}
	return money.CurrencyByCode(code)
}

// expandFileArgs expands glob patterns into a flat file list, keeping literal
// paths that exist even when the glob machinery matches nothing.
func expandFileArgs(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, statErr := os.Stat(pattern); statErr == nil {
				files = append(files, pattern)
			}
			continue
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, common.ErrNoImportFiles
	}
	return files, nil
}

// accountIDFor derives the account identifier: the --account flag when set,
// otherwise the file's base name without extension.
func accountIDFor(flagValue, path string) string {
	if flagValue != "" {
		return flagValue
	}
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
