package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/centavo-dev/centavo/internal/cli"
	"github.com/centavo-dev/centavo/internal/importer"
	"github.com/centavo-dev/centavo/internal/ofx"
	"github.com/centavo-dev/centavo/internal/tui"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import financial transactions from OFX or QFX (Quicken) files
exported from your bank.

Parsed transactions run through the same duplicate detection and preview
pipeline as CSV imports.

Examples:
  # Import a single file
  centavo import-ofx --account bpi-checking ~/Downloads/jan_2024.qfx

  # Import everything in a directory
  centavo import-ofx --account bpi-checking ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().StringP("account", "a", "", "account ID to import into (default: file base name)")
	cmd.Flags().StringP("currency", "c", "", "fallback currency when the file names none (default from config)")
	cmd.Flags().Bool("keep-duplicates", false, "import transactions flagged as duplicates instead of skipping them")
	cmd.Flags().Bool("dry-run", false, "show what would be imported without saving")
	cmd.Flags().BoolP("interactive", "i", false, "review and adjust the selection before committing")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	files, err := expandFileArgs(args)
	if err != nil {
		return err
	}

	currency, err := resolveCurrency(mustString(cmd, "currency"))
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	interactive, _ := cmd.Flags().GetBool("interactive")
	keepDuplicates, _ := cmd.Flags().GetBool("keep-duplicates")
	account := mustString(cmd, "account")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	svc := importer.NewService(store)
	parser := ofx.NewParser()

	slog.Info(cli.FormatTitle("Importing OFX files"),
		"files", len(files),
		"dry_run", dryRun)

	total := &importer.ImportResult{}
	for _, path := range files {
		f, openErr := os.Open(path) // #nosec G304 -- user-supplied statement path
		if openErr != nil {
			return fmt.Errorf("failed to open %s: %w", filepath.Base(path), openErr)
		}

		transactions, parseErr := parser.Parse(f, currency)
		_ = f.Close()
		if parseErr != nil {
			return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), parseErr)
		}
		if len(transactions) == 0 {
			slog.Warn("No transactions found in file", "file", filepath.Base(path))
			continue
		}

		accountID := accountIDFor(account, path)
		preview, previewErr := svc.PreviewParsed(ctx, transactions, accountID)
		if previewErr != nil {
			return previewErr
		}

		result, commitErr := commitPreview(cmd, svc, preview, accountID, currency, dryRun, interactive, keepDuplicates)
		if commitErr != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), commitErr)
		}
		if result == nil {
			continue
		}
		total.Imported += result.Imported
		total.Skipped += result.Skipped
		total.Duplicates += result.Duplicates
	}

	if !dryRun {
		cmd.Println(tui.RenderSummary(total))
	}
	return nil
}
