package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/centavo-dev/centavo/internal/cli"
	"github.com/centavo-dev/centavo/internal/common"
	"github.com/centavo-dev/centavo/internal/importer"
	"github.com/centavo-dev/centavo/internal/money"
	"github.com/centavo-dev/centavo/internal/tui"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from CSV statements",
		Long: `Import bank statement CSV files into the local database.

Each row is parsed using a column mapping (a built-in preset, explicit
column flags, or auto-detection), merchant names are normalized, and
likely duplicates of already-imported transactions are flagged. Duplicates
are skipped by default; use --interactive to review and adjust the
selection before committing.

Examples:
  # Auto-detect the format
  centavo import --account bpi-checking ~/Downloads/statement.csv

  # Use a built-in preset
  centavo import --format debit-credit --account bpi-checking stmt.csv

  # Map columns explicitly for a headerless export
  centavo import --no-header --date-column 0 --description-column 1 \
    --amount-column 2 --account gcash export.csv

  # Review rows interactively before committing
  centavo import --interactive --account bpi-checking stmt.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	// Format selection
	cmd.Flags().StringP("format", "f", "", "built-in format preset (see 'centavo formats')")
	cmd.Flags().String("date-column", "", "date column name (or 0-based index with --no-header)")
	cmd.Flags().String("description-column", "", "description column name")
	cmd.Flags().String("amount-column", "", "signed amount column name")
	cmd.Flags().String("debit-column", "", "debit column name (pairs with --credit-column)")
	cmd.Flags().String("credit-column", "", "credit column name (pairs with --debit-column)")
	cmd.Flags().String("date-format", "", "date layout in Go reference time form (default 2006-01-02)")
	cmd.Flags().String("delimiter", "", "field delimiter (default ',')")
	cmd.Flags().Bool("no-header", false, "treat the first row as data, addressing columns by index")

	// Import behavior
	cmd.Flags().StringP("account", "a", "", "account ID to import into (default: file base name)")
	cmd.Flags().StringP("currency", "c", "", "account currency code (default from config)")
	cmd.Flags().Bool("keep-duplicates", false, "import rows flagged as duplicates instead of skipping them")
	cmd.Flags().Bool("dry-run", false, "show what would be imported without saving")
	cmd.Flags().BoolP("interactive", "i", false, "review and adjust the selection before committing")

	_ = viper.BindPFlag("import.keep_duplicates", cmd.Flags().Lookup("keep-duplicates"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	files, err := expandFileArgs(args)
	if err != nil {
		return err
	}

	currency, err := resolveCurrency(mustString(cmd, "currency"))
	if err != nil {
		return err
	}

	mapping, autoDetect, err := mappingFromFlags(cmd)
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	interactive, _ := cmd.Flags().GetBool("interactive")
	keepDuplicates := viper.GetBool("import.keep_duplicates")
	account := mustString(cmd, "account")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	svc := importer.NewService(store)

	slog.Info(cli.FormatTitle("Importing CSV statements"),
		"files", len(files),
		"currency", currency.Code,
		"dry_run", dryRun)

	var bar *progressbar.ProgressBar
	if len(files) > 1 && !interactive {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[cyan]Importing statements...[reset]"),
		)
	}

	total := &importer.ImportResult{}
	for _, path := range files {
		result, fileErr := importFile(cmd, svc, path, account, currency, mapping, autoDetect, dryRun, interactive, keepDuplicates)
		if fileErr != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), fileErr)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
		if result == nil {
			continue // dry run or canceled interactive session
		}
		total.Imported += result.Imported
		total.Skipped += result.Skipped
		total.Duplicates += result.Duplicates
		total.Errors += result.Errors
		for _, rowErr := range result.RowErrors {
			slog.Warn("Skipped unparsable row",
				"file", filepath.Base(path),
				"row", rowErr.Row,
				"error", rowErr.Err)
		}
	}
	if bar != nil {
		fmt.Fprintln(os.Stderr)
	}

	if !dryRun {
		cmd.Println(tui.RenderSummary(total))
	}
	return nil
}

func importFile(cmd *cobra.Command, svc *importer.Service, path, account string, currency money.Currency, mapping importer.ColumnMapping, autoDetect, dryRun, interactive, keepDuplicates bool) (*importer.ImportResult, error) {
	ctx := cmd.Context()

	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied statement path
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	csvText := string(data)
	accountID := accountIDFor(account, path)

	if autoDetect {
		detected, preview, detectErr := svc.AutoDetectAndPreview(ctx, csvText, accountID, currency)
		if detectErr != nil {
			if errors.Is(detectErr, importer.ErrNoFormatMatch) {
				return nil, common.NewUserError("could not detect the statement format; pass --format or explicit column flags", detectErr)
			}
			return nil, detectErr
		}
		slog.Info("Detected statement format", "file", filepath.Base(path), "format", detected.Name)
		return commitPreview(cmd, svc, preview, accountID, currency, dryRun, interactive, keepDuplicates)
	}

	preview, err := svc.GeneratePreview(ctx, csvText, mapping, accountID, currency)
	if err != nil {
		return nil, err
	}
	return commitPreview(cmd, svc, preview, accountID, currency, dryRun, interactive, keepDuplicates)
}

// commitPreview applies the selection policy and persists the preview. A nil
// result with nil error means nothing was committed (dry run or cancel).
func commitPreview(cmd *cobra.Command, svc *importer.Service, preview *importer.ImportPreview, accountID string, currency money.Currency, dryRun, interactive, keepDuplicates bool) (*importer.ImportResult, error) {
	if keepDuplicates {
		preview.SetAllSelected(true)
	}

	if dryRun {
		cmd.Println(cli.FormatWarning("Dry run mode - not saving to database"))
		printPreview(cmd, preview)
		return nil, nil
	}

	if interactive {
		confirmed, err := tui.Run(preview)
		if err != nil {
			return nil, err
		}
		if !confirmed {
			cmd.Println(cli.FormatWarning("Import canceled"))
			return nil, nil
		}
	} else if keepDuplicates && preview.DuplicateCount() > 0 {
		confirmer := cli.NewConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
		prompt := fmt.Sprintf("Import %d rows flagged as duplicates?", preview.DuplicateCount())
		confirmed, err := confirmer.Confirm(cmd.Context(), prompt, false)
		if err != nil {
			return nil, err
		}
		if !confirmed {
			for i := range preview.Rows {
				preview.Rows[i].Selected = !preview.Rows[i].Match.IsDuplicate
			}
		}
	}

	return svc.ImportTransactions(cmd.Context(), accountID, currency, preview, time.Now())
}

func printPreview(cmd *cobra.Command, preview *importer.ImportPreview) {
	for _, row := range preview.Rows {
		marker := cli.SuccessStyle.Render("new")
		if row.Match.IsDuplicate {
			marker = cli.WarningStyle.Render(fmt.Sprintf("dup %d%%", int(row.Match.Confidence*100)))
		}
		cmd.Printf("  %s  %-30s %12s  %s\n",
			row.Transaction.Date.Format("2006-01-02"),
			row.Transaction.Merchant,
			cli.FormatAmount(row.Transaction.Amount),
			marker)
	}
	for _, rowErr := range preview.Errors {
		cmd.Println(cli.FormatError(fmt.Sprintf("row %d: %v", rowErr.Row, rowErr.Err)))
	}
	cmd.Printf("\n%d new, %d duplicates, %d errors\n",
		preview.NewCount(), preview.DuplicateCount(), preview.ErrorCount())
}

// mappingFromFlags builds a column mapping from the command flags. Returns
// autoDetect=true when neither a preset nor explicit columns were given.
func mappingFromFlags(cmd *cobra.Command) (importer.ColumnMapping, bool, error) {
	format := mustString(cmd, "format")
	dateCol := mustString(cmd, "date-column")

	if format != "" {
		if dateCol != "" {
			return importer.ColumnMapping{}, false, fmt.Errorf("--format and explicit column flags are mutually exclusive")
		}
		mapping, err := importer.FormatByName(format)
		if err != nil {
			return importer.ColumnMapping{}, false, err
		}
		return mapping, false, nil
	}

	if dateCol == "" {
		return importer.ColumnMapping{}, true, nil
	}

	noHeader, _ := cmd.Flags().GetBool("no-header")
	delimiter := ','
	if d := mustString(cmd, "delimiter"); d != "" {
		delimiter = []rune(d)[0]
	}

	mapping := importer.ColumnMapping{
		Name:              "custom",
		DateColumn:        dateCol,
		DescriptionColumn: mustString(cmd, "description-column"),
		AmountColumn:      mustString(cmd, "amount-column"),
		DebitColumn:       mustString(cmd, "debit-column"),
		CreditColumn:      mustString(cmd, "credit-column"),
		DateFormat:        mustString(cmd, "date-format"),
		Delimiter:         delimiter,
		HasHeader:         !noHeader,
	}
	if err := mapping.Validate(); err != nil {
		return importer.ColumnMapping{}, false, err
	}
	return mapping, false, nil
}

func mustString(cmd *cobra.Command, name string) string {
	value, _ := cmd.Flags().GetString(name)
	return value
}
