package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/centavo-dev/centavo/internal/cli"
	"github.com/centavo-dev/centavo/internal/importer"
)

func formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List built-in CSV format presets",
		Long: `List the built-in column mapping presets accepted by
'centavo import --format'. Auto-detection tries them in this order.`,
		Run: runFormats,
	}
}

func runFormats(cmd *cobra.Command, _ []string) {
	var b strings.Builder
	for i, format := range importer.AvailableFormats() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(cli.PromptStyle.Render(format.Name))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  date:        %s (%s)\n", format.DateColumn, format.DateFormat))
		b.WriteString(fmt.Sprintf("  description: %s\n", format.DescriptionColumn))
		if format.AmountColumn != "" {
			b.WriteString(fmt.Sprintf("  amount:      %s\n", format.AmountColumn))
		} else {
			b.WriteString(fmt.Sprintf("  debit:       %s\n", format.DebitColumn))
			b.WriteString(fmt.Sprintf("  credit:      %s\n", format.CreditColumn))
		}
	}

	cmd.Println(cli.RenderBox("CSV Format Presets", b.String()))
}
