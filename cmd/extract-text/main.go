package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"acju-prayer-times/internal/pdfparse"
	"acju-prayer-times/internal/textnorm"
)

func main() {
	var showTables bool
	cmd := &cobra.Command{
		Use:          "extract-text file.pdf",
		Short:        "Print the text, zone, month and tables found in one PDF",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dump(args[0], showTables)
		},
	}
	cmd.Flags().BoolVar(&showTables, "tables", true, "Print detected tables and their parsed rows")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func dump(path string, showTables bool) error {
	parser := pdfparse.New(textnorm.Default(), nil, pdfparse.DefaultOptions())
	doc, err := parser.Open(path)
	if err != nil {
		return err
	}

	fmt.Println(doc.Text())
	md, err := parser.Metadata(doc)
	fmt.Printf("zone=%q month=%q\n", md.Zone, md.Month)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if !showTables {
		return nil
	}

	for i, table := range doc.Tables() {
		fmt.Printf("\n--- table %d (%d rows) ---\n", i+1, len(table))
		for _, row := range table {
			fmt.Println(strings.Join(row, " | "))
		}
		if md.Month == "" {
			continue
		}
		for _, r := range parser.ParseTableRows(table, md.Month) {
			fmt.Printf("%s %v\n", r.Date, r.Times)
		}
	}
	if md.Month != "" {
		rows := parser.ExtractFromTextPattern(doc.Text(), md.Month)
		fmt.Printf("\n--- text pattern fallback: %d rows ---\n", len(rows))
	}
	return nil
}
