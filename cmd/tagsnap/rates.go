package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tagsnap/tagsnap/internal/cli"
)

func ratesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates [base-currency]",
		Short: "Show the current exchange rate table",
		Long: `Rates prints the conversion table for a base currency. Without a rate
API key the static fallback table is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := defaultTarget()
			if len(args) == 1 {
				base = strings.ToUpper(args[0])
			}

			client := initRates()
			defer client.Close()

			table, err := client.FetchRates(cmd.Context(), base)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle("Rates for "+base))
			codes := table.Currencies()
			sort.Strings(codes)
			for _, code := range codes {
				if code == base {
					continue
				}
				rate := table[code]
				fmt.Fprintf(out, "  %s %s\n",
					cli.BoldStyle.Render(code),
					cli.SubtleStyle.Render(fmt.Sprintf("%.4f", rate)))
			}
			return nil
		},
	}
	return cmd
}
