package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tagsnap/tagsnap/internal/cli"
	"github.com/tagsnap/tagsnap/internal/model"
	"github.com/tagsnap/tagsnap/internal/service"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and manage saved scans",
		RunE:  runHistoryList,
	}

	cmd.Flags().String("label", "", "only scans carrying this label")
	cmd.Flags().String("location", "", "only scans from this location")
	cmd.Flags().String("trip", "", "only scans from this trip")
	cmd.Flags().StringP("search", "s", "", "free-text search over names and labels")
	cmd.Flags().String("since", "", "only scans on or after this date (YYYY-MM-DD)")
	cmd.Flags().String("until", "", "only scans on or before this date (YYYY-MM-DD)")
	cmd.Flags().IntP("limit", "n", 0, "show at most this many scans")

	cmd.AddCommand(historyLabelCmd())
	cmd.AddCommand(historyUnlabelCmd())
	cmd.AddCommand(historyLocationCmd())
	cmd.AddCommand(historyTripCmd())
	cmd.AddCommand(historyDeleteCmd())
	cmd.AddCommand(historyTripsCmd())

	return cmd
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	filter := service.PurchaseFilter{}
	filter.Label, _ = cmd.Flags().GetString("label")
	filter.Location, _ = cmd.Flags().GetString("location")
	filter.Trip, _ = cmd.Flags().GetString("trip")
	filter.Search, _ = cmd.Flags().GetString("search")
	filter.Limit, _ = cmd.Flags().GetInt("limit")

	if since, _ := cmd.Flags().GetString("since"); since != "" {
		parsed, err := time.Parse("2006-01-02", since)
		if err != nil {
			return fmt.Errorf("invalid --since date %q: %w", since, err)
		}
		filter.Since = &parsed
	}
	if until, _ := cmd.Flags().GetString("until"); until != "" {
		parsed, err := time.Parse("2006-01-02", until)
		if err != nil {
			return fmt.Errorf("invalid --until date %q: %w", until, err)
		}
		// Include the whole day.
		parsed = parsed.Add(24*time.Hour - time.Nanosecond)
		filter.Until = &parsed
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	purchases, err := store.GetPurchases(ctx, filter)
	if err != nil {
		return err
	}
	if len(purchases) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No scans found"))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%d scans", len(purchases))))
	for _, p := range purchases {
		fmt.Fprintln(out, formatPurchaseLine(p))
	}
	return nil
}

// formatPurchaseLine renders one history row.
func formatPurchaseLine(p model.Purchase) string {
	var b strings.Builder
	b.WriteString(cli.SubtleStyle.Render(p.Date.Format("2006-01-02")))
	b.WriteString("  ")
	b.WriteString(cli.BoldStyle.Render(p.ProductName))
	b.WriteString("  ")
	b.WriteString(cli.FormatMoney(p.Original))
	b.WriteString(" → ")
	b.WriteString(cli.PriceStyle.Render(cli.FormatMoney(p.Converted)))

	var tags []string
	if p.Location != "" {
		tags = append(tags, cli.GlobeIcon+" "+p.Location)
	}
	if p.TripName != "" {
		tags = append(tags, cli.TripIcon+" "+p.TripName)
	}
	if len(p.Labels) > 0 {
		tags = append(tags, "["+strings.Join(p.Labels, ", ")+"]")
	}
	if len(tags) > 0 {
		b.WriteString("  ")
		b.WriteString(cli.SubtleStyle.Render(strings.Join(tags, " ")))
	}
	b.WriteString("  ")
	b.WriteString(cli.SubtleStyle.Render(p.ID))
	return b.String()
}

func historyLabelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "label <scan-id> <label>",
		Short: "Attach a label to a saved scan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.AddLabel(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Labeled "+args[0]+" with "+args[1]))
			return nil
		},
	}
}

func historyUnlabelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlabel <scan-id> <label>",
		Short: "Detach a label from a saved scan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.RemoveLabel(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Removed "+args[1]+" from "+args[0]))
			return nil
		},
	}
}

func historyLocationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "location <scan-id> <place>",
		Short: "Record where a scan happened",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SetLocation(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Set location of "+args[0]+" to "+args[1]))
			return nil
		},
	}
}

func historyTripCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trip <scan-id> <trip-name>",
		Short: "Group a scan under a trip",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SetTrip(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Added "+args[0]+" to trip "+args[1]))
			return nil
		},
	}
}

func historyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <scan-id>",
		Short: "Remove a scan from the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeletePurchase(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted "+args[0]))
			return nil
		},
	}
}

func historyTripsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trips",
		Short: "Summarize spending per trip",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			trips, err := store.GetTrips(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(trips) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No trips recorded yet"))
				return nil
			}

			for _, trip := range trips {
				totals := make([]string, 0, len(trip.Totals))
				for _, total := range trip.Totals {
					totals = append(totals, cli.FormatMoney(total))
				}
				fmt.Fprintf(out, "%s %s  %s  %d scans  %s\n",
					cli.TripIcon,
					cli.BoldStyle.Render(trip.Name),
					cli.SubtleStyle.Render(fmt.Sprintf("%s - %s",
						trip.FirstDate.Format("Jan 2"),
						trip.LastDate.Format("Jan 2, 2006"))),
					trip.Purchases,
					cli.PriceStyle.Render(strings.Join(totals, " + ")))
			}
			return nil
		},
	}
}
