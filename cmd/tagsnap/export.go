package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tagsnap/tagsnap/internal/cli"
	"github.com/tagsnap/tagsnap/internal/config"
	"github.com/tagsnap/tagsnap/internal/export"
	"github.com/tagsnap/tagsnap/internal/service"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the purchase history to Google Sheets",
		RunE:  runExport,
	}

	cmd.Flags().String("trip", "", "export only this trip's scans")
	cmd.Flags().String("spreadsheet-id", "", "write into an existing spreadsheet instead of creating one")

	cmd.AddCommand(exportAuthCmd())
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	exportConfig, err := config.LoadExportConfig()
	if err != nil {
		return fmt.Errorf("export is not configured: %w", err)
	}
	if id, _ := cmd.Flags().GetString("spreadsheet-id"); id != "" {
		exportConfig.SpreadsheetID = id
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	filter := service.PurchaseFilter{}
	filter.Trip, _ = cmd.Flags().GetString("trip")

	purchases, err := store.GetPurchases(ctx, filter)
	if err != nil {
		return err
	}
	if len(purchases) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nothing to export"))
		return nil
	}

	trips, err := store.GetTrips(ctx)
	if err != nil {
		return err
	}

	writer, err := export.NewWriter(ctx, *exportConfig, slog.Default())
	if err != nil {
		return err
	}

	if err := writer.Write(ctx, purchases, trips); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d scans", len(purchases))))
	return nil
}

func exportAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Sheets interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientID := viper.GetString("export.client_id")
			clientSecret := viper.GetString("export.client_secret")
			if clientID == "" || clientSecret == "" {
				return fmt.Errorf("set export.client_id and export.client_secret first")
			}

			authorizer := export.NewAuthorizer(clientID, clientSecret, config.DefaultTokenPath())
			token, err := authorizer.Token(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess("Authentication complete"))
			if token.RefreshToken != "" {
				fmt.Fprintln(out, cli.FormatInfo("Add this refresh token to your config as export.refresh_token:"))
				fmt.Fprintln(out, token.RefreshToken)
			}
			return nil
		},
	}
}
