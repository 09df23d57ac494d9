package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/config"
	"github.com/Veraticus/fintrack/internal/sheets"
)

const spreadsheetURL = "https://docs.google.com/spreadsheets/d/"

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export reports",
	}
	cmd.AddCommand(exportSheetsCmd())
	return cmd
}

func exportSheetsCmd() *cobra.Command {
	var (
		when          periodFlags
		spreadsheetID string
		name          string
	)

	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Export a monthly report to Google Sheets",
		Long: `Write a month's transactions and summary to a Google Sheets spreadsheet,
on a Transactions tab and a Summary tab.

Authenticate once with 'fintrack export sheets auth', or configure a service
account with sheets.service_account_path.

Examples:
  fintrack export sheets
  fintrack export sheets --year 2025 --month 3 --spreadsheet-id 1AbC...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := when.resolve(time.Now())
			if err != nil {
				return err
			}

			cfg, err := config.LoadSheetsConfig(viper.GetViper())
			if err != nil {
				return common.NewUserError("Google Sheets is not configured. Run 'fintrack export sheets auth' first.", err)
			}
			if spreadsheetID != "" {
				cfg.SpreadsheetID = spreadsheetID
			}
			if name != "" {
				cfg.SpreadsheetName = name
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				user, err := a.requireUser(ctx)
				if err != nil {
					return err
				}
				r, err := fetchReport(ctx, a, user.ID, p)
				if err != nil {
					return err
				}

				writer, err := sheets.NewWriter(ctx, *cfg, slog.Default())
				if err != nil {
					return common.NewUserError("Could not connect to Google Sheets", err)
				}
				id, err := writer.Write(ctx, sheets.Export{
					ServerSummary: r.server,
					Transactions:  r.transactions,
					Report:        r.report,
					Period:        r.period,
				})
				if err != nil {
					return common.NewUserError("Export to Google Sheets failed", err)
				}

				fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Exported %d transactions for %s", len(r.transactions), r.period.Label())))
				fmt.Fprintln(a.out, cli.FormatInfo(spreadsheetURL+id))
				return nil
			})
		},
	}

	when.register(cmd)
	cmd.Flags().StringVar(&spreadsheetID, "spreadsheet-id", "", "write to this spreadsheet instead of the configured one")
	cmd.Flags().StringVar(&name, "name", "", "title for a newly created spreadsheet")
	cmd.AddCommand(sheetsAuthCmd())
	return cmd
}

func sheetsAuthCmd() *cobra.Command {
	var callback string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Google Sheets",
		Long: `Run the OAuth2 flow for Google Sheets. Set sheets.client_id and
sheets.client_secret (or GOOGLE_SHEETS_CLIENT_ID and GOOGLE_SHEETS_CLIENT_SECRET),
open the printed URL and approve access. The token is saved to sheets.token_file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.GetViper()
			cfg := sheets.DefaultConfig()
			cfg.ClientID = v.GetString("sheets.client_id")
			cfg.ClientSecret = v.GetString("sheets.client_secret")
			cfg.LoadFromEnv()
			if cfg.ClientID == "" || cfg.ClientSecret == "" {
				return common.NewUserError("Set sheets.client_id and sheets.client_secret first", sheets.ErrNoAuth)
			}

			tokenFile := config.ExpandPath(v.GetString("sheets.token_file"))
			if tokenFile == "" {
				tokenFile = config.DefaultSheetsTokenFile()
			}

			out := cmd.OutOrStdout()
			_, err := sheets.Authorize(cmd.Context(), sheets.OAuth2Config{
				ClientID:     cfg.ClientID,
				ClientSecret: cfg.ClientSecret,
				TokenFile:    tokenFile,
				CallbackAddr: callback,
			}, func(url string) {
				fmt.Fprintln(out, cli.FormatInfo("Open this URL in your browser to authorize fintrack:"))
				fmt.Fprintln(out, url)
			})
			if err != nil {
				return common.NewUserError("Google Sheets authorization failed", err)
			}

			fmt.Fprintln(out, cli.FormatSuccess("Authorized. Token saved to "+tokenFile))
			return nil
		},
	}

	cmd.Flags().StringVar(&callback, "callback", sheets.DefaultCallbackAddr, "address for the OAuth2 callback server")
	return cmd
}
