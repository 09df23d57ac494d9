package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/config"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = newRootCmd()
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fintrack",
		Short: cli.MoneyIcon + " Personal finance tracker",
		Long: `fintrack: a terminal client for your personal finance API.

Track transactions, investments and goals, browse monthly dashboards,
import bank statements and export reports to Google Sheets.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/fintrack/config.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	_ = viper.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", cmd.PersistentFlags().Lookup("log-format"))

	cmd.AddCommand(loginCmd())
	cmd.AddCommand(logoutCmd())
	cmd.AddCommand(registerCmd())
	cmd.AddCommand(whoamiCmd())
	cmd.AddCommand(passwdCmd())
	cmd.AddCommand(dashboardCmd())
	cmd.AddCommand(summaryCmd())
	cmd.AddCommand(transactionsCmd())
	cmd.AddCommand(categoriesCmd())
	cmd.AddCommand(paymentMethodsCmd())
	cmd.AddCommand(investmentTypesCmd())
	cmd.AddCommand(investmentsCmd())
	cmd.AddCommand(goalsCmd())
	cmd.AddCommand(importCmd())
	cmd.AddCommand(exportCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err)))
		slog.Debug("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	v := viper.GetViper()
	if err := config.Read(v, cfgFile); err != nil {
		return err
	}

	if err := common.SetupLogger(os.Stderr, v.GetString("logging.level"), v.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fintrack %s\n", version)
		},
	}
}
