// Package cli provides the command-line interface for secondbrain.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/raphaelgruber/secondbrain/internal/client"
	"github.com/raphaelgruber/secondbrain/internal/config"
	"github.com/spf13/cobra"
)

const (
	// annotationMode marks commands that only run in one mode.
	annotationMode = "mode"
	modeAccount    = "account" // remote only, no stored credentials needed
	modeGuest      = "guest"   // guest only
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose   bool
	guestMode bool
	serverURL string

	// Per-invocation state
	cfg      config.Config
	logger   *slog.Logger
	closeLog func() error
	store    backend
	guest    *guestBackend
	stdin    *bufio.Reader
	theme    = defaultTheme
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "secondbrain",
	Short: "Your personal knowledge base",
	Long: `Second Brain stores short memories (a title, free-text content and tags)
and answers keyword searches over them.

By default commands talk to a Second Brain server; log in first with
"secondbrain login". With --guest everything stays in a local SQLite file
and no account is needed.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger, closeLog = config.SetupFileLogger("secondbrain", cfg.LogFile, level)
		stdin = bufio.NewReader(cmd.InOrStdin())

		mode := cmd.Annotations[annotationMode]
		switch {
		case mode == modeAccount && guestMode:
			return errors.New("account commands are not available in guest mode")
		case mode == modeAccount:
			return nil
		case mode == modeGuest && !guestMode:
			return fmt.Errorf("%s only works in guest mode (--guest)", cmd.Name())
		}

		ctx := context.Background()
		if guestMode {
			g, err := openGuest(ctx, cfg.GuestDBPath, logger)
			if err != nil {
				return fmt.Errorf("open guest store: %w", err)
			}
			guest, store = g, g
			logger.Debug("guest mode", "path", cfg.GuestDBPath)
			return nil
		}

		creds, err := client.LoadCredentials(cfg.CredentialsFile)
		if errors.Is(err, client.ErrNoCredentials) {
			return errors.New(`not logged in: run "secondbrain login" or use --guest`)
		}
		if err != nil {
			return err
		}
		store = client.New(resolveServerURL(creds.ServerURL), creds.Token)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if guest != nil {
			if err := guest.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close guest store: %v\n", err)
			}
		}
		guest, store = nil, nil
		if closeLog != nil {
			_ = closeLog()
			closeLog = nil
		}
	},
}

// resolveServerURL picks --server, then the URL saved at login, then config.
func resolveServerURL(saved string) string {
	switch {
	case serverURL != "":
		return serverURL
	case saved != "":
		return saved
	default:
		return cfg.ServerURL
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to the log file")
	rootCmd.PersistentFlags().BoolVarP(&guestMode, "guest", "g", false, "use the local guest store instead of the server")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (default from login or SECONDBRAIN_SERVER_URL)")

	// Add subcommands
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(importCmd)
}
