// internal/cli/root.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/contentdesk/affkit/internal/app"
	"github.com/contentdesk/affkit/internal/config"
	"github.com/contentdesk/affkit/internal/ui"
)

// version is overridden at build time with -ldflags "-X".
var version = "0.1.0"

var errNotInitialized = errors.New("application not initialized")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "affkit",
	Short: "Amazon product data, keyword research and affiliate snippets",
	Long: `affkit resolves Amazon product URLs into normalized product records, researches
keywords through SerpApi, renders affiliate HTML snippets and keeps a
keyword-cluster content plan.

Product data is looked up through a chain of strategies: structured product
lookup, keyword search, web search and finally the product page itself. The
first strategy that returns a usable record wins; when all of them fail the
per-strategy diagnostics are reported.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with ctx and returns the process exit code.
// The application is initialized lazily in PersistentPreRunE so help and
// version output never start it.
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	// PersistentPostRun is skipped when RunE fails
	closeApp(rootCmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.Error("Error:"), err)
		return 1
	}
	return 0
}

// closeApp closes the application reachable from cmd and clears it.
func closeApp(cmd *cobra.Command) {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.HTTPTimeout)
	defer cancel()
	if err := a.Close(ctx); err != nil {
		log.Debug().Err(err).Msg("Failed to close application")
	}
	SetApp(cmd, nil)
	SetApp(rootCmd, nil)
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetAppFromCmd(cmd) != nil {
			return nil
		}

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		SetApp(cmd, a)
		SetApp(rootCmd, a)
		return nil
	}

	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		closeApp(cmd)
	}
}

func init() {
	config.RegisterFlags(rootCmd)

	rootCmd.Flags().BoolP("help", "h", false, "Help for affkit")
	rootCmd.Flags().Bool("version", false, "Version for affkit")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpFunc(customHelpFunc)
	rootCmd.SetUsageFunc(customUsageFunc)
}
