package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/contentdesk/affkit/internal/credentials"
	"github.com/contentdesk/affkit/internal/ui"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the stored SerpApi key",
	Long: `Manage the SerpApi key stored on this machine.

The key is kept in the OS keyring. Where no keyring is reachable
(CI, Codespaces) it is written to ~/.affkit/serpapi.key with
0600 permissions. A key given with --api-key, SERPAPI_API_KEY or the config
file always takes precedence over the stored one.`,
	Example: `  # Store a key (prompts when the argument is omitted)
  affkit key set 0123456789abcdef

  # Show which key is in use
  affkit key show

  # Forget the stored key
  affkit key delete`,
}

var keySetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Store the SerpApi key",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runKeySet,
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the masked key and where it comes from",
	Args:  cobra.NoArgs,
	RunE:  runKeyShow,
}

var keyDeleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"rm"},
	Short:   "Delete the stored SerpApi key",
	Args:    cobra.NoArgs,
	RunE:    runKeyDelete,
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keySetCmd, keyShowCmd, keyDeleteCmd)
}

func runKeySet(cmd *cobra.Command, args []string) error {
	a, err := mustApp(cmd)
	if err != nil {
		return err
	}

	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		fmt.Fprint(cmd.ErrOrStderr(), "SerpApi key: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read key: %w", err)
		}
		key = line
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("key must not be empty")
	}

	if err := a.Credentials.Save(credentials.SerpAPIAccount, key); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s key %s saved to %s\n",
		ui.Success("✓"), ui.Highlight(credentials.Mask(key)), a.Credentials.Backend())
	return nil
}

func runKeyShow(cmd *cobra.Command, args []string) error {
	a, err := mustApp(cmd)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if a.Config.SerpAPIKey != "" {
		ui.Field(w, "Key", credentials.Mask(a.Config.SerpAPIKey))
		ui.Field(w, "Source", "flag, environment or config file")
		return nil
	}

	key, err := a.Credentials.Load(credentials.SerpAPIAccount)
	if errors.Is(err, credentials.ErrNotFound) {
		fmt.Fprintln(w, ui.Info("No SerpApi key configured. Run `affkit key set`."))
		return nil
	}
	if err != nil {
		return err
	}
	ui.Field(w, "Key", credentials.Mask(key))
	ui.Field(w, "Source", a.Credentials.Backend())
	return nil
}

func runKeyDelete(cmd *cobra.Command, args []string) error {
	a, err := mustApp(cmd)
	if err != nil {
		return err
	}
	if err := a.Credentials.Delete(credentials.SerpAPIAccount); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s stored key deleted\n", ui.Success("✓"))
	return nil
}
