package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/contentdesk/affkit/internal/app"
	"github.com/contentdesk/affkit/internal/batch"
	"github.com/contentdesk/affkit/internal/product"
	"github.com/contentdesk/affkit/internal/ui"
	"github.com/contentdesk/affkit/internal/utils/output"
)

var (
	batchOutput      string
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Resolve a list of product URLs",
	Long: `Resolve every product URL listed in a file, one per line. Blank lines and
lines starting with # are ignored. Use - to read the list from stdin.

URLs are resolved concurrently; each resolution still tries its strategies
one after another. Results keep the input order. The output format follows
the extension of --output: .csv writes a spreadsheet row per URL, anything
else writes JSON with records and diagnostics.`,
	Example: `  # Resolve a list and save JSON
  affkit batch urls.txt -o products.json

  # CSV export with 4 concurrent resolutions
  affkit batch urls.txt -o products.csv -c 4

  # Read URLs from stdin
  cat urls.txt | affkit batch - -o products.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "Output file (.json or .csv); prints JSON to stdout when empty")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 0, "Concurrent resolutions (default auto)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	a, err := mustApp(cmd)
	if err != nil {
		return err
	}

	text, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	urls := batch.ReadURLs(text)
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %s", args[0])
	}

	apiKey, err := a.APIKey("")
	if err != nil && !errors.Is(err, app.ErrNoAPIKey) {
		return err
	}

	concurrency := batchConcurrency
	if concurrency <= 0 {
		concurrency = a.Config.BatchConcurrency
	}
	runner := batch.New(appResolver{a}, concurrency)

	bar := progressbar.NewOptions(len(urls),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Resolving"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("products"),
		progressbar.OptionShowIts(),
		progressbar.OptionClearOnFinish(),
	)
	runner.OnDone = func(batch.Item) { _ = bar.Add(1) }

	log.Debug().Int("urls", len(urls)).Int("concurrency", concurrency).Msg("Starting batch")
	items := runner.Run(cmd.Context(), urls, apiKey)
	_ = bar.Finish()

	if err := writeBatch(cmd, items); err != nil {
		return err
	}

	summary := batch.Summarize(items)
	w := cmd.ErrOrStderr()
	ui.Heading(w, "Summary:")
	ui.Field(w, "Total", fmt.Sprintf("%d", summary.Total))
	ui.Field(w, "Resolved", fmt.Sprintf("%d", summary.Resolved))
	ui.Field(w, "Failed", fmt.Sprintf("%d", summary.Failed))
	for _, it := range items {
		if it.Record == nil {
			fmt.Fprintf(w, "  %s %s\n      %s\n", ui.Error("✗"), ui.Highlight(it.URL), ui.Dim(it.Error))
		}
	}

	if err := cmd.Context().Err(); err != nil {
		return err
	}
	return nil
}

func writeBatch(cmd *cobra.Command, items []batch.Item) error {
	if strings.EqualFold(filepath.Ext(batchOutput), ".csv") {
		return emit(cmd, batchOutput, func(w io.Writer) error {
			return output.WriteCSV(w, batch.CSVHeader, batch.CSVRows(items))
		})
	}
	return emit(cmd, batchOutput, func(w io.Writer) error {
		return output.WriteJSON(w, items)
	})
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// appResolver adapts the application so batch resolutions are counted in the
// resolution metrics.
type appResolver struct {
	app *app.Application
}

func (r appResolver) Resolve(ctx context.Context, req product.Request) (*product.Record, product.Diagnostics, error) {
	return r.app.ResolveProduct(ctx, req)
}
