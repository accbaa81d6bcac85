package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/contentdesk/affkit/internal/app"
	"github.com/contentdesk/affkit/internal/downloader"
	"github.com/contentdesk/affkit/internal/product"
	"github.com/contentdesk/affkit/internal/ui"
)

var (
	downloadDir     string
	downloadPrefix  string
	downloadWorkers int
)

var downloadCmd = &cobra.Command{
	Use:   "download <url>",
	Short: "Resolve a product and download its images",
	Long: `Resolve a product URL and download every image of the resulting record.

Images are fetched by a worker pool over a retrying HTTP client. File
extensions come from the sniffed content type, so CDN URLs without an
extension still produce .jpg or .png files.`,
	Example: `  # Download all images of a product into ./images
  affkit download https://www.amazon.com/dp/B08N5WRWNW

  # Custom directory and file prefix
  affkit download https://www.amazon.com/dp/B08N5WRWNW -o ./assets -p echo-dot`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&downloadDir, "output", "o", "./images", "Output directory for downloaded images")
	downloadCmd.Flags().StringVarP(&downloadPrefix, "prefix", "p", "", "File name prefix (default: product code)")
	downloadCmd.Flags().IntVarP(&downloadWorkers, "concurrency", "c", 0, "Number of concurrent downloads (default from config)")
}

func runDownload(cmd *cobra.Command, args []string) error {
	a, err := mustApp(cmd)
	if err != nil {
		return err
	}

	rec, _, err := resolveOrReport(cmd, a, args[0])
	if err != nil {
		return err
	}
	return downloadImages(cmd, a, rec, downloadDir, downloadPrefix)
}

// resolveOrReport resolves url, printing the diagnostics when it fails. A
// missing API key only leaves the page strategy to run.
func resolveOrReport(cmd *cobra.Command, a *app.Application, url string) (*product.Record, product.Diagnostics, error) {
	apiKey, err := a.APIKey("")
	if err != nil && !errors.Is(err, app.ErrNoAPIKey) {
		return nil, nil, err
	}
	if apiKey == "" {
		log.Warn().Msg("No SerpApi key configured, only the product page will be tried")
	}

	rec, diags, err := a.ResolveProduct(cmd.Context(), product.Request{URL: url, APIKey: apiKey})
	if err != nil {
		printDiagnostics(cmd.ErrOrStderr(), diags)
		return nil, diags, err
	}
	return rec, diags, nil
}

func downloadImages(cmd *cobra.Command, a *app.Application, rec *product.Record, dir, prefix string) error {
	if len(rec.Images) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Info("No images found for this product."))
		return nil
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("invalid output directory: %w", err)
	}
	if prefix == "" {
		prefix = rec.Code
	}
	if prefix == "" {
		prefix = "image"
	}

	pool := a.Downloads(downloadWorkers)
	jobs := downloader.ImageJobs(prefix, rec.Images)
	bar := progressbar.NewOptions(len(jobs),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Downloading images"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	pool.OnDone = func(*downloader.Result) { _ = bar.Add(1) }

	log.Debug().Int("images", len(jobs)).Str("dir", absDir).Msg("Starting image downloads")
	results := pool.DownloadBatch(cmd.Context(), jobs, absDir)
	_ = bar.Finish()

	return printDownloads(cmd.OutOrStdout(), results, absDir)
}

func printDownloads(w io.Writer, results []*downloader.Result, dir string) error {
	var (
		failed    int
		totalSize int64
		elapsed   time.Duration
	)

	ui.Heading(w, "Download Results:")
	ui.Rule(w)
	for i, r := range results {
		if !r.Success {
			failed++
			fmt.Fprintf(w, "%s [%d/%d] %s\n", ui.Error("✗"), i+1, len(results), ui.Highlight(r.URL))
			fmt.Fprintf(w, "  %s %s\n", ui.Dim("Error:"), ui.Error(fmt.Sprintf("%v", r.Error)))
			continue
		}
		totalSize += r.Size
		elapsed += r.Duration
		fmt.Fprintf(w, "%s [%d/%d] %s\n", ui.Success("✓"), i+1, len(results), ui.Highlight(filepath.Base(r.FilePath)))
		fmt.Fprintf(w, "  %s %s  %s %v\n", ui.Dim("Size:"), ui.Highlight(formatBytes(r.Size)), ui.Dim("Duration:"), r.Duration.Round(time.Millisecond))
	}
	ui.Rule(w)

	succeeded := len(results) - failed
	ui.Heading(w, "Summary:")
	ui.Field(w, "Total", fmt.Sprintf("%d files", len(results)))
	ui.Field(w, "Success", fmt.Sprintf("%d", succeeded))
	ui.Field(w, "Failed", fmt.Sprintf("%d", failed))
	ui.Field(w, "Total Size", formatBytes(totalSize))
	if succeeded > 0 {
		ui.Field(w, "Average Time", (elapsed / time.Duration(succeeded)).Round(time.Millisecond).String())
	}
	ui.Field(w, "Output Directory", dir)

	if failed > 0 {
		return fmt.Errorf("%d download(s) failed", failed)
	}
	return nil
}

// formatBytes formats byte count as human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
