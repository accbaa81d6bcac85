package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/contentdesk/affkit/internal/product"
	"github.com/contentdesk/affkit/internal/utils/headers"
	"github.com/contentdesk/affkit/internal/utils/output"
)

var (
	productFormat      string
	productOutput      string
	productDownloadDir string
	productHeaders     []string
	productDiagnostics bool
)

var productCmd = &cobra.Command{
	Use:   "product <url>",
	Short: "Resolve an Amazon product URL into a product record",
	Long: `Resolve an Amazon product URL into a normalized product record.

The product code (ASIN) is taken from the URL when present. Strategies run in
order and the first usable record wins:
- product lookup: structured SerpApi Amazon product lookup by code
- keyword search: SerpApi Amazon search for the code
- web search: Google search restricted to the marketplace
- page: direct fetch and parse of the product page

When every strategy fails the per-strategy reasons are printed.`,
	Example: `  # Resolve a product and print a summary
  affkit product https://www.amazon.com/dp/B08N5WRWNW

  # Markdown table ready for a blog post
  affkit product https://www.amazon.com/dp/B08N5WRWNW --format markdown

  # Save JSON and download the product images
  affkit product https://www.amazon.co.uk/dp/B08N5WRWNW -f json -o echo.json --download ./images

  # Show what every strategy did
  affkit product https://www.amazon.de/dp/B08N5WRWNW --diagnostics -v`,
	Args: cobra.ExactArgs(1),
	RunE: runProduct,
}

func init() {
	rootCmd.AddCommand(productCmd)

	productCmd.Flags().StringVarP(&productFormat, "format", "f", "text", "Output format: text, json, markdown or csv")
	productCmd.Flags().StringVarP(&productOutput, "output", "o", "", "Write the record to this file instead of stdout")
	productCmd.Flags().StringVar(&productDownloadDir, "download", "", "Also download the product images into this directory")
	productCmd.Flags().StringArrayVarP(&productHeaders, "header", "H", []string{}, "Custom header for direct page fetches (\"Key: Value\")")
	productCmd.Flags().BoolVar(&productDiagnostics, "diagnostics", false, "Print the strategy attempts")
}

func runProduct(cmd *cobra.Command, args []string) error {
	a, err := mustApp(cmd)
	if err != nil {
		return err
	}

	write, err := recordWriter(productFormat)
	if err != nil {
		return err
	}

	headerMap, err := headers.Parse(productHeaders)
	if err != nil {
		return err
	}
	if len(headerMap) > 0 {
		a.UsePageHeaders(headerMap)
	}

	rec, diags, err := resolveOrReport(cmd, a, args[0])
	if err != nil {
		return err
	}
	if productDiagnostics {
		printDiagnostics(cmd.ErrOrStderr(), diags)
	}

	if err := emit(cmd, productOutput, func(w io.Writer) error { return write(w, rec) }); err != nil {
		return err
	}

	if productDownloadDir != "" {
		return downloadImages(cmd, a, rec, productDownloadDir, "")
	}
	return nil
}

// recordWriter returns the encoder for one output format.
func recordWriter(format string) (func(io.Writer, *product.Record) error, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return func(w io.Writer, r *product.Record) error {
			printRecord(w, r)
			return nil
		}, nil
	case "json":
		return func(w io.Writer, r *product.Record) error {
			return output.WriteJSON(w, r)
		}, nil
	case "markdown", "md":
		return func(w io.Writer, r *product.Record) error {
			_, err := io.WriteString(w, r.MarkdownTable())
			return err
		}, nil
	case "csv":
		return func(w io.Writer, r *product.Record) error {
			return output.WriteCSV(w, product.CSVHeader, [][]string{r.CSVRow()})
		}, nil
	}
	return nil, fmt.Errorf("invalid format %q (must be text, json, markdown or csv)", format)
}
