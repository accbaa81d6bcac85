package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/contentdesk/affkit/internal/seo"
	"github.com/contentdesk/affkit/internal/serpapi"
	"github.com/contentdesk/affkit/internal/ui"
	"github.com/contentdesk/affkit/internal/utils/output"
)

var (
	seoCountry string
	seoOutline bool
	seoPrompt  bool
	seoJSON    string
)

var seoCmd = &cobra.Command{
	Use:   "seo <keyword>",
	Short: "Research a keyword: snippet, LSI keywords, FAQs and competitors",
	Long: `Research a keyword with a Google search through SerpApi.

The report contains the featured snippet, related searches (LSI keywords),
"People also ask" questions and the top 10 organic results. With --outline
the competitor pages are crawled and their h1-h3 headings listed. Results
are cached for the configured TTL so repeated lookups are not billed twice.`,
	Example: `  # Research a keyword for the US market
  affkit seo "best wireless earbuds"

  # UK results with competitor outlines
  affkit seo "best air fryer" --country "United Kingdom" --outline

  # Print the AI writer prompt block only
  affkit seo "standing desk" --prompt

  # Save the full report as JSON
  affkit seo "standing desk" --save report.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSEO,
}

func init() {
	rootCmd.AddCommand(seoCmd)

	seoCmd.Flags().StringVar(&seoCountry, "country", serpapi.DefaultCountry, "Target country: "+strings.Join(serpapi.Countries(), ", "))
	seoCmd.Flags().BoolVar(&seoOutline, "outline", false, "Crawl competitor pages and list their headings")
	seoCmd.Flags().BoolVar(&seoPrompt, "prompt", false, "Print only the AI writer prompt block")
	seoCmd.Flags().StringVar(&seoJSON, "save", "", "Save the report as JSON to this file")
}

func runSEO(cmd *cobra.Command, args []string) error {
	a, err := mustApp(cmd)
	if err != nil {
		return err
	}

	apiKey, err := a.APIKey("")
	if err != nil {
		return err
	}

	report, err := a.Researcher.Research(cmd.Context(), seo.Request{
		Keyword: strings.Join(args, " "),
		Country: seoCountry,
		APIKey:  apiKey,
	})
	if err != nil {
		return err
	}

	if seoJSON != "" {
		if err := output.SaveJSON(report, seoJSON); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", ui.Success("✓ Saved"), ui.Highlight(seoJSON))
	}

	w := cmd.OutOrStdout()
	if seoPrompt {
		_, err := io.WriteString(w, report.Prompt())
		return err
	}
	printReport(w, report)

	if !seoOutline || len(report.Competitors) == 0 {
		return nil
	}
	outlines, err := a.Outliner.Outline(cmd.Context(), report.Links())
	if err != nil {
		return err
	}
	printOutlines(w, outlines)
	return nil
}

func printReport(w io.Writer, r *seo.Report) {
	ui.Heading(w, fmt.Sprintf("%q (%s)", r.Keyword, r.Country))
	ui.Rule(w)

	ui.Heading(w, "Snippet")
	fmt.Fprintln(w, wrapText(r.Snippet, helpWidth))

	ui.Heading(w, "LSI Keywords")
	printList(w, r.LSI)

	ui.Heading(w, "FAQs")
	printList(w, r.FAQs)

	ui.Heading(w, "Competitors")
	if len(r.Competitors) == 0 {
		fmt.Fprintf(w, "  %s\n", ui.Dim("none"))
	}
	for _, c := range r.Competitors {
		fmt.Fprintf(w, "  %2d. %s\n      %s\n", c.Position, ui.Highlight(c.Title), ui.Dim(c.Link))
	}
	fmt.Fprintln(w)
}

func printList(w io.Writer, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(w, "  %s\n", ui.Dim("none"))
		return
	}
	for _, it := range items {
		fmt.Fprintf(w, "  - %s\n", it)
	}
}

func printOutlines(w io.Writer, outlines []seo.PageOutline) {
	ui.Heading(w, "Competitor Outlines")
	ui.Rule(w)
	for _, o := range outlines {
		if o.Error != "" {
			fmt.Fprintf(w, "%s %s\n  %s\n", ui.Error("✗"), ui.Highlight(o.URL), ui.Dim(o.Error))
			continue
		}
		title := o.Title
		if title == "" {
			title = o.URL
		}
		fmt.Fprintf(w, "%s %s\n", ui.Success("✓"), ui.Highlight(title))
		for _, h := range o.Headings {
			indent := strings.Repeat("  ", h.Level)
			fmt.Fprintf(w, "%s%s %s\n", indent, ui.Dim(fmt.Sprintf("h%d", h.Level)), h.Text)
		}
	}
	fmt.Fprintln(w)
}
