package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/contentdesk/affkit/internal/snippet"
)

var (
	snippetDesign  string
	snippetFile    string
	snippetFromURL string
	snippetPretty  bool
	snippetOutput  string
	snippetProduct snippet.Product
)

var snippetCmd = &cobra.Command{
	Use:   "snippet",
	Short: "Render affiliate product boxes as HTML",
	Long: `Render affiliate product boxes as embeddable HTML.

Designs:
- detailed-review: image, stars, description and pros/cons columns
- benefit-badge: compact row with a colored badge
- featured-deal: highlighted deal box with a call to action
- feature-callout: the first sentences of the description as bullet points
- vertical-card: centered card for sidebars

Products come from flags, from a YAML or JSON file (--file) or from a
resolved Amazon product (--from-url). Blank fields fall back to defaults and
every snippet ends with the Amazon Associate disclosure.`,
	Example: `  # Single product from flags
  affkit snippet --title "Echo Dot" --link https://amzn.to/abc --rating 4.7 --pros "Small\nLoud"

  # Several products from a file
  affkit snippet --file products.yaml --design vertical-card -o snippet.html

  # Resolve a product and render it as a featured deal
  affkit snippet --from-url https://www.amazon.com/dp/B08N5WRWNW --link https://amzn.to/abc --design featured-deal`,
	Args: cobra.NoArgs,
	RunE: runSnippet,
}

func init() {
	rootCmd.AddCommand(snippetCmd)

	f := snippetCmd.Flags()
	f.StringVarP(&snippetDesign, "design", "d", string(snippet.DetailedReview), "Snippet design")
	f.StringVar(&snippetFile, "file", "", "YAML or JSON file with a products list")
	f.StringVar(&snippetFromURL, "from-url", "", "Resolve this Amazon URL and use the record")
	f.BoolVar(&snippetPretty, "pretty", false, "Indent the generated HTML")
	f.StringVarP(&snippetOutput, "output", "o", "", "Write the HTML to this file instead of stdout")

	f.StringVar(&snippetProduct.Title, "title", "", "Product title")
	f.StringVar(&snippetProduct.Link, "link", "", "Affiliate link")
	f.StringVar(&snippetProduct.Image, "image", "", "Image URL")
	f.StringVar((*string)(&snippetProduct.Rating), "rating", "", "Star rating, e.g. 4.5")
	f.StringVar(&snippetProduct.Description, "description", "", "Product description")
	f.StringVar(&snippetProduct.BadgeText, "badge", "", "Badge text")
	f.StringVar(&snippetProduct.BadgeColor, "badge-color", "", "Badge color as #rrggbb")
	f.StringVar(&snippetProduct.Pros, "pros", "", "Pros, one per line (\\n separated)")
	f.StringVar(&snippetProduct.Cons, "cons", "", "Cons, one per line (\\n separated)")
}

func runSnippet(cmd *cobra.Command, args []string) error {
	a, err := mustApp(cmd)
	if err != nil {
		return err
	}

	design := snippetDesign
	var products []snippet.Product

	switch {
	case snippetFile != "":
		file, err := snippet.LoadFile(snippetFile)
		if err != nil {
			return err
		}
		products = file.Products
		if file.Design != "" && !cmd.Flags().Changed("design") {
			design = string(file.Design)
		}
	case snippetFromURL != "":
		rec, _, err := resolveOrReport(cmd, a, snippetFromURL)
		if err != nil {
			return err
		}
		p := snippet.FromRecord(rec, snippetProduct.Link)
		products = []snippet.Product{overlay(p, snippetProduct)}
	default:
		products = []snippet.Product{snippetProduct}
	}

	d, err := snippet.ParseDesign(design)
	if err != nil {
		return err
	}
	for i := range products {
		products[i] = unescapeLines(products[i])
	}

	html, err := a.Snippets.Render(d, products, snippet.Options{Pretty: snippetPretty})
	if err != nil {
		return fmt.Errorf("failed to render snippet: %w", err)
	}
	return emit(cmd, snippetOutput, writeString(html))
}

// overlay copies the non-blank fields of flags over p.
func overlay(p, flags snippet.Product) snippet.Product {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&p.Title, flags.Title)
	set(&p.Image, flags.Image)
	set(&p.Description, flags.Description)
	set(&p.BadgeText, flags.BadgeText)
	set(&p.BadgeColor, flags.BadgeColor)
	set(&p.Pros, flags.Pros)
	set(&p.Cons, flags.Cons)
	if flags.Rating != "" {
		p.Rating = flags.Rating
	}
	return p
}

// unescapeLines turns literal "\n" typed on the command line into newlines.
func unescapeLines(p snippet.Product) snippet.Product {
	p.Pros = strings.ReplaceAll(p.Pros, `\n`, "\n")
	p.Cons = strings.ReplaceAll(p.Cons, `\n`, "\n")
	return p
}
