package product

import (
	"fmt"
	"strings"
)

// MarkdownTable renders the "copy for blog" summary table of r.
func (r *Record) MarkdownTable() string {
	cell := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "|", `\|`)
	}

	var b strings.Builder
	b.WriteString("| Feature | Details |\n")
	b.WriteString("| :--- | :--- |\n")
	fmt.Fprintf(&b, "| **Product Name** | %s |\n", cell(r.Title.String()))
	fmt.Fprintf(&b, "| **Image URL** | [View Image](%s) |\n", r.PrimaryImage())
	fmt.Fprintf(&b, "| **Rating** | %s/5 |\n", cell(r.Rating.String()))
	if r.Reviews.Valid {
		fmt.Fprintf(&b, "| **Reviews** | %s |\n", cell(r.Reviews.Value))
	}
	fmt.Fprintf(&b, "| **Price** | %s |\n", cell(r.DisplayPrice()))
	return b.String()
}

// CSVHeader is the column order of CSVRow.
var CSVHeader = []string{"url", "code", "title", "price", "rating", "reviews", "image", "source_tier"}

// CSVRow flattens r for spreadsheet export.
func (r *Record) CSVRow() []string {
	return []string{
		r.URL,
		r.Code,
		r.Title.String(),
		r.Price.String(),
		r.Rating.String(),
		r.Reviews.String(),
		r.PrimaryImage(),
		r.SourceTier,
	}
}
