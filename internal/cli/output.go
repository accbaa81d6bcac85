package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/contentdesk/affkit/internal/product"
	"github.com/contentdesk/affkit/internal/ui"
)

// emit calls write with stdout, or with a file at path when path is set.
func emit(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", ui.Success("✓ Saved"), ui.Highlight(path))
	return nil
}

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		if !strings.HasSuffix(s, "\n") {
			s += "\n"
		}
		_, err := io.WriteString(w, s)
		return err
	}
}

func printRecord(w io.Writer, rec *product.Record) {
	ui.Heading(w, rec.Title.Or("Unknown product"))
	ui.Rule(w)
	ui.Field(w, "Price", rec.DisplayPrice())
	ui.Field(w, "Rating", rec.Rating.String())
	ui.Field(w, "Reviews", rec.Reviews.String())
	ui.Field(w, "Code", rec.Code)
	ui.Field(w, "Marketplace", rec.Marketplace)
	ui.Field(w, "Source", rec.SourceTier)
	ui.Field(w, "Image", rec.PrimaryImage())
	ui.Field(w, "Images", fmt.Sprintf("%d", len(rec.Images)))
	if rec.Description != "" {
		fmt.Fprintf(w, "\n%s\n", wrapText(rec.Description, helpWidth))
	}
	fmt.Fprintln(w)
}

func printDiagnostics(w io.Writer, diags product.Diagnostics) {
	if len(diags) == 0 {
		return
	}
	ui.Heading(w, "Strategy attempts")
	for _, a := range diags {
		var mark string
		switch a.Outcome {
		case product.OutcomeSucceeded:
			mark = ui.Success("✓")
		case product.OutcomeSkipped:
			mark = ui.Info("-")
		default:
			mark = ui.Error("✗")
		}
		line := fmt.Sprintf("  %s %d. %s %s", mark, a.Tier, ui.Highlight(a.Strategy), ui.Dim(string(a.Outcome)))
		if a.Outcome != product.OutcomeSkipped {
			line += ui.Dim(fmt.Sprintf(" (%v)", a.Duration.Round(time.Millisecond)))
		}
		fmt.Fprintln(w, line)
		if a.Reason != "" {
			fmt.Fprintf(w, "      %s\n", ui.Dim(a.Reason))
		}
	}
	fmt.Fprintln(w)
}
