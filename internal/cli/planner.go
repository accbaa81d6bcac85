package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/contentdesk/affkit/internal/planner"
	"github.com/contentdesk/affkit/internal/ui"
	"github.com/contentdesk/affkit/internal/utils/output"
)

var (
	plannerFilter string
	plannerJSON   bool
	plannerYes    bool
)

var plannerCmd = &cobra.Command{
	Use:     "planner",
	Aliases: []string{"plan"},
	Short:   "Manage the keyword-cluster content plan",
	Long: `Manage the keyword-cluster content plan stored in a JSON file
(content_planner.json by default, see --planner-file).

A cluster has a label and a ";"-separated keyword list. Keywords are checked
off as articles get written; a whole cluster can be marked done. Clusters are
referenced by ID or by label.`,
	Example: `  # Add clusters from AI output ("Cluster Label: X Keywords: a; b" lines)
  affkit planner add -f clusters.txt

  # Import a CSV export
  affkit planner import clusters.csv

  # Show pending clusters and overall progress
  affkit planner list --filter pending
  affkit planner stats

  # Check off a written keyword
  affkit planner check "Air Fryers" "best air fryer 2025"`,
}

var plannerAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add clusters from \"Cluster Label: ... Keywords: ...\" text",
	Long: `Add clusters from text. Each line of the form
"Cluster Label: <label> Keywords: <kw1>; <kw2>" adds one cluster; ":" and "|"
are both accepted as separators. Labels already in the plan are skipped.
Text is read from the argument, from --file, or from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlannerAdd,
}

var plannerImportCmd = &cobra.Command{
	Use:   "import <file.csv|file.xlsx>",
	Short: "Import clusters from a CSV file or Excel workbook",
	Long: `Import clusters from a CSV file or the active sheet of an .xlsx
workbook, chosen by file extension. The label column is the first header
containing "label" or "cluster"; the keyword column is the first header
containing "keyword", preferring one whose first value holds a ";" list.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlannerImport,
}

var plannerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clusters",
	Args:  cobra.NoArgs,
	RunE:  runPlannerList,
}

var plannerStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show keyword totals",
	Args:  cobra.NoArgs,
	RunE:  runPlannerStats,
}

var plannerExportCmd = &cobra.Command{
	Use:   "export <file.csv>",
	Short: "Export clusters to CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlannerExport,
}

var plannerDoneCmd = &cobra.Command{
	Use:   "done <cluster>",
	Short: "Mark a cluster done",
	Args:  cobra.ExactArgs(1),
	RunE:  plannerSetDone(true),
}

var plannerUndoneCmd = &cobra.Command{
	Use:   "undone <cluster>",
	Short: "Mark a cluster pending again",
	Args:  cobra.ExactArgs(1),
	RunE:  plannerSetDone(false),
}

var plannerCheckCmd = &cobra.Command{
	Use:   "check <cluster> <keyword>",
	Short: "Check off a written keyword",
	Args:  cobra.ExactArgs(2),
	RunE:  plannerCheck(true),
}

var plannerUncheckCmd = &cobra.Command{
	Use:   "uncheck <cluster> <keyword>",
	Short: "Uncheck a keyword",
	Args:  cobra.ExactArgs(2),
	RunE:  plannerCheck(false),
}

var plannerRemoveCmd = &cobra.Command{
	Use:   "remove-keywords <cluster> <keyword>...",
	Short: "Remove keywords from a cluster",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runPlannerRemove,
}

var plannerDeleteCmd = &cobra.Command{
	Use:   "delete <cluster>",
	Short: "Delete a cluster",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlannerDelete,
}

var plannerClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cluster",
	Args:  cobra.NoArgs,
	RunE:  runPlannerClear,
}

var plannerAddFile string

func init() {
	rootCmd.AddCommand(plannerCmd)
	plannerCmd.AddCommand(
		plannerAddCmd, plannerImportCmd, plannerListCmd, plannerStatsCmd, plannerExportCmd,
		plannerDoneCmd, plannerUndoneCmd, plannerCheckCmd, plannerUncheckCmd,
		plannerRemoveCmd, plannerDeleteCmd, plannerClearCmd,
	)

	plannerAddCmd.Flags().StringVarP(&plannerAddFile, "file", "f", "", "Read cluster text from this file (- for stdin)")
	plannerListCmd.Flags().StringVar(&plannerFilter, "filter", "all", "Show all, pending or completed clusters")
	plannerListCmd.Flags().BoolVar(&plannerJSON, "json-output", false, "Print clusters as JSON")
	plannerClearCmd.Flags().BoolVarP(&plannerYes, "yes", "y", false, "Do not ask for confirmation")
}

func plannerStore(cmd *cobra.Command) (*planner.Store, error) {
	a, err := mustApp(cmd)
	if err != nil {
		return nil, err
	}
	return a.Planner(), nil
}

func runPlannerAdd(cmd *cobra.Command, args []string) error {
	store, err := plannerStore(cmd)
	if err != nil {
		return err
	}

	var text string
	switch {
	case len(args) == 1:
		text = args[0]
	case plannerAddFile != "":
		if text, err = readInput(cmd, plannerAddFile); err != nil {
			return err
		}
	default:
		if text, err = readInput(cmd, "-"); err != nil {
			return err
		}
	}

	n, err := store.AddFromText(text)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d cluster(s) added to %s\n", ui.Success("✓"), n, store.Path())
	return nil
}

func runPlannerImport(cmd *cobra.Command, args []string) error {
	store, err := plannerStore(cmd)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	importer := store.ImportCSV
	if strings.EqualFold(filepath.Ext(args[0]), ".xlsx") {
		importer = store.ImportXLSX
	}
	n, err := importer(f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d cluster(s) imported into %s\n", ui.Success("✓"), n, store.Path())
	return nil
}

func runPlannerList(cmd *cobra.Command, args []string) error {
	store, err := plannerStore(cmd)
	if err != nil {
		return err
	}
	filter, err := planner.ParseFilter(plannerFilter)
	if err != nil {
		return err
	}

	clusters := store.Filter(filter)
	w := cmd.OutOrStdout()
	if plannerJSON {
		return output.WriteJSON(w, clusters)
	}
	if len(clusters) == 0 {
		fmt.Fprintln(w, ui.Info("No clusters."))
		return nil
	}
	for _, c := range clusters {
		printCluster(w, c)
	}
	fmt.Fprintln(w)
	return nil
}

func printCluster(w io.Writer, c planner.Cluster) {
	status := ui.Info("pending")
	if c.Done {
		status = ui.Success("done")
	}
	fmt.Fprintf(w, "\n%s %s %s\n", ui.Bold(c.Label), ui.Dim(c.Progress()), status)
	fmt.Fprintf(w, "  %s\n", ui.Dim(c.ID))
	for _, kw := range c.KeywordList() {
		box := "[ ]"
		if c.IsChecked(kw) {
			box = ui.Success("[x]")
		}
		fmt.Fprintf(w, "  %s %s\n", box, kw)
	}
}

func runPlannerStats(cmd *cobra.Command, args []string) error {
	store, err := plannerStore(cmd)
	if err != nil {
		return err
	}
	s := store.Stats()
	w := cmd.OutOrStdout()
	ui.Heading(w, "Content Plan")
	ui.Field(w, "File", store.Path())
	ui.Field(w, "Clusters", fmt.Sprintf("%d", s.Clusters))
	ui.Field(w, "Total Keywords", fmt.Sprintf("%d", s.Total))
	ui.Field(w, "Completed", fmt.Sprintf("%d", s.Completed))
	ui.Field(w, "Pending", fmt.Sprintf("%d", s.Pending))
	fmt.Fprintln(w)
	return nil
}

func runPlannerExport(cmd *cobra.Command, args []string) error {
	store, err := plannerStore(cmd)
	if err != nil {
		return err
	}
	clusters := store.All()
	rows := make([][]string, 0, len(clusters))
	for _, c := range clusters {
		rows = append(rows, []string{
			c.Label,
			c.Keywords,
			fmt.Sprintf("%t", c.Done),
			strings.Join(c.CheckedKeywords, "; "),
		})
	}
	if err := output.SaveCSV(args[0], []string{"Cluster Label", "Keywords", "Done", "Checked Keywords"}, rows); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d cluster(s) exported to %s\n", ui.Success("✓"), len(rows), args[0])
	return nil
}

func plannerSetDone(done bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		store, err := plannerStore(cmd)
		if err != nil {
			return err
		}
		if err := store.SetDone(args[0], done); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Success("✓"), args[0])
		return nil
	}
}

func plannerCheck(checked bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		store, err := plannerStore(cmd)
		if err != nil {
			return err
		}
		if err := store.CheckKeyword(args[0], args[1], checked); err != nil {
			return err
		}
		c, err := store.Find(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Success("✓"), c.Label, ui.Dim(c.Progress()))
		return nil
	}
}

func runPlannerRemove(cmd *cobra.Command, args []string) error {
	store, err := plannerStore(cmd)
	if err != nil {
		return err
	}
	if err := store.RemoveKeywords(args[0], args[1:]...); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s removed %d keyword(s)\n", ui.Success("✓"), len(args)-1)
	return nil
}

func runPlannerDelete(cmd *cobra.Command, args []string) error {
	store, err := plannerStore(cmd)
	if err != nil {
		return err
	}
	if err := store.Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s deleted %s\n", ui.Success("✓"), args[0])
	return nil
}

func runPlannerClear(cmd *cobra.Command, args []string) error {
	store, err := plannerStore(cmd)
	if err != nil {
		return err
	}
	if !plannerYes {
		fmt.Fprintf(cmd.ErrOrStderr(), "Delete all clusters in %s? [y/N] ", store.Path())
		var answer string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			return nil
		}
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s plan cleared\n", ui.Success("✓"))
	return nil
}
