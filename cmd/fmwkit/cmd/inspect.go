package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/msto63/fmwkit/internal/fmw"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.fmw>",
	Short: "Show an overview of a workspace",
	Long: `Shows datasets, feature types and transformers of a workspace.

Feature types are joined to their dataset by keyword; destination feature
types also show the resolved schema and table.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var inspectAll bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectAll, "all", false, "include disabled transformers")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	ws, err := parseWorkspace(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, titleStyle.Render(ws.Name()))
	fmt.Fprintln(out, field("Datasets", fmt.Sprintf("%d source, %d destination",
		len(ws.SourceDatasets()), len(ws.DestinationDatasets()))))
	fmt.Fprintln(out, field("Feature types", fmt.Sprintf("%d source, %d destination",
		len(ws.SourceFeatureTypes()), len(ws.DestinationFeatureTypes()))))
	fmt.Fprintln(out, field("Transformers", fmt.Sprintf("%d enabled of %d",
		len(ws.Transformers(true)), len(ws.Transformers(false)))))
	fmt.Fprintln(out, field("Parameters", strconv.Itoa(len(ws.PublishedParameters()))))

	if args := ws.Sections().CommandLineArgs(); len(args) > 0 {
		fmt.Fprintln(out, sectionStyle.Render("Command line"))
		var rows [][]string
		for _, a := range args {
			rows = append(rows, []string{a.Name, a.Value})
		}
		fmt.Fprintln(out, newTable([]string{"Argument", "Value"}, rows))
	}

	fmt.Fprintln(out, sectionStyle.Render("Datasets"))
	var rows [][]string
	for _, d := range ws.Datasets() {
		role := "destination"
		if d.IsSource() {
			role = "source"
		}
		rows = append(rows, []string{d.Keyword(), role, d.Format(), d.Location()})
	}
	fmt.Fprintln(out, newTable([]string{"Keyword", "Role", "Format", "Location"}, rows))

	fmt.Fprintln(out, sectionStyle.Render("Feature types"))
	rows = nil
	for _, ft := range ws.FeatureTypes() {
		rows = append(rows, featureTypeRow(ws, ft))
	}
	fmt.Fprintln(out, newTable([]string{"Name", "Role", "Dataset", "Columns", "Target"}, rows))

	fmt.Fprintln(out, sectionStyle.Render("Transformers"))
	rows = nil
	for _, t := range ws.Transformers(!inspectAll) {
		rows = append(rows, []string{t.Identifier(), t.Type(), t.Version(), yesNo(t.Enabled()), strconv.Itoa(t.Line())})
	}
	fmt.Fprintln(out, newTable([]string{"ID", "Type", "Version", "Enabled", "Line"}, rows))
	return nil
}

func featureTypeRow(ws *fmw.Workspace, ft *fmw.FeatureType) []string {
	role, target := "source", ""
	if !ft.IsSource() {
		role = "destination"
		schema, err := ws.DestinationSchema(ft)
		if err != nil {
			target = warnStyle.Render("unresolved")
		} else {
			table, _ := ws.DestinationTable(ft)
			target = schema + "." + table
		}
	}
	dataset := mutedStyle.Render("unlinked")
	if ft.Dataset != nil {
		dataset = ft.Dataset.Keyword()
	}
	return []string{ft.Name(), role, dataset, strconv.Itoa(len(ft.Columns)), target}
}
