package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fieldmapCmd = &cobra.Command{
	Use:   "fieldmap <file.fmw>",
	Short: "Show attribute renames",
	Long: `Shows the attribute renames (field maps) of a workspace.

Renames come from enabled AttributeRenamer transformers and from
@RenameAttributes calls in the drawn-line script. A warning is printed
when both sources are present.`,
	Args: cobra.ExactArgs(1),
	RunE: runFieldmap,
}

func init() {
	rootCmd.AddCommand(fieldmapCmd)
}

func runFieldmap(cmd *cobra.Command, args []string) error {
	ws, err := parseWorkspace(args[0])
	if err != nil {
		return err
	}
	set, err := ws.FieldMaps()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, titleStyle.Render(ws.Name()+" field maps"))
	if set.Conflict != nil {
		fmt.Fprintln(out, warnStyle.Render("warning: ")+set.Conflict.Error())
	}

	var rows [][]string
	for _, e := range set.Renamer {
		rows = append(rows, []string{e.Old, e.New, "renamer"})
	}
	for _, e := range set.Drawn {
		rows = append(rows, []string{e.Old, e.New, "drawn line"})
	}
	fmt.Fprintln(out, newTable([]string{"Old", "New", "Source"}, rows))
	return nil
}
