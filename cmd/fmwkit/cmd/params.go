package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var paramsCmd = &cobra.Command{
	Use:   "params <file.fmw>",
	Short: "List published parameters",
	Long: `Lists the published parameters of a workspace with their defaults.

Defaults that reference other parameters are shown with their resolved
value. Parameters filled by a Python script are never resolved.`,
	Args: cobra.ExactArgs(1),
	RunE: runParams,
}

func init() {
	rootCmd.AddCommand(paramsCmd)
}

func runParams(cmd *cobra.Command, args []string) error {
	ws, err := parseWorkspace(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, titleStyle.Render(ws.Name()+" parameters"))

	var rows [][]string
	for _, p := range ws.PublishedParameters() {
		resolved, err := ws.Dereference(p.Default)
		switch {
		case err != nil:
			resolved = warnStyle.Render("unresolved")
		case p.Scripted():
			resolved = mutedStyle.Render("scripted")
		}
		flags := []string{}
		if p.Optional {
			flags = append(flags, "optional")
		}
		if p.Ignored {
			flags = append(flags, "ignored")
		}
		if len(p.Options) > 0 {
			flags = append(flags, "choice: "+strings.Join(p.Options, "/"))
		}
		rows = append(rows, []string{p.Name, p.Kind, p.Default, resolved, p.Descriptor, strings.Join(flags, ", ")})
	}
	fmt.Fprintln(out, newTable([]string{"Name", "Kind", "Default", "Resolved", "Prompt", "Flags"}, rows))
	return nil
}
