package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
	"github.com/msto63/fmwkit/internal/tnsnames"
)

var tnsCmd = &cobra.Command{
	Use:   "tns <tnsnames.ora> [alias]",
	Short: "Resolve TNSNAMES.ORA aliases",
	Long: `Lists the aliases of a TNSNAMES.ORA file with their easy connect
strings, or resolves a single alias.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTNS,
}

func init() {
	rootCmd.AddCommand(tnsCmd)
}

func runTNS(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return mdwerror.Wrap(err, "open tnsnames").
			WithCode(mdwerror.CodeNotFound).
			WithDetail("path", args[0])
	}
	defer f.Close()

	entries, err := tnsnames.Parse(f)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 2 {
		e, ok := tnsnames.Lookup(entries, args[1])
		if !ok {
			return mdwerror.Newf("alias %q not found", args[1]).
				WithCode(mdwerror.CodeNotFound).
				WithDetail("path", args[0])
		}
		easy, err := e.EasyConnect()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, easy)
		return nil
	}

	var rows [][]string
	for i := range entries {
		e := &entries[i]
		easy, err := e.EasyConnect()
		if err != nil {
			easy = warnStyle.Render("incomplete")
		}
		rows = append(rows, []string{strings.Join(e.Aliases, ", "), e.Host(), e.Port(), e.ServiceName(), easy})
	}
	fmt.Fprintln(out, titleStyle.Render(args[0]))
	fmt.Fprintln(out, newTable([]string{"Aliases", "Host", "Port", "Service", "Easy connect"}, rows))
	return nil
}
