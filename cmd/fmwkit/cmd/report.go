package cmd

import (
	"bytes"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
	mdwlog "github.com/msto63/fmwkit/foundation/core/log"
	"github.com/msto63/fmwkit/internal/report"
)

var (
	reportFormat string
	reportRender bool
	reportOutput string
	reportWidth  int
)

var reportCmd = &cobra.Command{
	Use:   "report <file.fmw>",
	Short: "Write a full workspace report",
	Long: `Writes a report of a workspace as markdown, JSON or YAML.

With --render markdown is rendered for the terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "markdown", "markdown, json or yaml")
	reportCmd.Flags().BoolVar(&reportRender, "render", false, "render markdown for the terminal")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write to file instead of stdout")
	reportCmd.Flags().IntVar(&reportWidth, "width", 100, "word wrap width for --render")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(reportFormat)
	if err != nil {
		return err
	}
	ws, err := parseWorkspace(args[0])
	if err != nil {
		return err
	}

	timer := logger.StartTimer("build report")
	summary := report.Build(ws)
	var buf bytes.Buffer
	if err := report.Render(&buf, summary, format); err != nil {
		return err
	}
	timer.Stop()

	data := buf.Bytes()
	if reportRender && format == report.FormatMarkdown {
		rendered, err := renderMarkdown(buf.String(), reportWidth)
		if err != nil {
			return err
		}
		data = []byte(rendered)
	}

	var w io.Writer = cmd.OutOrStdout()
	if reportOutput != "" {
		f, err := os.Create(reportOutput)
		if err != nil {
			return mdwerror.Wrap(err, "create report file").
				WithCode(mdwerror.CodeStorageError).
				WithDetail("path", reportOutput)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(data); err != nil {
		return mdwerror.Wrap(err, "write report").WithCode(mdwerror.CodeStorageError)
	}
	logger.Info("report written", mdwlog.Fields{
		"run_id": summary.RunID,
		"format": string(format),
	})
	return nil
}

func renderMarkdown(content string, width int) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", mdwerror.Wrap(err, "create markdown renderer").WithCode(mdwerror.CodeInternal)
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return "", mdwerror.Wrap(err, "render markdown").WithCode(mdwerror.CodeInternal)
	}
	return rendered, nil
}
