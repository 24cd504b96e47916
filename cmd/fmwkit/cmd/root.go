package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
	mdwlog "github.com/msto63/fmwkit/foundation/core/log"
	"github.com/msto63/fmwkit/internal/fmw"
	"github.com/msto63/fmwkit/pkg/core/config"
	"github.com/msto63/fmwkit/pkg/core/logging"
)

var (
	cfgFile   string
	verbose   bool
	logFormat string

	cfg       *config.Config
	logger    *mdwlog.Logger
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "fmwkit",
	Short: "FME workspace toolkit",
	Long: `fmwkit reads FME workspace (.fmw) files and reports what they do.

Commands:
  inspect    - overview of datasets, feature types and transformers
  params     - published parameters and their resolved defaults
  fieldmap   - attribute renames from renamers and drawn lines
  report     - full workspace report as markdown, JSON or YAML
  schedules  - FME Server schedules, cached per day
  tns        - resolve TNSNAMES.ORA aliases`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $"+config.EnvConfigPath+" or ./configs/fmwkit.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (overrides config)")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return err
	}

	lc := logging.FromConfig("fmwkit", cfg.Log)
	if verbose {
		lc.Level = "debug"
	}
	if logFormat != "" {
		lc.Format = logFormat
	}
	logger, logCloser, err = logging.NewLogger(lc)
	if err != nil {
		return err
	}
	mdwlog.SetDefault(logger)
	return nil
}

// loadConfig falls back to defaults when no config file exists and none
// was asked for explicitly.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	c, err := config.LoadFromEnv()
	if mdwerror.HasCode(err, mdwerror.CodeMissingConfig) {
		return config.Default(), nil
	}
	return c, err
}

func parseWorkspace(path string) (*fmw.Workspace, error) {
	return fmw.ParseFile(path, fmw.WithLogger(logger))
}

func printError(err error) {
	msg := err.Error()
	if code := mdwerror.GetCode(err); code != "" && code != mdwerror.CodeUnknown {
		msg = fmt.Sprintf("%s [%s]", msg, code)
	}
	fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+msg)
}
