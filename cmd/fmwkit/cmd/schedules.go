package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
	"github.com/msto63/fmwkit/internal/fmeserver"
	"github.com/msto63/fmwkit/pkg/core/cache"
)

var (
	schedServer    string
	schedWorkspace string
	schedRepo      string
	schedDay       string
	schedRefresh   bool
)

var schedulesCmd = &cobra.Command{
	Use:   "schedules",
	Short: "List FME Server schedules",
	Long: `Lists the schedules of a configured FME Server.

The schedule list is fetched at most once per day and cached; --refresh
fetches it again.`,
	Args: cobra.NoArgs,
	RunE: runSchedules,
}

func init() {
	schedulesCmd.Flags().StringVarP(&schedServer, "server", "s", "", "server label from the config")
	schedulesCmd.Flags().StringVarP(&schedWorkspace, "workspace", "w", "", "only schedules running this workspace")
	schedulesCmd.Flags().StringVar(&schedRepo, "repository", "", "repository filter (default: the server's repository)")
	schedulesCmd.Flags().StringVar(&schedDay, "day", "", "cache day as YYYY-MM-DD (default: today)")
	schedulesCmd.Flags().BoolVar(&schedRefresh, "refresh", false, "ignore the cached list")
	schedulesCmd.MarkFlagRequired("server")
	rootCmd.AddCommand(schedulesCmd)
}

func runSchedules(cmd *cobra.Command, args []string) error {
	server, err := cfg.Credentials(schedServer)
	if err != nil {
		return err
	}
	day := time.Now()
	if schedDay != "" {
		day, err = time.ParseInLocation("2006-01-02", schedDay, time.Local)
		if err != nil {
			return mdwerror.Wrap(err, "invalid --day").WithCode(mdwerror.CodeInvalidInput)
		}
	}

	store, closer, err := openStore()
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), server.Timeout.Duration+5*time.Second)
	defer cancel()

	sc := &fmeserver.ScheduleCache{
		Client: fmeserver.NewClient(fmeserver.FromServerConfig(server)),
		Store:  store,
		Label:  schedServer,
		Logger: logger.WithField("server", schedServer),
	}

	if schedRefresh {
		fresh, err := sc.Client.Schedules(ctx)
		if err != nil {
			return err
		}
		if err := store.Put(ctx, cache.NewKey(schedServer, day), fresh); err != nil {
			return err
		}
	}

	var schedules []fmeserver.Schedule
	if schedWorkspace != "" {
		repo := schedRepo
		if repo == "" {
			repo = server.Repository
		}
		schedules, err = sc.ForWorkspace(ctx, day, repo, schedWorkspace)
	} else {
		schedules, err = sc.Schedules(ctx, day)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s schedules, %s", schedServer, day.Format("2006-01-02"))))
	var rows [][]string
	for _, s := range schedules {
		when := s.Recurrence
		if s.Cron != "" {
			when = s.Cron
		}
		rows = append(rows, []string{s.Name, s.Repository, s.Workspace, yesNo(s.Enabled), s.Begin.Format(time.RFC3339), when})
	}
	fmt.Fprintln(out, newTable([]string{"Name", "Repository", "Workspace", "Enabled", "Begin", "Recurrence"}, rows))
	return nil
}
