package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
	mdwlog "github.com/msto63/fmwkit/foundation/core/log"
	"github.com/msto63/fmwkit/pkg/core/cache"
)

// openStore opens the cache backend named in the [cache] section.
func openStore() (cache.Store, io.Closer, error) {
	switch strings.ToLower(cfg.Cache.Backend) {
	case "", "file":
		s, err := cache.NewFileStore(cfg.Cache.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	case "sqlite":
		s, err := cache.NewSQLiteStore(cache.SQLiteConfig{Path: filepath.Join(cfg.Cache.Path, "documents.db")})
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case "memory":
		return cache.NewMemoryStore(), nopCloser{}, nil
	}
	return nil, nil, mdwerror.Newf("unknown cache backend %q", cfg.Cache.Backend).
		WithCode(mdwerror.CodeConfigError).
		WithDetail("supported", []string{"file", "sqlite", "memory"})
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the day-keyed document cache",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove cached documents older than the retention period",
	Args:  cobra.NoArgs,
	RunE:  runCachePrune,
}

var pruneRetention time.Duration

func init() {
	cachePruneCmd.Flags().DurationVar(&pruneRetention, "retention", 0, "override the configured retention")
	cacheCmd.AddCommand(cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCachePrune(cmd *cobra.Command, args []string) error {
	store, closer, err := openStore()
	if err != nil {
		return err
	}
	defer closer.Close()

	retention := cfg.Cache.Retention.Duration
	if pruneRetention > 0 {
		retention = pruneRetention
	}
	before := time.Now().Add(-retention)

	n, err := store.Prune(context.Background(), before)
	if err != nil {
		return err
	}
	logger.Info("cache pruned", mdwlog.Fields{
		"backend": cfg.Cache.Backend,
		"removed": n,
		"before":  before.Format("2006-01-02"),
	})
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d document(s) older than %s\n",
		labelStyle.Render("Removed"), n, before.Format("2006-01-02"))
	return nil
}
