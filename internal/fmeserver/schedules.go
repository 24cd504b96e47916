package fmeserver

import (
	"context"
	"strings"
	"time"

	"github.com/msto63/fmwkit/foundation/core/log"
	"github.com/msto63/fmwkit/pkg/core/cache"
)

// ScheduleCache serves the schedule list of one server from a day-keyed
// store, asking the server at most once per day.
type ScheduleCache struct {
	Client *Client
	Store  cache.Store
	// Label keys the cache documents, normally the server label.
	Label  string
	Logger *log.Logger
}

// Schedules returns the schedules recorded for day.
func (s *ScheduleCache) Schedules(ctx context.Context, day time.Time) ([]Schedule, error) {
	key := cache.NewKey(s.Label, day)

	var schedules []Schedule
	hit, err := cache.ReadThrough(ctx, s.Store, key, &schedules, func(ctx context.Context) (any, error) {
		return s.Client.Schedules(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.logger().Debug("schedules loaded", log.Fields{
		"key":   key.String(),
		"hit":   hit,
		"count": len(schedules),
	})
	return schedules, nil
}

// ForWorkspace returns the schedules of day that run workspace in repo.
// Names compare case-insensitively; an empty repo matches every repository.
func (s *ScheduleCache) ForWorkspace(ctx context.Context, day time.Time, repo, workspace string) ([]Schedule, error) {
	all, err := s.Schedules(ctx, day)
	if err != nil {
		return nil, err
	}

	var out []Schedule
	for _, sc := range all {
		if repo != "" && !strings.EqualFold(sc.Repository, repo) {
			continue
		}
		if strings.EqualFold(sc.Workspace, workspace) {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (s *ScheduleCache) logger() *log.Logger {
	if s.Logger == nil {
		return log.Discard()
	}
	return s.Logger
}
