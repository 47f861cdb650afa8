// Package reports assembles dashboards and funder reports from store rows.
package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/storyhub-org/storyhub/pkg/server/store"
	"github.com/storyhub-org/storyhub/pkg/stats"
)

var ErrInvalidPeriod = errors.New("period end must be after its start")

// Generator loads rows concurrently and hands them to the stats package.
type Generator struct {
	Stats store.StatsStore
	Now   func() time.Time
}

func NewGenerator(s store.StatsStore) *Generator {
	return &Generator{Stats: s, Now: func() time.Time { return time.Now().UTC() }}
}

type rowSet struct {
	stories  []store.StoryRow
	profiles []store.ProfileRow
	media    []store.MediaRow
	projects []store.ProjectRow
}

// load fetches every row set at once. Stories are always loaded unbounded
// so publication inside the period can be judged on published_at.
func (g *Generator) load(ctx context.Context, r store.TimeRange) (*rowSet, error) {
	var rs rowSet
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		rs.stories, err = g.Stats.StoryRows(ctx, store.TimeRange{})
		return err
	})
	eg.Go(func() (err error) {
		rs.profiles, err = g.Stats.ProfileRows(ctx, r)
		return err
	})
	eg.Go(func() (err error) {
		rs.media, err = g.Stats.MediaRows(ctx, r)
		return err
	})
	eg.Go(func() (err error) {
		rs.projects, err = g.Stats.ProjectRows(ctx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("load report rows: %w", err)
	}
	return &rs, nil
}

// Impact is the all-time dashboard.
func (g *Generator) Impact(ctx context.Context) (stats.Impact, error) {
	rs, err := g.load(ctx, store.TimeRange{})
	if err != nil {
		return stats.Impact{}, err
	}
	return stats.ComputeImpact(g.Now(), rs.stories, rs.profiles, rs.media, rs.projects), nil
}

// Stories breaks down stories created in r.
func (g *Generator) Stories(ctx context.Context, r store.TimeRange) (stats.StoryBreakdown, error) {
	rows, err := g.Stats.StoryRows(ctx, r)
	if err != nil {
		return stats.StoryBreakdown{}, fmt.Errorf("load story rows: %w", err)
	}
	return stats.ComputeStoryBreakdown(rows), nil
}
