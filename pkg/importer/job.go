package importer

import (
	"context"
	"fmt"

	"github.com/storyhub-org/storyhub/pkg/audit"
	"github.com/storyhub-org/storyhub/pkg/fetch"
)

// Kinds accepted by Job.Run. KindBundle imports profiles and then stories.
const (
	KindProfiles = "profiles"
	KindStories  = "stories"
	KindBundle   = "bundle"
)

// Job loads a source, imports the selected records and records one import
// event per record type on the activity log.
type Job struct {
	Importer *Importer
	Fetch    *fetch.Client
	Audit    *audit.Recorder
}

func (j *Job) Run(ctx context.Context, actor audit.Actor, source, kind string) (Report, error) {
	var report Report

	recordKind := kind
	switch kind {
	case KindProfiles, KindStories:
	case KindBundle:
		recordKind = ""
	default:
		return report, fmt.Errorf("unknown import kind %q", kind)
	}
	b, err := Load(ctx, j.Fetch, source, recordKind)
	if err != nil {
		return report, err
	}

	switch kind {
	case KindProfiles:
		report.Profiles = j.Importer.ImportProfiles(ctx, b.Profiles)
	case KindStories:
		report.Stories = j.Importer.ImportStories(ctx, b.Stories)
	default:
		report = j.Importer.Import(ctx, b)
	}

	if kind != KindStories {
		j.record(ctx, actor, source, KindProfiles, report.Profiles)
	}
	if kind != KindProfiles {
		j.record(ctx, actor, source, KindStories, report.Stories)
	}
	return report, nil
}

func (j *Job) record(ctx context.Context, actor audit.Actor, source, kind string, res Result) {
	if j.Audit == nil {
		return
	}
	j.Audit.Record(ctx, audit.ImportEvent{
		Actor:   actor,
		Source:  source,
		Kind:    kind,
		Created: res.Created,
		Skipped: res.Skipped,
		Failed:  res.Failed,
	})
}
