package stats

import (
	"time"

	"github.com/google/uuid"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

// Impact is the headline dashboard.
type Impact struct {
	TotalStories       int       `json:"total_stories"`
	PublishedStories   int       `json:"published_stories"`
	DraftStories       int       `json:"draft_stories"`
	InReviewStories    int       `json:"in_review_stories"`
	Storytellers       int       `json:"storytellers"`
	ActiveStorytellers int       `json:"active_storytellers"`
	MediaFiles         int       `json:"media_files"`
	MediaBytes         int64     `json:"media_bytes"`
	Projects           int       `json:"projects"`
	ActiveProjects     int       `json:"active_projects"`
	PublishRate        float64   `json:"publish_rate"`
	ConsentRate        float64   `json:"consent_rate"`
	StoriesThisMonth   int       `json:"stories_this_month"`
	StoriesLastMonth   int       `json:"stories_last_month"`
	StoryGrowth        float64   `json:"story_growth"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// ComputeImpact folds the row sets into the dashboard. An active
// storyteller is an active profile with the storyteller role and at least
// one story.
func ComputeImpact(now time.Time, stories []store.StoryRow, profiles []store.ProfileRow, media []store.MediaRow, projects []store.ProjectRow) Impact {
	out := Impact{GeneratedAt: now.UTC()}

	thisMonth := MonthKey(now)
	lastMonth := MonthKey(time.Date(now.UTC().Year(), now.UTC().Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0))

	tellersWithStories := make(map[uuid.UUID]bool)
	consented := 0
	for _, s := range stories {
		out.TotalStories++
		switch s.Status {
		case model.StoryPublished:
			out.PublishedStories++
		case model.StoryDraft:
			out.DraftStories++
		case model.StoryReview:
			out.InReviewStories++
		}
		if s.ConsentGiven {
			consented++
		}
		switch MonthKey(s.CreatedAt) {
		case thisMonth:
			out.StoriesThisMonth++
		case lastMonth:
			out.StoriesLastMonth++
		}
		tellersWithStories[s.StorytellerID] = true
	}

	for _, p := range profiles {
		if p.Role != model.RoleStoryteller {
			continue
		}
		out.Storytellers++
		if p.IsActive && tellersWithStories[p.ID] {
			out.ActiveStorytellers++
		}
	}

	for _, m := range media {
		out.MediaFiles++
		out.MediaBytes += m.SizeBytes
	}

	for _, p := range projects {
		out.Projects++
		if p.Status == model.ProjectActive {
			out.ActiveProjects++
		}
	}

	out.PublishRate = Percent(out.PublishedStories, out.TotalStories)
	out.ConsentRate = Percent(consented, out.TotalStories)
	out.StoryGrowth = GrowthPercent(out.StoriesLastMonth, out.StoriesThisMonth)
	return out
}

// StoryBreakdown groups stories for the stories dashboard.
type StoryBreakdown struct {
	ByCategory []Bucket `json:"by_category"`
	ByMonth    []Bucket `json:"by_month"`
	ByStatus   []Bucket `json:"by_status"`
}

func ComputeStoryBreakdown(stories []store.StoryRow) StoryBreakdown {
	categories := make([]string, len(stories))
	statuses := make([]string, len(stories))
	created := make([]time.Time, len(stories))
	for i, s := range stories {
		categories[i] = s.Category
		statuses[i] = string(s.Status)
		created[i] = s.CreatedAt
	}
	return StoryBreakdown{
		ByCategory: GroupByKey(categories),
		ByMonth:    GroupByMonth(created),
		ByStatus:   GroupByKey(statuses),
	}
}
