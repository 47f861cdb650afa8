package reports

import (
	"context"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/render"
	"github.com/storyhub-org/storyhub/pkg/server/store"
	"github.com/storyhub-org/storyhub/pkg/stats"
)

// TopCategoryCount is how many categories a funder report lists.
const TopCategoryCount = 5

type ProjectLine struct {
	Name        string              `json:"name"`
	Status      model.ProjectStatus `json:"status"`
	Funder      string              `json:"funder,omitempty"`
	BudgetCents int64               `json:"budget_cents"`
}

// FunderReport summarises activity in [From, To).
type FunderReport struct {
	From             time.Time      `json:"from"`
	To               time.Time      `json:"to"`
	StoriesCollected int            `json:"stories_collected"`
	StoriesPublished int            `json:"stories_published"`
	ConsentRate      float64        `json:"consent_rate"`
	NewStorytellers  int            `json:"new_storytellers"`
	MediaUploaded    int            `json:"media_uploaded"`
	MediaBytes       int64          `json:"media_bytes"`
	MediaByKind      []stats.Bucket `json:"media_by_kind"`
	TopCategories    []stats.Bucket `json:"top_categories"`
	ProjectsByStatus []stats.Bucket `json:"projects_by_status"`
	Projects         []ProjectLine  `json:"projects"`
	Funders          []string       `json:"funders"`
	GeneratedAt      time.Time      `json:"generated_at"`
}

// Funder builds the report for [from, to).
func (g *Generator) Funder(ctx context.Context, from, to time.Time) (*FunderReport, error) {
	if !to.After(from) {
		return nil, ErrInvalidPeriod
	}
	period := store.TimeRange{From: from, To: to}
	rs, err := g.load(ctx, period)
	if err != nil {
		return nil, err
	}

	rep := &FunderReport{From: from.UTC(), To: to.UTC(), GeneratedAt: g.Now()}

	var categories []string
	consented := 0
	for _, s := range rs.stories {
		if s.PublishedAt != nil && period.Contains(*s.PublishedAt) {
			rep.StoriesPublished++
		}
		if !period.Contains(s.CreatedAt) {
			continue
		}
		rep.StoriesCollected++
		categories = append(categories, s.Category)
		if s.ConsentGiven {
			consented++
		}
	}
	rep.ConsentRate = stats.Percent(consented, rep.StoriesCollected)
	rep.TopCategories = stats.GroupByKey(categories)
	if len(rep.TopCategories) > TopCategoryCount {
		rep.TopCategories = rep.TopCategories[:TopCategoryCount]
	}

	for _, p := range rs.profiles {
		if p.Role == model.RoleStoryteller {
			rep.NewStorytellers++
		}
	}

	kinds := make([]string, 0, len(rs.media))
	for _, m := range rs.media {
		rep.MediaUploaded++
		rep.MediaBytes += m.SizeBytes
		kinds = append(kinds, string(m.Kind))
	}
	rep.MediaByKind = stats.GroupByKey(kinds)

	funders := make(map[string]bool)
	statuses := make([]string, 0, len(rs.projects))
	rep.Projects = make([]ProjectLine, 0, len(rs.projects))
	for _, p := range rs.projects {
		rep.Projects = append(rep.Projects, ProjectLine{
			Name:        p.Name,
			Status:      p.Status,
			Funder:      p.Funder,
			BudgetCents: p.BudgetCents,
		})
		statuses = append(statuses, string(p.Status))
		if f := strings.TrimSpace(p.Funder); f != "" {
			funders[f] = true
		}
	}
	rep.ProjectsByStatus = stats.GroupByKey(statuses)
	rep.Funders = make([]string, 0, len(funders))
	for f := range funders {
		rep.Funders = append(rep.Funders, f)
	}
	sort.Strings(rep.Funders)

	return rep, nil
}

// Markdown renders the report as a markdown document.
func (r *FunderReport) Markdown() string {
	var b strings.Builder
	day := "2 Jan 2006"

	fmt.Fprintf(&b, "# Funder report\n\n")
	fmt.Fprintf(&b, "Period: %s to %s\n\n", r.From.Format(day), r.To.Add(-time.Nanosecond).Format(day))

	b.WriteString("## Stories\n\n")
	fmt.Fprintf(&b, "- Collected: %d\n", r.StoriesCollected)
	fmt.Fprintf(&b, "- Published: %d\n", r.StoriesPublished)
	fmt.Fprintf(&b, "- Consent recorded: %.1f%%\n", r.ConsentRate)
	fmt.Fprintf(&b, "- New storytellers: %d\n\n", r.NewStorytellers)

	if len(r.TopCategories) > 0 {
		b.WriteString("### Top categories\n\n")
		writeBuckets(&b, "Category", r.TopCategories)
	}

	b.WriteString("## Media\n\n")
	fmt.Fprintf(&b, "%d files uploaded (%s).\n\n", r.MediaUploaded, humanBytes(r.MediaBytes))
	if len(r.MediaByKind) > 0 {
		writeBuckets(&b, "Kind", r.MediaByKind)
	}

	b.WriteString("## Projects\n\n")
	if len(r.Projects) == 0 {
		b.WriteString("No projects recorded.\n")
		return b.String()
	}
	b.WriteString("| Project | Status | Funder | Budget |\n|---|---|---|---|\n")
	for _, p := range r.Projects {
		funder := p.Funder
		if funder == "" {
			funder = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", cell(p.Name), p.Status, cell(funder), money(p.BudgetCents))
	}
	if len(r.Funders) > 0 {
		fmt.Fprintf(&b, "\nFunders: %s\n", strings.Join(r.Funders, ", "))
	}
	return b.String()
}

// HTML renders the markdown form.
func (r *FunderReport) HTML() (template.HTML, error) {
	return render.Markdown(r.Markdown())
}

func writeBuckets(b *strings.Builder, label string, buckets []stats.Bucket) {
	fmt.Fprintf(b, "| %s | Count |\n|---|---|\n", label)
	for _, k := range buckets {
		fmt.Fprintf(b, "| %s | %d |\n", cell(k.Key), k.Count)
	}
	b.WriteString("\n")
}

func cell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}

func money(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
