package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/storyhub-org/storyhub/pkg/logging"
	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

var ErrUnknownStoryteller = errors.New("unknown storyteller")

type Importer struct {
	Profiles store.ProfilesStore
	Stories  store.StoriesStore

	validate *validator.Validate
}

func New(profiles store.ProfilesStore, stories store.StoriesStore) *Importer {
	return &Importer{
		Profiles: profiles,
		Stories:  stories,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Import loads profiles first so stories in the same bundle can refer to them.
func (im *Importer) Import(ctx context.Context, b Bundle) Report {
	return Report{
		Profiles: im.ImportProfiles(ctx, b.Profiles),
		Stories:  im.ImportStories(ctx, b.Stories),
	}
}

func (im *Importer) ImportProfiles(ctx context.Context, records []ProfileRecord) Result {
	var res Result
	seen := make(map[string]bool, len(records))

	for _, rec := range records {
		if ctx.Err() != nil {
			res.fail(rec.ExternalID, ctx.Err())
			continue
		}
		rec.ExternalID = strings.TrimSpace(rec.ExternalID)
		if err := im.validate.Struct(rec); err != nil {
			res.fail(rec.ExternalID, err)
			continue
		}
		if seen[rec.ExternalID] {
			res.Skipped++
			continue
		}
		seen[rec.ExternalID] = true

		created, err := im.importProfile(ctx, rec)
		switch {
		case err != nil:
			res.fail(rec.ExternalID, err)
		case created:
			res.Created++
		default:
			res.Skipped++
		}
	}

	logResult("profiles", res)
	return res
}

func (im *Importer) importProfile(ctx context.Context, rec ProfileRecord) (bool, error) {
	_, err := im.Profiles.FindProfileByExternalID(ctx, rec.ExternalID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	externalID := rec.ExternalID
	p := &model.Profile{
		ExternalID:  &externalID,
		DisplayName: rec.DisplayName,
		Bio:         rec.Bio,
		Location:    rec.Location,
		Role:        model.Role(rec.Role),
		IsActive:    true,
	}
	if rec.Email != "" {
		email := strings.ToLower(rec.Email)
		p.Email = &email
	}
	if len(rec.CulturalProtocols) > 0 {
		p.CulturalProtocols = datatypes.JSON(rec.CulturalProtocols)
	}
	return insert(im.Profiles.CreateProfile(ctx, p), func() error {
		_, err := im.Profiles.FindProfileByExternalID(ctx, rec.ExternalID)
		return err
	})
}

func (im *Importer) ImportStories(ctx context.Context, records []StoryRecord) Result {
	var res Result
	seen := make(map[string]bool, len(records))
	tellers := make(map[string]uuid.UUID)

	for _, rec := range records {
		if ctx.Err() != nil {
			res.fail(rec.ExternalID, ctx.Err())
			continue
		}
		rec.ExternalID = strings.TrimSpace(rec.ExternalID)
		if err := im.validate.Struct(rec); err != nil {
			res.fail(rec.ExternalID, err)
			continue
		}
		if seen[rec.ExternalID] {
			res.Skipped++
			continue
		}
		seen[rec.ExternalID] = true

		created, err := im.importStory(ctx, rec, tellers)
		switch {
		case err != nil:
			res.fail(rec.ExternalID, err)
		case created:
			res.Created++
		default:
			res.Skipped++
		}
	}

	logResult("stories", res)
	return res
}

func (im *Importer) importStory(ctx context.Context, rec StoryRecord, tellers map[string]uuid.UUID) (bool, error) {
	_, err := im.Stories.FindStoryByExternalID(ctx, rec.ExternalID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	tellerID, ok := tellers[rec.StorytellerExternalID]
	if !ok {
		teller, err := im.Profiles.FindProfileByExternalID(ctx, rec.StorytellerExternalID)
		if errors.Is(err, store.ErrNotFound) {
			return false, fmt.Errorf("%w %q", ErrUnknownStoryteller, rec.StorytellerExternalID)
		}
		if err != nil {
			return false, err
		}
		tellerID = teller.ID
		tellers[rec.StorytellerExternalID] = tellerID
	}

	externalID := rec.ExternalID
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	s := &model.Story{
		ExternalID:    &externalID,
		StorytellerID: tellerID,
		Title:         rec.Title,
		Summary:       rec.Summary,
		Content:       rec.Content,
		Category:      rec.Category,
		Tags:          datatypes.JSONSlice[string](tags),
		Status:        model.StoryStatus(rec.Status),
		ConsentGiven:  rec.ConsentGiven,
		IsFeatured:    rec.IsFeatured,
		PublishedAt:   rec.PublishedAt,
	}
	return insert(im.Stories.CreateStory(ctx, s), func() error {
		_, err := im.Stories.FindStoryByExternalID(ctx, rec.ExternalID)
		return err
	})
}

// insert reports a duplicate as a skip only when exists finds the external id
// now present, meaning another writer imported it first. Any other unique-key
// collision fails the record.
func insert(err error, exists func() error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, store.ErrDuplicate) && exists() == nil {
		return false, nil
	}
	return false, err
}

func logResult(kind string, res Result) {
	logging.Log.WithFields(logrus.Fields{
		"created": res.Created,
		"skipped": res.Skipped,
		"failed":  res.Failed,
	}).Infof("imported %s", kind)
}
