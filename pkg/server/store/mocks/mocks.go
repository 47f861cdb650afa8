// Package mocks provides testify mocks of the store interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

var (
	_ store.ProfilesStore    = (*ProfilesStore)(nil)
	_ store.CredentialsStore = (*CredentialsStore)(nil)
	_ store.StoriesStore     = (*StoriesStore)(nil)
	_ store.MediaStore       = (*MediaStore)(nil)
	_ store.InterviewsStore  = (*InterviewsStore)(nil)
	_ store.ProjectsStore    = (*ProjectsStore)(nil)
	_ store.ServicesStore    = (*ServicesStore)(nil)
	_ store.KnowledgeStore   = (*KnowledgeStore)(nil)
	_ store.ActivityStore    = (*ActivityStore)(nil)
	_ store.StatsStore       = (*StatsStore)(nil)
	_ store.HealthStore      = (*HealthStore)(nil)
)

// ProfilesStore implements store.ProfilesStore for testing using testify/mock
type ProfilesStore struct {
	mock.Mock
}

func (m *ProfilesStore) ListProfiles(ctx context.Context, filter store.ProfileFilter) ([]model.Profile, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Profile), args.Error(1)
}

func (m *ProfilesStore) CountProfiles(ctx context.Context, filter store.ProfileFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProfilesStore) GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *ProfilesStore) FindProfileByExternalID(ctx context.Context, externalID string) (*model.Profile, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *ProfilesStore) FindProfileByEmail(ctx context.Context, email string) (*model.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *ProfilesStore) CreateProfile(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *ProfilesStore) UpdateProfile(ctx context.Context, id uuid.UUID, patch store.ProfilePatch) (*model.Profile, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *ProfilesStore) SetPermissions(ctx context.Context, id uuid.UUID, perms model.Permissions) (*model.Profile, error) {
	args := m.Called(ctx, id, perms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *ProfilesStore) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// CredentialsStore implements store.CredentialsStore for testing using testify/mock
type CredentialsStore struct {
	mock.Mock
}

func (m *CredentialsStore) GetCredential(ctx context.Context, profileID uuid.UUID) (*model.Credential, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Credential), args.Error(1)
}

func (m *CredentialsStore) SetAPIKeyHash(ctx context.Context, profileID uuid.UUID, hash []byte) error {
	args := m.Called(ctx, profileID, hash)
	return args.Error(0)
}

func (m *CredentialsStore) TouchCredential(ctx context.Context, profileID uuid.UUID) error {
	args := m.Called(ctx, profileID)
	return args.Error(0)
}

// StoriesStore implements store.StoriesStore for testing using testify/mock
type StoriesStore struct {
	mock.Mock
}

func (m *StoriesStore) ListStories(ctx context.Context, filter store.StoryFilter) ([]model.Story, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Story), args.Error(1)
}

func (m *StoriesStore) CountStories(ctx context.Context, filter store.StoryFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *StoriesStore) GetStory(ctx context.Context, id uuid.UUID) (*model.Story, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Story), args.Error(1)
}

func (m *StoriesStore) GetStoryBySlug(ctx context.Context, slug string) (*model.Story, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Story), args.Error(1)
}

func (m *StoriesStore) FindStoryByExternalID(ctx context.Context, externalID string) (*model.Story, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Story), args.Error(1)
}

func (m *StoriesStore) CreateStory(ctx context.Context, story *model.Story) error {
	args := m.Called(ctx, story)
	return args.Error(0)
}

func (m *StoriesStore) UpdateStory(ctx context.Context, id uuid.UUID, patch store.StoryPatch) (*model.Story, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Story), args.Error(1)
}

func (m *StoriesStore) SetStoryStatus(ctx context.Context, id uuid.UUID, status model.StoryStatus) (*model.Story, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Story), args.Error(1)
}

func (m *StoriesStore) DeleteStory(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MediaStore implements store.MediaStore for testing using testify/mock
type MediaStore struct {
	mock.Mock
}

func (m *MediaStore) ListMedia(ctx context.Context, filter store.MediaFilter) ([]model.MediaFile, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MediaFile), args.Error(1)
}

func (m *MediaStore) CountMedia(ctx context.Context, filter store.MediaFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MediaStore) GetMedia(ctx context.Context, id uuid.UUID) (*model.MediaFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MediaFile), args.Error(1)
}

func (m *MediaStore) FindMediaBySHA256(ctx context.Context, sum string) (*model.MediaFile, error) {
	args := m.Called(ctx, sum)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MediaFile), args.Error(1)
}

func (m *MediaStore) CreateMedia(ctx context.Context, media *model.MediaFile) error {
	args := m.Called(ctx, media)
	return args.Error(0)
}

func (m *MediaStore) UpdateMedia(ctx context.Context, id uuid.UUID, patch store.MediaPatch) (*model.MediaFile, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MediaFile), args.Error(1)
}

func (m *MediaStore) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// InterviewsStore implements store.InterviewsStore for testing using testify/mock
type InterviewsStore struct {
	mock.Mock
}

func (m *InterviewsStore) ListInterviews(ctx context.Context, filter store.InterviewFilter) ([]model.Interview, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Interview), args.Error(1)
}

func (m *InterviewsStore) GetInterview(ctx context.Context, id uuid.UUID) (*model.Interview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Interview), args.Error(1)
}

func (m *InterviewsStore) CreateInterview(ctx context.Context, interview *model.Interview) error {
	args := m.Called(ctx, interview)
	return args.Error(0)
}

func (m *InterviewsStore) ReplaceInterview(ctx context.Context, interview *model.Interview) error {
	args := m.Called(ctx, interview)
	return args.Error(0)
}

func (m *InterviewsStore) DeleteInterview(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ProjectsStore implements store.ProjectsStore for testing using testify/mock
type ProjectsStore struct {
	mock.Mock
}

func (m *ProjectsStore) ListProjects(ctx context.Context, filter store.ProjectFilter) ([]model.Project, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *ProjectsStore) GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *ProjectsStore) CreateProject(ctx context.Context, project *model.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *ProjectsStore) ReplaceProject(ctx context.Context, project *model.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *ProjectsStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ServicesStore implements store.ServicesStore for testing using testify/mock
type ServicesStore struct {
	mock.Mock
}

func (m *ServicesStore) ListServices(ctx context.Context, activeOnly bool) ([]model.OrganizationService, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrganizationService), args.Error(1)
}

func (m *ServicesStore) GetService(ctx context.Context, id uuid.UUID) (*model.OrganizationService, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrganizationService), args.Error(1)
}

func (m *ServicesStore) CreateService(ctx context.Context, service *model.OrganizationService) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *ServicesStore) ReplaceService(ctx context.Context, service *model.OrganizationService) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *ServicesStore) DeleteService(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// KnowledgeStore implements store.KnowledgeStore for testing using testify/mock
type KnowledgeStore struct {
	mock.Mock
}

func (m *KnowledgeStore) ListKnowledge(ctx context.Context, category string, page store.Page) ([]model.KnowledgeEntry, error) {
	args := m.Called(ctx, category, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.KnowledgeEntry), args.Error(1)
}

func (m *KnowledgeStore) GetKnowledge(ctx context.Context, id uuid.UUID) (*model.KnowledgeEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.KnowledgeEntry), args.Error(1)
}

func (m *KnowledgeStore) GetKnowledgeBySlug(ctx context.Context, slug string) (*model.KnowledgeEntry, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.KnowledgeEntry), args.Error(1)
}

func (m *KnowledgeStore) SearchKnowledge(ctx context.Context, query string, filter store.KnowledgeFilter) ([]model.KnowledgeEntry, error) {
	args := m.Called(ctx, query, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.KnowledgeEntry), args.Error(1)
}

func (m *KnowledgeStore) CreateKnowledge(ctx context.Context, entry *model.KnowledgeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *KnowledgeStore) ReplaceKnowledge(ctx context.Context, entry *model.KnowledgeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *KnowledgeStore) UpsertKnowledge(ctx context.Context, entry *model.KnowledgeEntry) (bool, error) {
	args := m.Called(ctx, entry)
	return args.Bool(0), args.Error(1)
}

func (m *KnowledgeStore) DeleteKnowledge(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ActivityStore implements store.ActivityStore for testing using testify/mock
type ActivityStore struct {
	mock.Mock
}

func (m *ActivityStore) SaveActivity(ctx context.Context, activity *model.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *ActivityStore) ListActivity(ctx context.Context, filter store.ActivityFilter) ([]model.Activity, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Activity), args.Error(1)
}

// StatsStore implements store.StatsStore for testing using testify/mock
type StatsStore struct {
	mock.Mock
}

func (m *StatsStore) StoryRows(ctx context.Context, r store.TimeRange) ([]store.StoryRow, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.StoryRow), args.Error(1)
}

func (m *StatsStore) ProfileRows(ctx context.Context, r store.TimeRange) ([]store.ProfileRow, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.ProfileRow), args.Error(1)
}

func (m *StatsStore) MediaRows(ctx context.Context, r store.TimeRange) ([]store.MediaRow, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.MediaRow), args.Error(1)
}

func (m *StatsStore) ProjectRows(ctx context.Context) ([]store.ProjectRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.ProjectRow), args.Error(1)
}

// HealthStore implements store.HealthStore for testing using testify/mock
type HealthStore struct {
	mock.Mock
}

func (m *HealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
