package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storyhub-org/storyhub/pkg/identity"
	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store/mocks"
)

func newTestRecorder(sink *mocks.ActivityStore) (*Recorder, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)

	r := NewRecorder(nil)
	r.Log = log
	if sink != nil {
		r.Sink = sink
	}
	return r, &buf
}

func TestRecorder_LogsAndPersists(t *testing.T) {
	sink := new(mocks.ActivityStore)
	var saved *model.Activity
	sink.On("SaveActivity", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*model.Activity)
	}).Return(nil)

	r, buf := newTestRecorder(sink)
	actorID := uuid.New()
	r.Record(context.Background(), MutationEvent{
		Actor:      Actor{ID: &actorID, Name: "Aunty June", ClientIP: "10.0.0.1"},
		Action:     ActionCreate,
		EntityType: "story",
		EntityID:   "abc",
		Success:    true,
		Details:    map[string]interface{}{"title": "River Days"},
	})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Aunty June created story abc", line["msg"])
	assert.Equal(t, "story.create", line["action"])
	assert.Equal(t, "10.0.0.1", line["client_ip"])
	assert.Equal(t, "info", line["level"])

	require.NotNil(t, saved)
	assert.Equal(t, "story.create", saved.Action)
	assert.Equal(t, &actorID, saved.ActorID)
	assert.JSONEq(t, `{"title":"River Days"}`, string(saved.Details))
}

func TestRecorder_SinkFailureIsLogged(t *testing.T) {
	sink := new(mocks.ActivityStore)
	sink.On("SaveActivity", mock.Anything, mock.Anything).Return(errors.New("db down"))

	r, buf := newTestRecorder(sink)
	r.Record(context.Background(), AuthenticateEvent{Email: "a@example.org"})

	assert.Contains(t, buf.String(), "failed to save activity")
	assert.Contains(t, buf.String(), "a@example.org failed to sign in")
}

func TestRecorder_Disabled(t *testing.T) {
	sink := new(mocks.ActivityStore)
	r, buf := newTestRecorder(sink)
	r.Disabled = true
	r.Record(context.Background(), AuthenticateEvent{Email: "a@example.org", Success: true})

	assert.Empty(t, buf.String())
	sink.AssertNotCalled(t, "SaveActivity", mock.Anything, mock.Anything)

	var nilRecorder *Recorder
	nilRecorder.Record(context.Background(), AuthenticateEvent{})
}

func TestMutationEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   MutationEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name:    "success",
			event:   MutationEvent{Actor: Actor{Name: "ed"}, Action: ActionPermissions, EntityType: "profile", EntityID: "p1", Success: true},
			wantMsg: "ed changed permissions of profile p1",
			wantSev: SeverityNotice,
		},
		{
			name:    "failure",
			event:   MutationEvent{Actor: Actor{Name: "ed"}, Action: ActionDelete, EntityType: "profile", EntityID: "p1", ErrorMessage: "in use"},
			wantMsg: "ed failed to delete profile p1: in use",
			wantSev: SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.event.Message())
			assert.Equal(t, tt.wantSev, tt.event.Severity())
			assert.Equal(t, tt.event.Success, tt.event.Activity().Success)
		})
	}
}

func TestUploadEvent(t *testing.T) {
	story := uuid.New()
	e := UploadEvent{Actor: Actor{Name: "ed"}, StoryID: &story, Total: 3, Success: 1, Error: 1, Skipped: 1}

	assert.Equal(t, "ed uploaded 1 of 3 files (1 skipped, 1 failed)", e.Message())
	assert.Equal(t, SeverityWarning, e.Severity())
	a := e.Activity()
	assert.Equal(t, "story", a.EntityType)
	assert.Equal(t, story.String(), a.EntityID)
	assert.False(t, a.Success)
}

func TestImportEvent(t *testing.T) {
	e := ImportEvent{Source: "people.json", Kind: "profiles", Created: 2, Skipped: 1}
	assert.Equal(t, "profiles.import", e.MessageID())
	assert.Equal(t, SeverityInfo, e.Severity())
	assert.True(t, e.Activity().Success)
}

func TestActorFrom(t *testing.T) {
	assert.Equal(t, Actor{Name: "anonymous"}, ActorFrom(nil))

	id := &identity.Identity{ProfileID: uuid.New(), RemoteIP: net.ParseIP("192.0.2.1")}
	a := ActorFrom(id)
	assert.Equal(t, id.ProfileID, *a.ID)
	assert.Equal(t, id.ProfileID.String(), a.Name)
	assert.Equal(t, "192.0.2.1", a.ClientIP)
}

func TestSeverityLevel(t *testing.T) {
	assert.Equal(t, logrus.ErrorLevel, SeverityCritical.Level())
	assert.Equal(t, logrus.WarnLevel, SeverityWarning.Level())
	assert.Equal(t, logrus.InfoLevel, SeverityNotice.Level())
	assert.Equal(t, logrus.DebugLevel, SeverityDebug.Level())
}
