package audit

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/storyhub-org/storyhub/pkg/logging"
	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

// Severity levels matching syslog (RFC5424)
type Severity int

const (
	SeverityEmergency Severity = iota // 0
	SeverityAlert                     // 1
	SeverityCritical                  // 2
	SeverityError                     // 3
	SeverityWarning                   // 4
	SeverityNotice                    // 5
	SeverityInfo                      // 6
	SeverityDebug                     // 7
)

// Level maps the severity onto a logrus level.
func (s Severity) Level() logrus.Level {
	switch {
	case s <= SeverityError:
		return logrus.ErrorLevel
	case s == SeverityWarning:
		return logrus.WarnLevel
	case s == SeverityDebug:
		return logrus.DebugLevel
	}
	return logrus.InfoLevel
}

// Event represents an audit event
type Event interface {
	MessageID() string
	Message() string
	Severity() Severity
	Activity() *model.Activity
}

// Recorder logs events and persists them through an ActivityStore.
type Recorder struct {
	Log  *logrus.Logger
	Sink store.ActivityStore

	// Disabled turns Record into a no-op.
	Disabled bool
}

// NewRecorder logs to logging.Log. sink may be nil.
func NewRecorder(sink store.ActivityStore) *Recorder {
	return &Recorder{Log: logging.Log, Sink: sink}
}

// Record never fails the caller; a persistence error is logged and dropped.
func (r *Recorder) Record(ctx context.Context, e Event) {
	if r == nil || r.Disabled {
		return
	}
	a := e.Activity()
	a.Action = e.MessageID()

	fields := logrus.Fields{
		"audit":   true,
		"action":  a.Action,
		"entity":  a.EntityType,
		"success": a.Success,
	}
	if a.EntityID != "" {
		fields["entity_id"] = a.EntityID
	}
	if a.ActorID != nil {
		fields["actor_id"] = a.ActorID.String()
	}
	if a.ClientIP != "" {
		fields["client_ip"] = a.ClientIP
	}
	r.Log.WithFields(fields).Log(e.Severity().Level(), e.Message())

	if r.Sink == nil {
		return
	}
	if err := r.Sink.SaveActivity(context.WithoutCancel(ctx), a); err != nil {
		r.Log.WithError(err).WithField("action", a.Action).Warn("audit: failed to save activity")
	}
}

func details(v map[string]interface{}) datatypes.JSON {
	if len(v) == 0 {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
