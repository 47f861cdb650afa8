package audit

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/storyhub-org/storyhub/pkg/identity"
	"github.com/storyhub-org/storyhub/pkg/model"
)

type Action string

const (
	ActionCreate      Action = "create"
	ActionUpdate      Action = "update"
	ActionDelete      Action = "delete"
	ActionStatus      Action = "status"
	ActionPermissions Action = "permissions"
	ActionResetKey    Action = "reset-key"
)

// Actor captures who did something, from the request identity.
type Actor struct {
	ID       *uuid.UUID
	Name     string
	ClientIP string
}

// ActorFrom reads the actor out of an identity; nil yields an anonymous actor.
func ActorFrom(id *identity.Identity) Actor {
	if id == nil {
		return Actor{Name: "anonymous"}
	}
	pid := id.ProfileID
	a := Actor{ID: &pid, Name: id.DisplayName}
	if id.RemoteIP != nil {
		a.ClientIP = id.RemoteIP.String()
	}
	if a.Name == "" {
		a.Name = pid.String()
	}
	return a
}

// MutationEvent records a change to one entity.
type MutationEvent struct {
	Actor        Actor
	Action       Action
	EntityType   string
	EntityID     string
	Success      bool
	ErrorMessage string
	Details      map[string]interface{}
}

func (e MutationEvent) MessageID() string {
	return e.EntityType + "." + string(e.Action)
}

func (e MutationEvent) Message() string {
	target := e.EntityType
	if e.EntityID != "" {
		target += " " + e.EntityID
	}
	if e.Success {
		return fmt.Sprintf("%s %s %s", e.Actor.Name, pastTense(e.Action), target)
	}
	msg := fmt.Sprintf("%s failed to %s %s", e.Actor.Name, e.Action, target)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e MutationEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e MutationEvent) Activity() *model.Activity {
	return &model.Activity{
		ActorID:    e.Actor.ID,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Success:    e.Success,
		Message:    e.Message(),
		ClientIP:   e.Actor.ClientIP,
		Details:    details(e.Details),
	}
}

func pastTense(a Action) string {
	switch a {
	case ActionCreate:
		return "created"
	case ActionUpdate:
		return "updated"
	case ActionDelete:
		return "deleted"
	case ActionStatus:
		return "changed the status of"
	case ActionPermissions:
		return "changed permissions of"
	case ActionResetKey:
		return "reset the API key of"
	}
	return string(a)
}

// AuthenticateEvent represents an authentication audit event
type AuthenticateEvent struct {
	Email        string
	ProfileID    *uuid.UUID
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e AuthenticateEvent) MessageID() string {
	return "authn.login"
}

func (e AuthenticateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully signed in", e.Email)
	}
	msg := fmt.Sprintf("%s failed to sign in", e.Email)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AuthenticateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthenticateEvent) Activity() *model.Activity {
	a := &model.Activity{
		ActorID:    e.ProfileID,
		EntityType: "profile",
		Success:    e.Success,
		Message:    e.Message(),
		ClientIP:   e.ClientIP,
	}
	if e.ProfileID != nil {
		a.EntityID = e.ProfileID.String()
	}
	return a
}

// UploadEvent summarises one upload batch.
type UploadEvent struct {
	Actor   Actor
	StoryID *uuid.UUID
	Total   int
	Success int
	Error   int
	Skipped int
	Pending int
}

func (e UploadEvent) MessageID() string {
	return "media.upload"
}

func (e UploadEvent) Message() string {
	return fmt.Sprintf("%s uploaded %d of %d files (%d skipped, %d failed)",
		e.Actor.Name, e.Success, e.Total, e.Skipped, e.Error)
}

func (e UploadEvent) Severity() Severity {
	if e.Error > 0 || e.Pending > 0 {
		return SeverityWarning
	}
	return SeverityNotice
}

func (e UploadEvent) Activity() *model.Activity {
	a := &model.Activity{
		ActorID:    e.Actor.ID,
		EntityType: "media",
		Success:    e.Error == 0 && e.Pending == 0,
		Message:    e.Message(),
		ClientIP:   e.Actor.ClientIP,
		Details: details(map[string]interface{}{
			"total":   e.Total,
			"success": e.Success,
			"error":   e.Error,
			"skipped": e.Skipped,
			"pending": e.Pending,
		}),
	}
	if e.StoryID != nil {
		a.EntityType = "story"
		a.EntityID = e.StoryID.String()
	}
	return a
}

// ImportEvent summarises one import run.
type ImportEvent struct {
	Actor   Actor
	Source  string
	Kind    string
	Created int
	Skipped int
	Failed  int
}

func (e ImportEvent) MessageID() string {
	return e.Kind + ".import"
}

func (e ImportEvent) Message() string {
	return fmt.Sprintf("import of %s from %s: %d created, %d skipped, %d failed",
		e.Kind, e.Source, e.Created, e.Skipped, e.Failed)
}

func (e ImportEvent) Severity() Severity {
	if e.Failed > 0 {
		return SeverityWarning
	}
	return SeverityInfo
}

func (e ImportEvent) Activity() *model.Activity {
	return &model.Activity{
		ActorID:    e.Actor.ID,
		EntityType: e.Kind,
		Success:    e.Failed == 0,
		Message:    e.Message(),
		Details: details(map[string]interface{}{
			"source":  e.Source,
			"created": e.Created,
			"skipped": e.Skipped,
			"failed":  e.Failed,
		}),
	}
}
