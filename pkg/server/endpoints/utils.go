package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/storyhub-org/storyhub/pkg/audit"
	"github.com/storyhub-org/storyhub/pkg/config"
	"github.com/storyhub-org/storyhub/pkg/identity"
	"github.com/storyhub-org/storyhub/pkg/logging"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func respondWithError(w http.ResponseWriter, code int, msg string) {
	respondWithJSON(w, code, map[string]string{"error": msg})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logging.Log.WithError(err).Error("failed to encode response")
		code = http.StatusInternalServerError
		response = []byte(`{"error":"failed to encode response"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// decodeJSON reads and validates a request body into dst. On failure it
// writes the response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		respondWithError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email address")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// writeStoreError maps store sentinel errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrDuplicate), errors.Is(err, store.ErrInUse):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalid):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		logging.Log.WithError(err).Error("request failed")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalID reads a uuid query parameter; an empty value yields nil.
func parseOptionalID(w http.ResponseWriter, r *http.Request, name string) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid "+name)
		return nil, false
	}
	return &id, true
}

func parsePage(r *http.Request, cfg *config.StoryhubConfig) store.Page {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return store.Page{Limit: cfg.ClampLimit(limit), Offset: offset}
}

// parseDate accepts RFC 3339 timestamps or plain dates. A plain date used
// as a period end covers the whole day.
func parseDate(raw string, end bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	if end {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}

func parseRange(w http.ResponseWriter, r *http.Request) (store.TimeRange, bool) {
	var tr store.TimeRange
	q := r.URL.Query()
	if raw := q.Get("from"); raw != "" {
		t, err := parseDate(raw, false)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return tr, false
		}
		tr.From = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := parseDate(raw, true)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return tr, false
		}
		tr.To = t
	}
	return tr, true
}

// listResponse wraps a page of results.
type listResponse struct {
	Items  interface{} `json:"items"`
	Total  *int64      `json:"total,omitempty"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

func caller(r *http.Request) *identity.Identity {
	id, _ := identity.Get(r.Context())
	return id
}

// recordMutation writes an activity entry for a create/update/delete.
func recordMutation(rec *audit.Recorder, r *http.Request, action audit.Action, entity, entityID string, err error, details map[string]interface{}) {
	e := audit.MutationEvent{
		Actor:      audit.ActorFrom(caller(r)),
		Action:     action,
		EntityType: entity,
		EntityID:   entityID,
		Success:    err == nil,
		Details:    details,
	}
	if err != nil {
		e.ErrorMessage = err.Error()
	}
	rec.Record(r.Context(), e)
}

func boolQuery(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}
