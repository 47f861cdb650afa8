package endpoints

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/storyhub-org/storyhub/pkg/audit"
	"github.com/storyhub-org/storyhub/pkg/identity"
	"github.com/storyhub-org/storyhub/pkg/logging"
	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server"
	"github.com/storyhub-org/storyhub/pkg/server/middleware"
	"github.com/storyhub-org/storyhub/pkg/server/store"
	"github.com/storyhub-org/storyhub/pkg/storage"
	"github.com/storyhub-org/storyhub/pkg/uploads"
)

const (
	entityMedia = "media"

	// maxBatchFiles caps the number of files in one upload request.
	maxBatchFiles = 50

	// multipartMemory is how much of a multipart body is held in memory;
	// the rest spills to temporary files.
	multipartMemory = 32 << 20
)

type updateMediaRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=300"`
	AltText     *string    `json:"alt_text" validate:"omitempty,max=1000"`
	StoryID     *uuid.UUID `json:"story_id"`
	DetachStory bool       `json:"detach_story"`
}

// UploadResponse reports the outcome of an upload batch
type UploadResponse struct {
	Summary uploads.Summary `json:"summary"`
	Items   []uploads.Item  `json:"items"`
}

// RegisterMediaEndpoints registers the media library and upload routes
func RegisterMediaEndpoints(s *server.Server) {
	mediaRouter := s.Router.PathPrefix("/media").Subrouter()
	mediaRouter.Use(s.JWTMiddleware.Middleware)

	canUpload := middleware.RequirePermission(identity.PermissionUpload)

	mediaRouter.HandleFunc("", handleListMedia(s)).Methods("GET")
	mediaRouter.Handle("", canUpload(handleUploadOne(s))).Methods("POST")
	mediaRouter.Handle("/uploads", canUpload(handleUploadBatch(s))).Methods("POST")
	mediaRouter.HandleFunc("/{id}", handleGetMedia(s.Media)).Methods("GET")
	mediaRouter.HandleFunc("/{id}", handleUpdateMedia(s)).Methods("PATCH")
	mediaRouter.HandleFunc("/{id}", handleDeleteMedia(s)).Methods("DELETE")
	mediaRouter.HandleFunc("/{id}/content", handleMediaContent(s)).Methods("GET", "HEAD")
}

func handleListMedia(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storyID, ok := parseOptionalID(w, r, "story_id")
		if !ok {
			return
		}
		profileID, ok := parseOptionalID(w, r, "profile_id")
		if !ok {
			return
		}
		filter := store.MediaFilter{
			Kind:      model.MediaKind(r.URL.Query().Get("kind")),
			StoryID:   storyID,
			ProfileID: profileID,
			Page:      parsePage(r, s.Config),
		}
		if filter.Kind != "" && !filter.Kind.Valid() {
			respondWithError(w, http.StatusBadRequest, "invalid kind")
			return
		}

		media, err := s.Media.ListMedia(r.Context(), filter)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		total, err := s.Media.CountMedia(r.Context(), filter)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, listResponse{
			Items:  media,
			Total:  &total,
			Limit:  filter.Page.Limit,
			Offset: filter.Page.Offset,
		})
	}
}

// readUploadForm parses the multipart body and resolves the optional
// story_id field. It writes the error response and returns false on failure.
func readUploadForm(w http.ResponseWriter, r *http.Request, s *server.Server, files int) (*uuid.UUID, bool) {
	limit := s.Config.MaxUploadBytes*int64(files) + multipartMemory
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return nil, false
		}
		respondWithError(w, http.StatusBadRequest, "invalid multipart body: "+err.Error())
		return nil, false
	}

	raw := r.FormValue("story_id")
	if raw == "" {
		return nil, true
	}
	storyID, err := uuid.Parse(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid story_id")
		return nil, false
	}
	story, err := s.Stories.GetStory(r.Context(), storyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(w, http.StatusUnprocessableEntity, "unknown story_id")
			return nil, false
		}
		writeStoreError(w, err)
		return nil, false
	}
	if !canManage(caller(r), story.StorytellerID) {
		respondWithError(w, http.StatusForbidden, "cannot attach media to this story")
		return nil, false
	}
	return &storyID, true
}

func batchFiles(headers []*multipart.FileHeader) []uploads.File {
	files := make([]uploads.File, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		files = append(files, uploads.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return files
}

func runBatch(s *server.Server, r *http.Request, storyID *uuid.UUID, headers []*multipart.FileHeader) (*uploads.Batch, uploads.Summary, error) {
	owner := caller(r).ProfileID
	batch := uploads.NewBatch(&owner, storyID, batchFiles(headers))
	summary, err := s.Uploads.Process(r.Context(), batch)

	s.Audit.Record(r.Context(), audit.UploadEvent{
		Actor:   audit.ActorFrom(caller(r)),
		StoryID: storyID,
		Total:   summary.Total,
		Success: summary.Success,
		Error:   summary.Error,
		Skipped: summary.Skipped,
		Pending: summary.Pending,
	})
	return batch, summary, err
}

func handleUploadOne(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storyID, ok := readUploadForm(w, r, s, 1)
		if !ok {
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		headers := r.MultipartForm.File["file"]
		if len(headers) != 1 {
			respondWithError(w, http.StatusBadRequest, "expected exactly one file in field \"file\"")
			return
		}

		batch, _, err := runBatch(s, r, storyID, headers)
		if err != nil {
			respondWithError(w, http.StatusServiceUnavailable, "upload interrupted: "+err.Error())
			return
		}

		item := batch.Items()[0]
		switch item.Status {
		case uploads.StatusSuccess:
			respondWithJSON(w, http.StatusCreated, item)
		case uploads.StatusSkipped:
			respondWithJSON(w, http.StatusOK, item)
		default:
			respondWithJSON(w, http.StatusUnprocessableEntity, item)
		}
	}
}

// handleUploadBatch answers 201 when every file was stored or skipped and
// 207 when some failed; the body always carries per-file results.
func handleUploadBatch(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storyID, ok := readUploadForm(w, r, s, maxBatchFiles)
		if !ok {
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		headers := r.MultipartForm.File["files"]
		switch {
		case len(headers) == 0:
			respondWithError(w, http.StatusBadRequest, "no files in field \"files\"")
			return
		case len(headers) > maxBatchFiles:
			respondWithError(w, http.StatusUnprocessableEntity, fmt.Sprintf("at most %d files per upload", maxBatchFiles))
			return
		}

		batch, summary, err := runBatch(s, r, storyID, headers)
		if err != nil {
			logging.Log.WithError(err).WithField("pending", summary.Pending).Warn("upload batch interrupted")
		}

		code := http.StatusCreated
		if summary.Error > 0 || summary.Pending > 0 {
			code = http.StatusMultiStatus
		}
		respondWithJSON(w, code, UploadResponse{Summary: summary, Items: batch.Items()})
	}
}

func handleGetMedia(media store.MediaStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		m, err := media.GetMedia(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, m)
	}
}

// loadOwnedMedia fetches a media row the caller uploaded, or any row for editors.
func loadOwnedMedia(w http.ResponseWriter, r *http.Request, media store.MediaStore) *model.MediaFile {
	id, ok := parseID(w, r)
	if !ok {
		return nil
	}
	m, err := media.GetMedia(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return nil
	}
	owner := uuid.Nil
	if m.ProfileID != nil {
		owner = *m.ProfileID
	}
	if !canManage(caller(r), owner) {
		respondWithError(w, http.StatusForbidden, "forbidden")
		return nil
	}
	return m
}

func handleUpdateMedia(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m := loadOwnedMedia(w, r, s.Media)
		if m == nil {
			return
		}
		var req updateMediaRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.StoryID != nil && !req.DetachStory {
			if _, err := s.Stories.GetStory(r.Context(), *req.StoryID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					respondWithError(w, http.StatusUnprocessableEntity, "unknown story_id")
					return
				}
				writeStoreError(w, err)
				return
			}
		}

		updated, err := s.Media.UpdateMedia(r.Context(), m.ID, store.MediaPatch{
			Title:       req.Title,
			AltText:     req.AltText,
			StoryID:     req.StoryID,
			DetachStory: req.DetachStory,
		})
		recordMutation(s.Audit, r, audit.ActionUpdate, entityMedia, m.ID.String(), err, nil)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, updated)
	}
}

func handleDeleteMedia(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m := loadOwnedMedia(w, r, s.Media)
		if m == nil {
			return
		}

		err := s.Media.DeleteMedia(r.Context(), m.ID)
		recordMutation(s.Audit, r, audit.ActionDelete, entityMedia, m.ID.String(), err, map[string]interface{}{
			"file_name": m.FileName,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if err := s.Blobs.Delete(r.Context(), m.StorageKey); err != nil {
			logging.Log.WithError(err).WithField("key", m.StorageKey).Warn("failed to remove media blob")
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleMediaContent(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		m, err := s.Media.GetMedia(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		rc, err := s.Blobs.Open(r.Context(), m.StorageKey)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, "media content missing")
				return
			}
			writeStoreError(w, err)
			return
		}
		defer func() { _ = rc.Close() }()

		w.Header().Set("Content-Type", m.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", m.FileName))
		if m.SHA256 != "" {
			w.Header().Set("ETag", strconv.Quote(m.SHA256))
		}
		if rs, ok := rc.(io.ReadSeeker); ok {
			http.ServeContent(w, r, m.FileName, m.CreatedAt, rs)
			return
		}
		w.Header().Set("Content-Length", strconv.FormatInt(m.SizeBytes, 10))
		if r.Method == http.MethodHead {
			return
		}
		if _, err := io.Copy(w, rc); err != nil {
			logging.Log.WithError(err).WithField("media_id", m.ID).Debug("media stream aborted")
		}
	}
}
