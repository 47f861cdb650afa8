package model

import (
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MediaKind string

const (
	MediaImage    MediaKind = "image"
	MediaVideo    MediaKind = "video"
	MediaAudio    MediaKind = "audio"
	MediaDocument MediaKind = "document"
)

func (k MediaKind) Valid() bool {
	switch k {
	case MediaImage, MediaVideo, MediaAudio, MediaDocument:
		return true
	}
	return false
}

var documentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/rtf":    true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.oasis.opendocument.text":                                 true,
}

// KindForContentType maps a MIME type to a media kind. Unknown types yield "".
func KindForContentType(contentType string) MediaKind {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		ct = mt
	}
	switch {
	case strings.HasPrefix(ct, "image/"):
		return MediaImage
	case strings.HasPrefix(ct, "video/"):
		return MediaVideo
	case strings.HasPrefix(ct, "audio/"):
		return MediaAudio
	case strings.HasPrefix(ct, "text/"), documentTypes[ct]:
		return MediaDocument
	}
	return ""
}

// ContentTypeFor returns the declared type, or one guessed from the file
// extension when the client sent nothing useful.
func ContentTypeFor(fileName, declared string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if guessed := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName))); guessed != "" {
		return guessed
	}
	if declared != "" {
		return declared
	}
	return "application/octet-stream"
}

type MediaFile struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StoryID     *uuid.UUID     `gorm:"type:uuid;column:story_id;index" json:"story_id,omitempty"`
	ProfileID   *uuid.UUID     `gorm:"type:uuid;column:profile_id;index" json:"profile_id,omitempty"`
	FileName    string         `gorm:"column:file_name;not null" json:"file_name"`
	StorageKey  string         `gorm:"column:storage_key;not null;uniqueIndex" json:"storage_key"`
	ContentType string         `gorm:"column:content_type" json:"content_type"`
	Kind        MediaKind      `gorm:"not null;index" json:"kind"`
	SizeBytes   int64          `gorm:"column:size_bytes" json:"size_bytes"`
	SHA256      string         `gorm:"column:sha256;index" json:"sha256"`
	Title       string         `json:"title"`
	AltText     string         `gorm:"column:alt_text" json:"alt_text"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (m MediaFile) TableName() string {
	return "media_files"
}

func (m *MediaFile) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
