package model

import "time"

// Record is a unit of text extracted from an uploaded file.
// It is produced by the ingest pipeline and has no identity until persisted.
type Record struct {
	Name  string   `json:"name"`
	Value string   `json:"value"`
	Tags  []string `json:"tags"`
}

// TextDocument is a Record that has been accepted into a project and stored.
// This is a pure domain model with no database-specific dependencies or tags.
type TextDocument struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// SourceFile describes a raw upload archived in object storage.
type SourceFile struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}
