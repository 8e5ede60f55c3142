package repository

import (
	"context"

	"docingest/internal/model"
)

// ProjectRepository reads projects. Projects are created and owned elsewhere.
type ProjectRepository interface {
	// FindByID returns a project by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Project, error)
}

// TextRepository defines data access for stored texts using SQL queries only.
// No business logic here, strictly persistence operations.
type TextRepository interface {
	// CreateBatch stores the source files and texts of one upload atomically.
	CreateBatch(ctx context.Context, sources []model.SourceFile, texts []model.TextDocument) error

	// FindByID returns a text by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.TextDocument, error)

	// ListByProject returns a page of a project's texts and the project's total text count.
	ListByProject(ctx context.Context, projectID string, pq PageQuery) (*PageResult[model.TextDocument], error)

	// AllByProject returns every text of a project in insertion order.
	AllByProject(ctx context.Context, projectID string) ([]model.TextDocument, error)

	// Delete removes a text by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error

	// ClearTags empties the tags of every text in a project and reports how many rows changed.
	ClearTags(ctx context.Context, projectID string) (int64, error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
