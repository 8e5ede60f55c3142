package postgres

import (
	"context"
	"database/sql"

	"docingest/internal/model"
	"docingest/internal/repository"
)

// ProjectPostgres is a PostgreSQL implementation of repository.ProjectRepository.
type ProjectPostgres struct {
	db *sql.DB
}

// NewProjectPostgres creates a new ProjectPostgres repository.
func NewProjectPostgres(db *sql.DB) *ProjectPostgres {
	return &ProjectPostgres{db: db}
}

var _ repository.ProjectRepository = (*ProjectPostgres)(nil)

// FindByID fetches a single project by its ID.
func (r *ProjectPostgres) FindByID(ctx context.Context, id string) (*model.Project, error) {
	const q = `
		SELECT id, name, tags, model_state, created_at
		FROM projects
		WHERE id = $1
	`
	var (
		p       model.Project
		rawTags []byte
	)
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID,
		&p.Name,
		&rawTags,
		&p.ModelState,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	tags, err := decodeTags(rawTags)
	if err != nil {
		return nil, err
	}
	p.Tags = tags
	return &p, nil
}
