package postgres

import (
	"context"
	"database/sql"

	"docingest/internal/database"
	"docingest/internal/model"
	"docingest/internal/repository"
)

// TextPostgres is a PostgreSQL implementation of repository.TextRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type TextPostgres struct {
	db *sql.DB
}

// NewTextPostgres creates a new TextPostgres repository.
func NewTextPostgres(db *sql.DB) *TextPostgres {
	return &TextPostgres{db: db}
}

var _ repository.TextRepository = (*TextPostgres)(nil)

const textColumns = `id, project_id, name, value, tags, created_at`

// CreateBatch inserts source files and texts in a single transaction.
func (r *TextPostgres) CreateBatch(ctx context.Context, sources []model.SourceFile, texts []model.TextDocument) error {
	const qSource = `
		INSERT INTO source_files (id, project_id, filename, storage_path, size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	const qText = `
		INSERT INTO texts (id, project_id, name, value, tags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	return database.Transact(ctx, r.db, func(tx *sql.Tx) error {
		for _, s := range sources {
			if _, err := tx.ExecContext(ctx, qSource,
				s.ID,
				s.ProjectID,
				s.Filename,
				s.StoragePath,
				s.Size,
				s.ContentType,
				s.CreatedAt,
			); err != nil {
				return err
			}
		}
		for _, t := range texts {
			tags, err := encodeTags(t.Tags)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, qText,
				t.ID,
				t.ProjectID,
				t.Name,
				t.Value,
				tags,
				t.CreatedAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID fetches a single text by its ID.
func (r *TextPostgres) FindByID(ctx context.Context, id string) (*model.TextDocument, error) {
	const q = `SELECT ` + textColumns + ` FROM texts WHERE id = $1`
	return scanText(r.db.QueryRowContext(ctx, q, id))
}

// ListByProject returns a project's texts using LIMIT/OFFSET pagination and a total count.
func (r *TextPostgres) ListByProject(ctx context.Context, projectID string, pq repository.PageQuery) (*repository.PageResult[model.TextDocument], error) {
	const qCount = `SELECT COUNT(*) FROM texts WHERE project_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, projectID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + textColumns + `
		FROM texts
		WHERE project_id = $1
		ORDER BY seq
		LIMIT $2 OFFSET $3
	`
	items, err := r.query(ctx, qList, projectID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.TextDocument]{
		Items: items,
		Total: total,
	}, nil
}

// AllByProject returns every text of a project in insertion order.
func (r *TextPostgres) AllByProject(ctx context.Context, projectID string) ([]model.TextDocument, error) {
	const q = `
		SELECT ` + textColumns + `
		FROM texts
		WHERE project_id = $1
		ORDER BY seq
	`
	return r.query(ctx, q, projectID)
}

// Delete removes a text by ID. It does not return an error if the row does not exist.
func (r *TextPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM texts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// ClearTags resets the tags of all texts in a project.
func (r *TextPostgres) ClearTags(ctx context.Context, projectID string) (int64, error) {
	const q = `UPDATE texts SET tags = '[]'::jsonb WHERE project_id = $1`
	res, err := r.db.ExecContext(ctx, q, projectID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *TextPostgres) query(ctx context.Context, q string, args ...any) ([]model.TextDocument, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.TextDocument, 0)
	for rows.Next() {
		t, err := scanText(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanText(row rowScanner) (*model.TextDocument, error) {
	var (
		t       model.TextDocument
		rawTags []byte
	)
	if err := row.Scan(
		&t.ID,
		&t.ProjectID,
		&t.Name,
		&t.Value,
		&rawTags,
		&t.CreatedAt,
	); err != nil {
		return nil, err
	}
	tags, err := decodeTags(rawTags)
	if err != nil {
		return nil, err
	}
	t.Tags = tags
	return &t, nil
}
