package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docingest/internal/model"
	"docingest/internal/repository"
)

var textRowColumns = []string{"id", "project_id", "name", "value", "tags", "created_at"}

func TestTextPostgres_CreateBatch(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	sources := []model.SourceFile{{
		ID:          "src-1",
		ProjectID:   "proj-1",
		Filename:    "data.csv",
		StoragePath: "projects/proj-1/abc.csv",
		Size:        42,
		ContentType: "text/csv",
		CreatedAt:   now,
	}}
	texts := []model.TextDocument{
		{ID: "t-1", ProjectID: "proj-1", Name: "a", Value: "alpha", Tags: []string{"x", "y"}, CreatedAt: now},
		{ID: "t-2", ProjectID: "proj-1", Name: "b", Value: "beta", Tags: nil, CreatedAt: now},
	}

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO source_files").
			WithArgs("src-1", "proj-1", "data.csv", "projects/proj-1/abc.csv", int64(42), "text/csv", now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO texts").
			WithArgs("t-1", "proj-1", "a", "alpha", `["x","y"]`, now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO texts").
			WithArgs("t-2", "proj-1", "b", "beta", `[]`, now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = NewTextPostgres(db).CreateBatch(ctx, sources, texts)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO source_files").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO texts").WillReturnError(errors.New("fk violation"))
		mock.ExpectRollback()

		err = NewTextPostgres(db).CreateBatch(ctx, sources, texts)
		assert.ErrorContains(t, err, "fk violation")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTextPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTextPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(textRowColumns).
			AddRow("t-1", "proj-1", "a", "alpha", []byte(`["spam"]`), time.Now())
		mock.ExpectQuery("SELECT (.+) FROM texts WHERE id = ?").
			WithArgs("t-1").
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, "t-1")
		require.NoError(t, err)
		assert.Equal(t, "proj-1", doc.ProjectID)
		assert.Equal(t, []string{"spam"}, doc.Tags)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM texts WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, doc)
	})

	t.Run("corrupt tags", func(t *testing.T) {
		rows := sqlmock.NewRows(textRowColumns).
			AddRow("t-2", "proj-1", "a", "alpha", []byte(`{not json`), time.Now())
		mock.ExpectQuery("SELECT (.+) FROM texts WHERE id = ?").
			WithArgs("t-2").
			WillReturnRows(rows)

		_, err := repo.FindByID(ctx, "t-2")
		assert.ErrorContains(t, err, "decode tags")
	})
}

func TestTextPostgres_ListByProject(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM texts WHERE project_id = ?").
		WithArgs("proj-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	rows := sqlmock.NewRows(textRowColumns).
		AddRow("t-1", "proj-1", "a", "alpha", []byte(`[]`), time.Now()).
		AddRow("t-2", "proj-1", "b", "beta", []byte(`["x"]`), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM texts WHERE project_id = (.+) ORDER BY").
		WithArgs("proj-1", 2, 0).
		WillReturnRows(rows)

	res, err := NewTextPostgres(db).ListByProject(context.Background(), "proj-1", repository.PageQuery{Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, []string{}, res.Items[0].Tags)
	assert.Equal(t, []string{"x"}, res.Items[1].Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTextPostgres_AllByProject(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(textRowColumns).
		AddRow("t-1", "proj-1", "a", "alpha", []byte(`["x"]`), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM texts WHERE project_id = ?").
		WithArgs("proj-1").
		WillReturnRows(rows)

	items, err := NewTextPostgres(db).AllByProject(context.Background(), "proj-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "alpha", items[0].Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTextPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM texts WHERE id = ?").
		WithArgs("t-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewTextPostgres(db).Delete(context.Background(), "t-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTextPostgres_ClearTags(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE texts SET tags").
		WithArgs("proj-1").
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := NewTextPostgres(db).ClearTags(context.Background(), "proj-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
