package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProjectPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "tags", "model_state", "created_at"}).
			AddRow("proj-1", "reviews", []byte(`["positive","negative"]`), "Untrained", time.Now())
		mock.ExpectQuery("SELECT (.+) FROM projects WHERE id = ?").
			WithArgs("proj-1").
			WillReturnRows(rows)

		p, err := repo.FindByID(ctx, "proj-1")
		require.NoError(t, err)
		assert.Equal(t, "reviews", p.Name)
		assert.Equal(t, []string{"positive", "negative"}, p.Tags)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM projects WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		p, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, p)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
