package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/library-duty-scheduler/pkg/errors"
)

func TestSchoolRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newMemberRepoMock(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name"}).AddRow("school-1", "Oakwood Elementary")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM schools WHERE id = $1")).
		WithArgs("school-1").
		WillReturnRows(rows)

	school, err := repo.FindByID(context.Background(), "school-1")
	require.NoError(t, err)
	assert.Equal(t, "Oakwood Elementary", school.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchoolRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMemberRepoMock(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM schools WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
