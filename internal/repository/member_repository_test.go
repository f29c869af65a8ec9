package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemberRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestMemberRepositoryLoadMembers(t *testing.T) {
	db, mock, cleanup := newMemberRepoMock(t)
	defer cleanup()
	repo := NewMemberRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "class_id", "grade", "position_id", "academic_year", "school_id", "active"}).
		AddRow("m1", "Alice", "c1", 5, nil, 2026, "school-1", true)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, class_id, grade, position_id, academic_year, school_id, active")).
		WithArgs("school-1", 2026).
		WillReturnRows(rows)

	members, err := repo.LoadMembers(context.Background(), "school-1", 2026)
	require.NoError(t, err)
	assert.Len(t, members, 1)
	assert.Equal(t, "Alice", members[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
