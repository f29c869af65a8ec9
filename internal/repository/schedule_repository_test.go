package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/library-duty-scheduler/internal/models"
)

func TestScheduleRepositoryLoadPriorWedFri(t *testing.T) {
	db, mock, cleanup := newMemberRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"member_id"}).AddRow("m1").AddRow("m2")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT a.member_id")).
		WithArgs("school-1", 2026, string(models.ScheduleStatusActive)).
		WillReturnRows(rows)

	set, err := repo.LoadPriorWedFri(context.Background(), "school-1", 2026)
	require.NoError(t, err)
	assert.True(t, set["m1"])
	assert.True(t, set["m2"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryCreateDraftSchedule(t *testing.T) {
	db, mock, cleanup := newMemberRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assignments WHERE schedule_id IN")).
		WithArgs("school-1", 2026, true, string(models.ScheduleStatusDraft)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedules")).
		WithArgs("school-1", 2026, true, string(models.ScheduleStatusDraft)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedules")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := repo.CreateDraftSchedule(context.Background(), nil, "school-1", 2026, true, "Fall Term", "")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryWriteAssignments(t *testing.T) {
	db, mock, cleanup := newMemberRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assignments")).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.WriteAssignments(context.Background(), nil, "sched-1", []models.Assignment{
		{Weekday: 1, RoomID: "room-a", MemberID: "m1"},
		{Weekday: 2, RoomID: "room-a", MemberID: "m2"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryWriteAssignmentsNoopOnEmpty(t *testing.T) {
	db, mock, cleanup := newMemberRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	err := repo.WriteAssignments(context.Background(), nil, "sched-1", nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryActivate(t *testing.T) {
	db, mock, cleanup := newMemberRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	findRows := sqlmock.NewRows([]string{"id", "school_id", "academic_year", "is_first_half", "status"}).
		AddRow("sched-1", "school-1", 2026, true, string(models.ScheduleStatusDraft))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, school_id, academic_year, is_first_half, status FROM schedules WHERE id = $1")).
		WithArgs("sched-1").
		WillReturnRows(findRows)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedules SET status = $1, updated_at = $2\nWHERE school_id = $3 AND academic_year = $4 AND is_first_half = $5 AND status = $6 AND id <> $7")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedules SET status = $1, updated_at = $2 WHERE id = $3")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Activate(context.Background(), nil, "sched-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
