package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/library-duty-scheduler/internal/models"
	appErrors "github.com/noah-isme/library-duty-scheduler/pkg/errors"
)

// ScheduleRepository persists duty schedules and their assignments.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// LoadPriorWedFri returns the set of member ids who held a Wednesday or
// Friday duty on any active first-half schedule for the given school and
// academic year; when several are active, their members are merged into
// one set. A missing prior schedule is not an error: the set comes back
// empty.
func (r *ScheduleRepository) LoadPriorWedFri(ctx context.Context, schoolID string, academicYear int) (map[string]bool, error) {
	const query = `
SELECT DISTINCT a.member_id
FROM assignments a
JOIN schedules s ON s.id = a.schedule_id
WHERE s.school_id = $1
  AND s.academic_year = $2
  AND s.is_first_half = true
  AND s.status = $3
  AND a.weekday IN (3, 5)`

	var memberIDs []string
	if err := r.db.SelectContext(ctx, &memberIDs, query, schoolID, academicYear, models.ScheduleStatusActive); err != nil {
		return nil, fmt.Errorf("load prior wed/fri assignments: %w", err)
	}

	result := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		result[id] = true
	}
	return result, nil
}

// CreateDraftSchedule removes any existing draft for the (school, year,
// half) tuple and inserts a fresh one, returning its id.
func (r *ScheduleRepository) CreateDraftSchedule(ctx context.Context, exec sqlx.ExtContext, schoolID string, academicYear int, isFirstHalf bool, name, description string) (string, error) {
	target := r.exec(exec)

	const deleteDraftAssignments = `
DELETE FROM assignments WHERE schedule_id IN (
  SELECT id FROM schedules
  WHERE school_id = $1 AND academic_year = $2 AND is_first_half = $3 AND status = $4
)`
	if _, err := target.ExecContext(ctx, deleteDraftAssignments, schoolID, academicYear, isFirstHalf, models.ScheduleStatusDraft); err != nil {
		return "", fmt.Errorf("delete prior draft assignments: %w", err)
	}

	const deleteDraft = `
DELETE FROM schedules
WHERE school_id = $1 AND academic_year = $2 AND is_first_half = $3 AND status = $4`
	if _, err := target.ExecContext(ctx, deleteDraft, schoolID, academicYear, isFirstHalf, models.ScheduleStatusDraft); err != nil {
		return "", fmt.Errorf("delete prior draft schedule: %w", err)
	}

	now := time.Now().UTC()
	schedule := models.Schedule{
		ID:           uuid.NewString(),
		SchoolID:     schoolID,
		Name:         name,
		Description:  description,
		AcademicYear: academicYear,
		IsFirstHalf:  isFirstHalf,
		Status:       models.ScheduleStatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	const insertQuery = `
INSERT INTO schedules (id, school_id, name, description, academic_year, is_first_half, status, created_at, updated_at)
VALUES (:id, :school_id, :name, :description, :academic_year, :is_first_half, :status, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, schedule); err != nil {
		return "", fmt.Errorf("insert draft schedule: %w", err)
	}

	return schedule.ID, nil
}

// WriteAssignments bulk-inserts the placements produced by the allocator.
func (r *ScheduleRepository) WriteAssignments(ctx context.Context, exec sqlx.ExtContext, scheduleID string, assignments []models.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	target := r.exec(exec)

	const insertQuery = `
INSERT INTO assignments (schedule_id, weekday, room_id, member_id)
VALUES (:schedule_id, :weekday, :room_id, :member_id)`

	rows := make([]models.Assignment, len(assignments))
	for i, a := range assignments {
		a.ScheduleID = scheduleID
		rows[i] = a
	}
	if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, rows); err != nil {
		return fmt.Errorf("insert assignments: %w", err)
	}
	return nil
}

// Activate demotes any other active schedule sharing the same (school,
// year, half) scope and promotes the draft to active.
func (r *ScheduleRepository) Activate(ctx context.Context, exec sqlx.ExtContext, scheduleID string) error {
	target := r.exec(exec)

	var schedule models.Schedule
	const findQuery = `SELECT id, school_id, academic_year, is_first_half, status FROM schedules WHERE id = $1`
	if err := sqlx.GetContext(ctx, target, &schedule, findQuery, scheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return fmt.Errorf("find schedule to activate: %w", err)
	}

	const demoteQuery = `
UPDATE schedules SET status = $1, updated_at = $2
WHERE school_id = $3 AND academic_year = $4 AND is_first_half = $5 AND status = $6 AND id <> $7`
	now := time.Now().UTC()
	if _, err := target.ExecContext(ctx, demoteQuery,
		models.ScheduleStatusInactive, now,
		schedule.SchoolID, schedule.AcademicYear, schedule.IsFirstHalf, models.ScheduleStatusActive, scheduleID,
	); err != nil {
		return fmt.Errorf("demote prior active schedule: %w", err)
	}

	const activateQuery = `UPDATE schedules SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := target.ExecContext(ctx, activateQuery, models.ScheduleStatusActive, now, scheduleID)
	if err != nil {
		return fmt.Errorf("activate schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("activate schedule rows affected: %w", err)
	}
	if affected == 0 {
		return appErrors.ErrConflict
	}
	return nil
}

// LoadAssignments returns every assignment written for a schedule.
func (r *ScheduleRepository) LoadAssignments(ctx context.Context, scheduleID string) ([]models.Assignment, error) {
	const query = `SELECT schedule_id, weekday, room_id, member_id FROM assignments WHERE schedule_id = $1 ORDER BY weekday ASC, room_id ASC`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, scheduleID); err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	return assignments, nil
}

// FindByID loads a schedule by id.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	const query = `SELECT id, school_id, name, description, academic_year, is_first_half, status, created_at, updated_at FROM schedules WHERE id = $1`
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("find schedule: %w", err)
	}
	return &schedule, nil
}

// ListSchedules returns schedules for a school, optionally narrowed to a
// single academic year, most recent first.
func (r *ScheduleRepository) ListSchedules(ctx context.Context, schoolID string, academicYear int) ([]models.Schedule, error) {
	var (
		query string
		args  []interface{}
	)
	if academicYear > 0 {
		query = `SELECT id, school_id, name, description, academic_year, is_first_half, status, created_at, updated_at
FROM schedules WHERE school_id = $1 AND academic_year = $2 ORDER BY created_at DESC`
		args = []interface{}{schoolID, academicYear}
	} else {
		query = `SELECT id, school_id, name, description, academic_year, is_first_half, status, created_at, updated_at
FROM schedules WHERE school_id = $1 ORDER BY created_at DESC`
		args = []interface{}{schoolID}
	}

	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// BeginTx starts a transaction for the orchestrator to scope repository
// writes within a single generation run.
func (r *ScheduleRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}
