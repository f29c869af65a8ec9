package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/library-duty-scheduler/internal/dto"
	"github.com/noah-isme/library-duty-scheduler/internal/models"
	"github.com/noah-isme/library-duty-scheduler/internal/scheduler"
	appErrors "github.com/noah-isme/library-duty-scheduler/pkg/errors"
	"github.com/noah-isme/library-duty-scheduler/pkg/jobs"
)

type schoolReader interface {
	FindByID(ctx context.Context, id string) (*models.School, error)
}

type memberLoader interface {
	LoadMembers(ctx context.Context, schoolID string, academicYear int) ([]models.Member, error)
}

type roomLoader interface {
	LoadRooms(ctx context.Context, schoolID string) ([]models.LibraryRoom, error)
}

type scheduleWriter interface {
	LoadPriorWedFri(ctx context.Context, schoolID string, academicYear int) (map[string]bool, error)
	CreateDraftSchedule(ctx context.Context, exec sqlx.ExtContext, schoolID string, academicYear int, isFirstHalf bool, name, description string) (string, error)
	WriteAssignments(ctx context.Context, exec sqlx.ExtContext, scheduleID string, assignments []models.Assignment) error
	Activate(ctx context.Context, exec sqlx.ExtContext, scheduleID string) error
	LoadAssignments(ctx context.Context, scheduleID string) ([]models.Assignment, error)
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	ListSchedules(ctx context.Context, schoolID string, academicYear int) ([]models.Schedule, error)
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
}

// ScheduleGeneratorConfig governs allocator and orchestration behaviour.
type ScheduleGeneratorConfig struct {
	// Seed fixes the RNG used for second-half shuffling and scoring
	// spread. Zero means seed from platform entropy at call time.
	Seed int64
}

// ScheduleGeneratorService orchestrates one duty-roster generation run:
// it loads inputs, runs the allocator, persists the result inside a
// single transaction, and activates the new schedule.
type ScheduleGeneratorService struct {
	schools   schoolReader
	members   memberLoader
	rooms     roomLoader
	schedules scheduleWriter
	cache     *CacheService
	metrics   *MetricsService
	notifier  *jobs.Queue
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ScheduleGeneratorConfig
}

// NewScheduleGeneratorService wires the orchestrator's dependencies.
func NewScheduleGeneratorService(
	schools schoolReader,
	members memberLoader,
	rooms roomLoader,
	schedules scheduleWriter,
	cache *CacheService,
	metrics *MetricsService,
	notifier *jobs.Queue,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleGeneratorConfig,
) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGeneratorService{
		schools:   schools,
		members:   members,
		rooms:     rooms,
		schedules: schedules,
		cache:     cache,
		metrics:   metrics,
		notifier:  notifier,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate builds and activates a duty roster for one school, academic
// year, and half. It always returns a response; failures come back as a
// failure envelope alongside the error rather than as a bare error, so
// callers can render the failure message to the user.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, req dto.GenerateDutyScheduleRequest) (*dto.GenerateDutyScheduleResult, error) {
	fail := func(err error) (*dto.GenerateDutyScheduleResult, error) {
		return failureResult(appErrors.FromError(err).Message), err
	}

	if err := s.validator.Struct(req); err != nil {
		return fail(appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation request"))
	}

	if _, err := s.schools.FindByID(ctx, req.SchoolID); err != nil {
		return fail(err)
	}

	start := time.Now()

	dbStart := time.Now()
	members, err := s.members.LoadMembers(ctx, req.SchoolID, req.AcademicYear)
	if err != nil {
		return fail(appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load members"))
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("load_members", time.Since(dbStart))
	}

	dbStart = time.Now()
	rooms, err := s.rooms.LoadRooms(ctx, req.SchoolID)
	if err != nil {
		return fail(appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load rooms"))
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("load_rooms", time.Since(dbStart))
	}
	if len(members) == 0 || len(rooms) == 0 {
		return failureResult(appErrors.ErrEmptyInput.Message), appErrors.ErrEmptyInput
	}

	// The rotation constraint only applies when generating the second
	// half of a year; a first-half generation never looks at prior-term
	// history, even when an active first-half schedule already exists
	// from an earlier run.
	var priorWedFri map[string]bool
	if !req.IsFirstHalf {
		dbStart = time.Now()
		priorWedFri, err = s.schedules.LoadPriorWedFri(ctx, req.SchoolID, req.AcademicYear)
		if err != nil {
			return fail(appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load prior rotation history"))
		}
		if s.metrics != nil {
			s.metrics.ObserveDBQuery("load_prior_wed_fri", time.Since(dbStart))
		}
	}

	rng := s.newRand()
	result := scheduler.RunGreedyAllocator(members, rooms, priorWedFri, req.IsFirstHalf, rng)
	if len(result.Assignments) == 0 && len(members) > 0 {
		result.Assignments = scheduler.RunFallbackAllocator(members, rooms, priorWedFri)
	}

	scheduleID, err := s.persist(ctx, req, result.Assignments)
	if err != nil {
		wrapped := appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to persist schedule")
		return failureResult(wrapped.Message), wrapped
	}

	stats := scheduler.BuildStatistics(result.Assignments, members, rooms)

	warnings := make([]string, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		msg := fmt.Sprintf("member %s (%s) placed %d/%d times", w.MemberName, w.MemberID, w.AssignedCount, scheduler.TargetAssignmentsPerMember)
		if w.ViaRelaxation {
			msg += " (class-diversity relaxed)"
		}
		warnings = append(warnings, msg)
	}

	if s.metrics != nil {
		s.metrics.RecordGeneration(time.Since(start).Seconds(), result.Relaxed, len(warnings))
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, fmt.Sprintf("schedule:%s:*", req.SchoolID))
	}
	if s.notifier != nil {
		_ = s.notifier.Enqueue(jobs.Job{
			ID:      scheduleID,
			Type:    "schedule.activated",
			Payload: scheduleID,
		})
	}

	id := scheduleID
	return &dto.GenerateDutyScheduleResult{
		Success:    true,
		ScheduleID: &id,
		Statistics: stats,
		Warnings:   warnings,
		Errors:     []string{},
	}, nil
}

// persist runs the write phase (create draft, write assignments, activate)
// inside one transaction, rolling back on any failure.
func (s *ScheduleGeneratorService) persist(ctx context.Context, req dto.GenerateDutyScheduleRequest, assignments []models.Assignment) (scheduleID string, err error) {
	tx, err := s.schedules.BeginTx(ctx)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	scheduleID, err = s.schedules.CreateDraftSchedule(ctx, tx, req.SchoolID, req.AcademicYear, req.IsFirstHalf, req.Name, req.Description)
	if err != nil {
		return "", fmt.Errorf("create draft schedule: %w", err)
	}

	if err = s.schedules.WriteAssignments(ctx, tx, scheduleID, assignments); err != nil {
		return "", fmt.Errorf("write assignments: %w", err)
	}

	if err = s.schedules.Activate(ctx, tx, scheduleID); err != nil {
		return "", fmt.Errorf("activate schedule: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit schedule transaction: %w", err)
	}

	return scheduleID, nil
}

// newRand seeds the allocator's RNG. A configured seed makes a run
// reproducible for tests; zero falls back to platform entropy so real
// generations vary term over term.
func (s *ScheduleGeneratorService) newRand() *rand.Rand {
	seed := s.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// GetStatistics returns the statistics for an already-generated schedule.
func (s *ScheduleGeneratorService) GetStatistics(ctx context.Context, scheduleID string) (*dto.ScheduleStatistics, error) {
	dbStart := time.Now()
	assignments, err := s.schedules.LoadAssignments(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load assignments")
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("load_assignments", time.Since(dbStart))
	}
	sched, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	members, err := s.members.LoadMembers(ctx, sched.SchoolID, sched.AcademicYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load members")
	}
	rooms, err := s.rooms.LoadRooms(ctx, sched.SchoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load rooms")
	}
	stats := scheduler.BuildStatistics(assignments, members, rooms)
	return &stats, nil
}

// GetAssignments returns the read-back view of a generated schedule: its
// summary plus every assignment, member names resolved. When termStart
// and termEnd are both non-nil, each assignment's weekday is also
// expanded into the concrete calendar dates it falls on within that
// range; the core allocator itself never touches calendar dates, so this
// expansion lives entirely in the read path.
func (s *ScheduleGeneratorService) GetAssignments(ctx context.Context, scheduleID string, termStart, termEnd *time.Time) (*dto.ScheduleDetail, error) {
	sched, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.schedules.LoadAssignments(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load assignments")
	}
	members, err := s.members.LoadMembers(ctx, sched.SchoolID, sched.AcademicYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load members")
	}
	nameByID := make(map[string]string, len(members))
	for _, m := range members {
		nameByID[m.ID] = m.Name
	}

	views := make([]dto.AssignmentView, 0, len(assignments))
	for _, a := range assignments {
		view := dto.AssignmentView{
			Weekday:    int(a.Weekday),
			RoomID:     a.RoomID,
			MemberID:   a.MemberID,
			MemberName: nameByID[a.MemberID],
		}
		if termStart != nil && termEnd != nil {
			dates, err := scheduler.ExpandWeekdayToDates(int(a.Weekday), *termStart, *termEnd)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid term range")
			}
			for _, d := range dates {
				view.Dates = append(view.Dates, d.Format(time.RFC3339))
			}
		}
		views = append(views, view)
	}

	return &dto.ScheduleDetail{
		Schedule: dto.ScheduleSummary{
			ID:           sched.ID,
			Name:         sched.Name,
			AcademicYear: sched.AcademicYear,
			IsFirstHalf:  sched.IsFirstHalf,
			Status:       string(sched.Status),
		},
		Assignments: views,
	}, nil
}

// ListSchedules returns the listing surface for browsing past schedules.
func (s *ScheduleGeneratorService) ListSchedules(ctx context.Context, schoolID string, academicYear int) ([]dto.ScheduleSummary, error) {
	dbStart := time.Now()
	schedules, err := s.schedules.ListSchedules(ctx, schoolID, academicYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list schedules")
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("list_schedules", time.Since(dbStart))
	}
	summaries := make([]dto.ScheduleSummary, 0, len(schedules))
	for _, sch := range schedules {
		summaries = append(summaries, dto.ScheduleSummary{
			ID:           sch.ID,
			Name:         sch.Name,
			AcademicYear: sch.AcademicYear,
			IsFirstHalf:  sch.IsFirstHalf,
			Status:       string(sch.Status),
		})
	}
	return summaries, nil
}

func failureResult(message string) *dto.GenerateDutyScheduleResult {
	return &dto.GenerateDutyScheduleResult{
		Success:    false,
		ScheduleID: nil,
		Statistics: dto.ScheduleStatistics{},
		Warnings:   []string{},
		Errors:     []string{message},
	}
}
