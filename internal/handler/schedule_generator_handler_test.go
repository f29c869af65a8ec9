package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/library-duty-scheduler/internal/dto"
	appErrors "github.com/noah-isme/library-duty-scheduler/pkg/errors"
)

type scheduleGeneratorServiceMock struct {
	genResult    *dto.GenerateDutyScheduleResult
	genErr       error
	stats        *dto.ScheduleStatistics
	statsErr     error
	listResult   []dto.ScheduleSummary
	listErr      error
	lastAcadYr   int
	lastSchool   string
	detailResult *dto.ScheduleDetail
	detailErr    error
	lastTermDays int
}

func (m *scheduleGeneratorServiceMock) Generate(ctx context.Context, req dto.GenerateDutyScheduleRequest) (*dto.GenerateDutyScheduleResult, error) {
	return m.genResult, m.genErr
}

func (m *scheduleGeneratorServiceMock) GetStatistics(ctx context.Context, scheduleID string) (*dto.ScheduleStatistics, error) {
	return m.stats, m.statsErr
}

func (m *scheduleGeneratorServiceMock) ListSchedules(ctx context.Context, schoolID string, academicYear int) ([]dto.ScheduleSummary, error) {
	m.lastSchool = schoolID
	m.lastAcadYr = academicYear
	return m.listResult, m.listErr
}

func (m *scheduleGeneratorServiceMock) GetAssignments(ctx context.Context, scheduleID string, termStart, termEnd *time.Time) (*dto.ScheduleDetail, error) {
	if termStart != nil && termEnd != nil {
		m.lastTermDays = int(termEnd.Sub(*termStart).Hours() / 24)
	}
	return m.detailResult, m.detailErr
}

func TestScheduleGeneratorHandlerGenerateEmptyInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleGeneratorServiceMock{
		genResult: &dto.GenerateDutyScheduleResult{Success: false, Errors: []string{appErrors.ErrEmptyInput.Message}},
		genErr:    appErrors.ErrEmptyInput,
	}
	handler := NewScheduleGeneratorHandler(nil, nil)
	handler.service = mockSvc

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"academicYear":2026,"name":"Fall Term"}`
	req, _ := http.NewRequest(http.MethodPost, "/schools/school-1/schedules/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "schoolId", Value: "school-1"}}

	handler.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleGeneratorHandlerGenerateSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	scheduleID := "sched-1"
	mockSvc := &scheduleGeneratorServiceMock{genResult: &dto.GenerateDutyScheduleResult{Success: true, ScheduleID: &scheduleID}}
	handler := NewScheduleGeneratorHandler(nil, nil)
	handler.service = mockSvc

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"academicYear":2026,"name":"Fall Term"}`
	req, _ := http.NewRequest(http.MethodPost, "/schools/school-1/schedules/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "schoolId", Value: "school-1"}}

	handler.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestScheduleGeneratorHandlerStatisticsNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleGeneratorServiceMock{statsErr: appErrors.ErrNotFound}
	handler := NewScheduleGeneratorHandler(nil, nil)
	handler.service = mockSvc

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedules/missing/statistics", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Statistics(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleGeneratorHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleGeneratorServiceMock{listResult: []dto.ScheduleSummary{{ID: "sched-1", Name: "Fall Term"}}}
	handler := NewScheduleGeneratorHandler(nil, nil)
	handler.service = mockSvc

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schools/school-1/schedules?academicYear=2026", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "schoolId", Value: "school-1"}}

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "school-1", mockSvc.lastSchool)
	require.Equal(t, 2026, mockSvc.lastAcadYr)
}

func TestScheduleGeneratorHandlerGetAssignments(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleGeneratorServiceMock{detailResult: &dto.ScheduleDetail{
		Schedule:    dto.ScheduleSummary{ID: "sched-1", Name: "Fall Term"},
		Assignments: []dto.AssignmentView{{Weekday: 1, RoomID: "r1", MemberID: "m1", MemberName: "Alice"}},
	}}
	handler := NewScheduleGeneratorHandler(nil, nil)
	handler.service = mockSvc

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedules/sched-1?termStart=2026-09-01T00:00:00Z&termEnd=2026-10-01T00:00:00Z", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "sched-1"}}

	handler.GetAssignments(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 30, mockSvc.lastTermDays)
}

func TestScheduleGeneratorHandlerGetAssignmentsInvalidTermStart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleGeneratorServiceMock{}
	handler := NewScheduleGeneratorHandler(nil, nil)
	handler.service = mockSvc

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedules/sched-1?termStart=not-a-date&termEnd=2026-10-01T00:00:00Z", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "sched-1"}}

	handler.GetAssignments(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleGeneratorHandlerGetAssignmentsNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleGeneratorServiceMock{detailErr: appErrors.ErrNotFound}
	handler := NewScheduleGeneratorHandler(nil, nil)
	handler.service = mockSvc

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedules/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.GetAssignments(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleGeneratorHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleGeneratorServiceMock{listResult: []dto.ScheduleSummary{
		{ID: "sched-1", Name: "Fall Term", AcademicYear: 2026, IsFirstHalf: true, Status: "active"},
	}}
	handler := NewScheduleGeneratorHandler(nil, nil)
	handler.service = mockSvc

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schools/school-1/schedules/export.csv?academicYear=2026", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "schoolId", Value: "school-1"}}

	handler.ExportCSV(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	require.Contains(t, w.Body.String(), "sched-1")
}
