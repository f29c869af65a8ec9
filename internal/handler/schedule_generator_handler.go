package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/library-duty-scheduler/internal/dto"
	internalmiddleware "github.com/noah-isme/library-duty-scheduler/internal/middleware"
	"github.com/noah-isme/library-duty-scheduler/internal/service"
	appErrors "github.com/noah-isme/library-duty-scheduler/pkg/errors"
	"github.com/noah-isme/library-duty-scheduler/pkg/export"
	"github.com/noah-isme/library-duty-scheduler/pkg/response"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateDutyScheduleRequest) (*dto.GenerateDutyScheduleResult, error)
	GetStatistics(ctx context.Context, scheduleID string) (*dto.ScheduleStatistics, error)
	ListSchedules(ctx context.Context, schoolID string, academicYear int) ([]dto.ScheduleSummary, error)
	GetAssignments(ctx context.Context, scheduleID string, termStart, termEnd *time.Time) (*dto.ScheduleDetail, error)
}

// ScheduleGeneratorHandler exposes the duty-roster generation surface.
type ScheduleGeneratorHandler struct {
	service scheduleGenerator
	cache   *service.CacheService
	pdf     *export.PDFExporter
	csv     *export.CSVExporter
}

// NewScheduleGeneratorHandler constructs the handler.
func NewScheduleGeneratorHandler(svc *service.ScheduleGeneratorService, cache *service.CacheService) *ScheduleGeneratorHandler {
	return &ScheduleGeneratorHandler{service: svc, cache: cache, pdf: export.NewPDFExporter(), csv: export.NewCSVExporter()}
}

// Generate builds and activates a duty roster for one school term.
func (h *ScheduleGeneratorHandler) Generate(c *gin.Context) {
	var req dto.GenerateDutyScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	req.SchoolID = c.Param("schoolId")

	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		if result == nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, appErrors.FromError(err).Status, result, nil)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// GetAssignments returns a previously generated schedule's assignments,
// optionally expanded against a calendar range supplied via the
// termStart/termEnd query params (RFC3339 dates).
func (h *ScheduleGeneratorHandler) GetAssignments(c *gin.Context) {
	var query dto.AssignmentDatesQuery
	_ = c.ShouldBindQuery(&query)

	var termStart, termEnd *time.Time
	if query.TermStart != "" && query.TermEnd != "" {
		start, err := time.Parse(time.RFC3339, query.TermStart)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid termStart"))
			return
		}
		end, err := time.Parse(time.RFC3339, query.TermEnd)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid termEnd"))
			return
		}
		termStart, termEnd = &start, &end
	}

	detail, err := h.service.GetAssignments(c.Request.Context(), c.Param("id"), termStart, termEnd)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Statistics returns the statistics for a previously generated schedule,
// served from cache when available.
func (h *ScheduleGeneratorHandler) Statistics(c *gin.Context) {
	scheduleID := c.Param("id")
	cacheKey := fmt.Sprintf("schedule:stats:%s", scheduleID)

	var cached dto.ScheduleStatistics
	if h.cache != nil {
		if hit, err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && hit {
			internalmiddleware.SetCacheHit(c, true)
			response.JSON(c, http.StatusOK, cached, nil, internalmiddleware.ExtractMeta(c))
			return
		}
	}

	stats, err := h.service.GetStatistics(c.Request.Context(), scheduleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.cache != nil {
		_ = h.cache.Set(c.Request.Context(), cacheKey, stats, 0)
	}
	internalmiddleware.SetCacheHit(c, false)
	response.JSON(c, http.StatusOK, stats, nil, internalmiddleware.ExtractMeta(c))
}

// ExportPDF renders the schedule's per-weekday statistics as a PDF table.
func (h *ScheduleGeneratorHandler) ExportPDF(c *gin.Context) {
	stats, err := h.service.GetStatistics(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	dataset := export.Dataset{
		Headers: []string{"weekday", "room", "members"},
	}
	for _, wd := range stats.Weekdays {
		for _, room := range wd.Rooms {
			if len(room.MemberNames) == 0 {
				continue
			}
			dataset.Rows = append(dataset.Rows, map[string]string{
				"weekday": strconv.Itoa(wd.Weekday),
				"room":    room.RoomID,
				"members": fmt.Sprint(room.MemberNames),
			})
		}
	}

	pdfBytes, err := h.pdf.Render(dataset, "Library Duty Schedule")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf"))
		return
	}
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// List returns the schedule listing for a school, optionally narrowed by
// academic year.
func (h *ScheduleGeneratorHandler) List(c *gin.Context) {
	var query dto.ListSchedulesQuery
	_ = c.ShouldBindQuery(&query)
	query.SchoolID = c.Param("schoolId")

	schedules, err := h.service.ListSchedules(c.Request.Context(), query.SchoolID, query.AcademicYear)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, nil)
}

// ExportCSV renders the schedule listing for a school as CSV, for
// operators who want a roster history outside the admin UI.
func (h *ScheduleGeneratorHandler) ExportCSV(c *gin.Context) {
	var query dto.ListSchedulesQuery
	_ = c.ShouldBindQuery(&query)
	query.SchoolID = c.Param("schoolId")

	schedules, err := h.service.ListSchedules(c.Request.Context(), query.SchoolID, query.AcademicYear)
	if err != nil {
		response.Error(c, err)
		return
	}

	dataset := export.Dataset{Headers: []string{"id", "name", "academicYear", "isFirstHalf", "status"}}
	for _, sched := range schedules {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"id":           sched.ID,
			"name":         sched.Name,
			"academicYear": strconv.Itoa(sched.AcademicYear),
			"isFirstHalf":  strconv.FormatBool(sched.IsFirstHalf),
			"status":       sched.Status,
		})
	}

	csvBytes, err := h.csv.Render(dataset)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv"))
		return
	}
	c.Data(http.StatusOK, "text/csv", csvBytes)
}
