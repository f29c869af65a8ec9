package dto

// GenerateDutyScheduleRequest instructs the orchestrator to build and
// activate a duty roster for one school, academic year, and half.
type GenerateDutyScheduleRequest struct {
	SchoolID     string `json:"schoolId" validate:"required"`
	AcademicYear int    `json:"academicYear" validate:"required,min=2000"`
	IsFirstHalf  bool   `json:"isFirstHalf"`
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
}

// WeekdayStatistic summarises coverage for a single weekday.
type WeekdayStatistic struct {
	Weekday             int             `json:"weekday"`
	DistinctMemberCount int             `json:"distinctMemberCount"`
	Grades              []int           `json:"grades"`
	Rooms               []RoomOccupancy `json:"rooms"`
}

// RoomOccupancy lists who is on duty in one room on one weekday.
type RoomOccupancy struct {
	RoomID      string   `json:"roomId"`
	MemberNames []string `json:"memberNames"`
}

// MemberStatistic lists the weekdays a single member was assigned to.
type MemberStatistic struct {
	MemberID string `json:"memberId"`
	Name     string `json:"name"`
	Weekdays []int  `json:"weekdays"`
}

// ScheduleStatistics is the read-side summary a generation run produces,
// also served standalone via the statistics endpoint.
type ScheduleStatistics struct {
	AssignmentCount          int                `json:"assignmentCount"`
	MemberCount              int                `json:"memberCount"`
	RoomCount                int                `json:"roomCount"`
	MeanAssignmentsPerMember float64            `json:"meanAssignmentsPerMember"`
	Weekdays                 []WeekdayStatistic `json:"weekdays"`
	Members                  []MemberStatistic  `json:"members"`
}

// GenerateDutyScheduleResult is the envelope returned by the orchestrator,
// mirroring the contract's success/failure shape verbatim.
type GenerateDutyScheduleResult struct {
	Success    bool               `json:"success"`
	ScheduleID *string            `json:"scheduleId"`
	Statistics ScheduleStatistics `json:"statistics"`
	Warnings   []string           `json:"warnings"`
	Errors     []string           `json:"errors"`
}

// ScheduleSummary is the thin listing row for browsing past schedules.
type ScheduleSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AcademicYear int    `json:"academicYear"`
	IsFirstHalf  bool   `json:"isFirstHalf"`
	Status       string `json:"status"`
}

// ListSchedulesQuery filters the schedule listing surface.
type ListSchedulesQuery struct {
	SchoolID     string `form:"schoolId" json:"schoolId"`
	AcademicYear int    `form:"academicYear" json:"academicYear"`
}

// AssignmentView is one placement in read-back form: the raw weekday plus,
// when a term range was supplied, the concrete calendar dates it expands
// to. Dates are presentational only — the core itself never deals in them.
type AssignmentView struct {
	Weekday    int      `json:"weekday"`
	RoomID     string   `json:"roomId"`
	MemberID   string   `json:"memberId"`
	MemberName string   `json:"memberName"`
	Dates      []string `json:"dates,omitempty"`
}

// ScheduleDetail is the read-back envelope for a single schedule: its
// summary plus every assignment it holds.
type ScheduleDetail struct {
	Schedule    ScheduleSummary  `json:"schedule"`
	Assignments []AssignmentView `json:"assignments"`
}

// AssignmentDatesQuery optionally narrows a schedule read-back to a
// calendar range so weekdays can be expanded into concrete dates.
type AssignmentDatesQuery struct {
	TermStart string `form:"termStart" json:"termStart"`
	TermEnd   string `form:"termEnd" json:"termEnd"`
}
