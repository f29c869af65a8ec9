package scheduler

import (
	"sort"

	"github.com/noah-isme/library-duty-scheduler/internal/dto"
	"github.com/noah-isme/library-duty-scheduler/internal/models"
)

// BuildStatistics summarises a completed generation run: totals, per-
// weekday coverage, and per-member weekday lists. memberByID must contain
// every member referenced in assignments.
func BuildStatistics(assignments []models.Assignment, members []models.Member, rooms []models.LibraryRoom) dto.ScheduleStatistics {
	memberByID := make(map[string]models.Member, len(members))
	for _, m := range members {
		memberByID[m.ID] = m
	}

	weekdayMembers := make(map[int]map[string]bool)
	weekdayRoomMembers := make(map[int]map[string][]string)
	memberWeekdays := make(map[string]map[int]bool)

	for _, a := range assignments {
		weekday := int(a.Weekday)

		if weekdayMembers[weekday] == nil {
			weekdayMembers[weekday] = make(map[string]bool)
		}
		weekdayMembers[weekday][a.MemberID] = true

		if weekdayRoomMembers[weekday] == nil {
			weekdayRoomMembers[weekday] = make(map[string][]string)
		}
		name := memberByID[a.MemberID].Name
		weekdayRoomMembers[weekday][a.RoomID] = append(weekdayRoomMembers[weekday][a.RoomID], name)

		if memberWeekdays[a.MemberID] == nil {
			memberWeekdays[a.MemberID] = make(map[int]bool)
		}
		memberWeekdays[a.MemberID][weekday] = true
	}

	weekdayStats := make([]dto.WeekdayStatistic, 0, LastWeekday)
	for weekday := FirstWeekday; weekday <= LastWeekday; weekday++ {
		roomStats := make([]dto.RoomOccupancy, 0, len(rooms))
		for _, room := range rooms {
			names := weekdayRoomMembers[weekday][room.RoomID]
			sort.Strings(names)
			roomStats = append(roomStats, dto.RoomOccupancy{RoomID: room.RoomID, MemberNames: names})
		}
		dutyMemberIDs := make([]string, 0, len(weekdayMembers[weekday]))
		for id := range weekdayMembers[weekday] {
			dutyMemberIDs = append(dutyMemberIDs, id)
		}

		weekdayStats = append(weekdayStats, dto.WeekdayStatistic{
			Weekday:             weekday,
			DistinctMemberCount: len(weekdayMembers[weekday]),
			Grades:              GradeBreakdown(members, dutyMemberIDs),
			Rooms:               roomStats,
		})
	}

	memberStats := make([]dto.MemberStatistic, 0, len(members))
	for _, member := range members {
		days := memberWeekdays[member.ID]
		if len(days) == 0 {
			continue
		}
		weekdays := make([]int, 0, len(days))
		for d := range days {
			weekdays = append(weekdays, d)
		}
		sort.Ints(weekdays)
		memberStats = append(memberStats, dto.MemberStatistic{
			MemberID: member.ID,
			Name:     member.Name,
			Weekdays: weekdays,
		})
	}

	meanPerMember := 0.0
	if len(members) > 0 {
		meanPerMember = float64(len(assignments)) / float64(len(members))
	}

	return dto.ScheduleStatistics{
		AssignmentCount:          len(assignments),
		MemberCount:              len(members),
		RoomCount:                len(rooms),
		MeanAssignmentsPerMember: meanPerMember,
		Weekdays:                 weekdayStats,
		Members:                  memberStats,
	}
}

// GradeBreakdown returns the sorted, de-duplicated list of grades
// represented among memberIDs, looking each one up in members. A member ID
// with no match in members is skipped rather than treated as an error,
// since stale references shouldn't break the statistics envelope.
func GradeBreakdown(members []models.Member, memberIDs []string) []int {
	memberByID := make(map[string]models.Member, len(members))
	for _, m := range members {
		memberByID[m.ID] = m
	}

	seen := make(map[int]bool)
	for _, id := range memberIDs {
		member, ok := memberByID[id]
		if !ok {
			continue
		}
		seen[member.Grade] = true
	}

	grades := make([]int, 0, len(seen))
	for grade := range seen {
		grades = append(grades, grade)
	}
	sort.Ints(grades)

	return grades
}
