// Package scheduler builds library duty rosters: it enumerates candidate
// placements for each committee member, scores them, and greedily commits
// the best ones while honouring a small set of hard constraints.
package scheduler

import "github.com/noah-isme/library-duty-scheduler/internal/models"

const (
	// FirstWeekday and LastWeekday bound the assignable weekday range.
	FirstWeekday = 1
	LastWeekday  = 5

	// TargetAssignmentsPerMember is how many duty slots each member
	// should end up with across the week.
	TargetAssignmentsPerMember = 2
)

// state accumulates everything the constraint checks and the scorer need
// to know about placements committed so far in one generation run.
type state struct {
	count       map[string]int              // member_id -> assignments committed
	days        map[string]map[int]bool     // member_id -> weekdays already used
	classDays   map[string]map[int]bool     // class_id -> weekdays already occupied
	gradeDays   map[int]map[int]bool        // grade -> weekdays already represented
	occupants   map[int]map[string][]string // weekday -> room_id -> member names on duty
	priorWedFri map[string]bool             // member_id -> held Wed/Fri duty last term
}

func newState(priorWedFri map[string]bool) *state {
	return &state{
		count:       make(map[string]int),
		days:        make(map[string]map[int]bool),
		classDays:   make(map[string]map[int]bool),
		gradeDays:   make(map[int]map[int]bool),
		occupants:   make(map[int]map[string][]string),
		priorWedFri: priorWedFri,
	}
}

func (s *state) hasDay(memberID string, weekday int) bool {
	return s.days[memberID][weekday]
}

func (s *state) classHasDay(classID string, weekday int) bool {
	return s.classDays[classID][weekday]
}

func (s *state) gradeHasDay(grade, weekday int) bool {
	return s.gradeDays[grade][weekday]
}

func (s *state) occupantCount(weekday int, roomID string) int {
	return len(s.occupants[weekday][roomID])
}

func (s *state) memberHasAnyAssignment(memberID string) bool {
	return s.count[memberID] > 0
}

// commit records a placement, updating every index the allocator and
// scorer read from.
func (s *state) commit(member models.Member, weekday int, roomID string) {
	s.count[member.ID]++

	if s.days[member.ID] == nil {
		s.days[member.ID] = make(map[int]bool)
	}
	s.days[member.ID][weekday] = true

	if s.classDays[member.ClassID] == nil {
		s.classDays[member.ClassID] = make(map[int]bool)
	}
	s.classDays[member.ClassID][weekday] = true

	if s.gradeDays[member.Grade] == nil {
		s.gradeDays[member.Grade] = make(map[int]bool)
	}
	s.gradeDays[member.Grade][weekday] = true

	if s.occupants[weekday] == nil {
		s.occupants[weekday] = make(map[string][]string)
	}
	s.occupants[weekday][roomID] = append(s.occupants[weekday][roomID], member.Name)
}

// satisfiesH1 enforces that a member never holds more than one room on
// the same weekday.
func satisfiesH1(s *state, memberID string, weekday int) bool {
	return !s.hasDay(memberID, weekday)
}

// satisfiesH2 enforces class diversity: no two members of the same class
// share a weekday, unless relaxation has been engaged for this member.
func satisfiesH2(s *state, classID string, weekday int, relaxed bool) bool {
	if relaxed {
		return true
	}
	return !s.classHasDay(classID, weekday)
}

// satisfiesH3 enforces the rotation rule: a member who held Wednesday or
// Friday duty last first-half term never gets Wednesday or Friday again.
// This constraint is never relaxed.
func satisfiesH3(s *state, memberID string, weekday int) bool {
	if weekday != 3 && weekday != 5 {
		return true
	}
	return !s.priorWedFri[memberID]
}
