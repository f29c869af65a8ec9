package scheduler

import "github.com/noah-isme/library-duty-scheduler/internal/models"

// RunFallbackAllocator is the safety net engaged only when the greedy
// allocator fails structurally (a condition that should not occur under
// the current design, but the core stays defensive against it rather
// than panicking). It sweeps weekdays in order and, on each weekday that
// satisfies H3 and is not already used by that member, commits the member
// to the first repository-ordered room. Class diversity is not enforced here:
// the fallback's job is to guarantee coverage, not quality.
func RunFallbackAllocator(members []models.Member, rooms []models.LibraryRoom, priorWedFri map[string]bool) []models.Assignment {
	s := newState(priorWedFri)
	var placed []models.Assignment

	for _, member := range members {
		for s.count[member.ID] < TargetAssignmentsPerMember {
			weekday, roomID, ok := firstAvailable(s, member, rooms)
			if !ok {
				break
			}
			s.commit(member, weekday, roomID)
			placed = append(placed, models.Assignment{
				Weekday:  models.Weekday(weekday),
				RoomID:   roomID,
				MemberID: member.ID,
			})
		}
	}

	return placed
}

func firstAvailable(s *state, member models.Member, rooms []models.LibraryRoom) (int, string, bool) {
	for weekday := FirstWeekday; weekday <= LastWeekday; weekday++ {
		if !satisfiesH1(s, member.ID, weekday) {
			continue
		}
		if !satisfiesH3(s, member.ID, weekday) {
			continue
		}
		for _, room := range rooms {
			return weekday, room.RoomID, true
		}
	}
	return 0, "", false
}
