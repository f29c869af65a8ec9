package scheduler

import "github.com/noah-isme/library-duty-scheduler/internal/models"

// Candidate is one (weekday, room) pair a member could be placed into.
type Candidate struct {
	Weekday int
	RoomID  string
}

// enumerateCandidates returns every (weekday, room) pair for a member that
// satisfies H1 and H3. Class diversity (H2) is checked separately by the
// allocator since it depends on what has already been committed for other
// members on the same weekday. Rooms are iterated in the order passed in,
// which is the repository's load order, so results are deterministic.
func enumerateCandidates(s *state, member models.Member, rooms []models.LibraryRoom) []Candidate {
	candidates := make([]Candidate, 0, len(rooms)*LastWeekday)
	for weekday := FirstWeekday; weekday <= LastWeekday; weekday++ {
		if !satisfiesH1(s, member.ID, weekday) {
			continue
		}
		if !satisfiesH3(s, member.ID, weekday) {
			continue
		}
		for _, room := range rooms {
			candidates = append(candidates, Candidate{Weekday: weekday, RoomID: room.RoomID})
		}
	}
	return candidates
}
