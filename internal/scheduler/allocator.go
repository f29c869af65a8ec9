package scheduler

import (
	"math/rand"

	"github.com/noah-isme/library-duty-scheduler/internal/models"
)

// MaxAssignAttempts bounds how many candidate rounds the greedy allocator
// spends on a single member before moving on.
const MaxAssignAttempts = 50

// MemberState tracks how complete one member's duty roster is.
type MemberState int

const (
	MemberUnplaced MemberState = iota
	MemberPartial
	MemberComplete
)

func memberState(count int) MemberState {
	switch {
	case count <= 0:
		return MemberUnplaced
	case count < TargetAssignmentsPerMember:
		return MemberPartial
	default:
		return MemberComplete
	}
}

// Warning flags a member worth a second look: either they fell short of
// TargetAssignmentsPerMember, or they only reached it by relaxing class
// diversity. Both are reported, per spec.md §4.G.
type Warning struct {
	MemberID      string
	MemberName    string
	AssignedCount int
	ViaRelaxation bool
}

// GreedyResult is everything the orchestrator needs after a generation
// run: the committed assignments and any shortfalls worth surfacing.
type GreedyResult struct {
	Assignments []models.Assignment
	Warnings    []Warning
	Relaxed     bool
}

// RunGreedyAllocator places every member into TargetAssignmentsPerMember
// rooms across the week. Members are processed in stable repository
// order for the first half, or a shuffled order for the second half so
// that the rotation feels organic term over term. Each member gets up to
// MaxAssignAttempts greedy rounds before a relaxation phase (which drops
// the class-diversity constraint but never H1 or H3) tries to finish any
// member still short.
func RunGreedyAllocator(members []models.Member, rooms []models.LibraryRoom, priorWedFri map[string]bool, isFirstHalf bool, rng *rand.Rand) GreedyResult {
	s := newState(priorWedFri)
	order := memberOrder(members, isFirstHalf, rng)

	var assignments []models.Assignment
	relaxedAny := false

	for _, member := range order {
		assignments = append(assignments, placeMember(s, member, rooms, isFirstHalf, rng, false)...)
	}

	var warnings []Warning
	for _, member := range order {
		if memberState(s.count[member.ID]) == MemberComplete {
			continue
		}
		relaxedPlacements := placeMember(s, member, rooms, isFirstHalf, rng, true)
		assignments = append(assignments, relaxedPlacements...)
		viaRelaxation := len(relaxedPlacements) > 0
		if viaRelaxation {
			relaxedAny = true
		}
		if s.count[member.ID] < TargetAssignmentsPerMember || viaRelaxation {
			warnings = append(warnings, Warning{
				MemberID:      member.ID,
				MemberName:    member.Name,
				AssignedCount: s.count[member.ID],
				ViaRelaxation: viaRelaxation,
			})
		}
	}

	return GreedyResult{Assignments: assignments, Warnings: warnings, Relaxed: relaxedAny}
}

// memberOrder returns the processing order for one generation run.
func memberOrder(members []models.Member, isFirstHalf bool, rng *rand.Rand) []models.Member {
	order := make([]models.Member, len(members))
	copy(order, members)
	if isFirstHalf {
		return order
	}
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

// placeMember runs greedy rounds for a single member until it reaches
// TargetAssignmentsPerMember or MaxAssignAttempts is exhausted. When
// relaxed is true, H2 is ignored and only weekdays not already used by
// this member are tried.
func placeMember(s *state, member models.Member, rooms []models.LibraryRoom, isFirstHalf bool, rng *rand.Rand, relaxed bool) []models.Assignment {
	var placed []models.Assignment

	for attempt := 0; attempt < MaxAssignAttempts; attempt++ {
		if s.count[member.ID] >= TargetAssignmentsPerMember {
			break
		}

		candidates := enumerateCandidates(s, member, rooms)
		if !relaxed {
			candidates = filterH2(s, member, candidates)
		}
		if len(candidates) == 0 {
			break
		}

		best, _, found := bestCandidate(s, member, candidates, isFirstHalf, rng)
		if !found {
			break
		}

		s.commit(member, best.Weekday, best.RoomID)
		placed = append(placed, models.Assignment{
			Weekday:  models.Weekday(best.Weekday),
			RoomID:   best.RoomID,
			MemberID: member.ID,
		})
	}

	return placed
}

// filterH2 drops candidates that would put member on a weekday already
// occupied by another member of the same class.
func filterH2(s *state, member models.Member, candidates []Candidate) []Candidate {
	filtered := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if satisfiesH2(s, member.ClassID, c.Weekday, false) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
