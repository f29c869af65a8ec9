package scheduler

import (
	"math/rand"

	"github.com/noah-isme/library-duty-scheduler/internal/models"
)

const (
	baseScore           = 10.0
	gradeFreshBonus     = 5.0
	roomLoadBonus       = 3.0
	starvationBonus     = 2.0
	secondHalfSpreadMax = 5.0
)

// score returns the placement score for assigning member into
// (weekday, roomID) given the state committed so far. rng must be
// non-nil when isFirstHalf is false; the orchestrator seeds it once per
// generation run so results are reproducible in tests.
func score(s *state, member models.Member, candidate Candidate, isFirstHalf bool, rng *rand.Rand) float64 {
	total := baseScore

	if !isFirstHalf {
		total += rng.Float64() * secondHalfSpreadMax
	}

	if !s.gradeHasDay(member.Grade, candidate.Weekday) {
		total += gradeFreshBonus
	}

	occupants := s.occupantCount(candidate.Weekday, candidate.RoomID)
	total += roomLoadBonus / float64(occupants+1)

	if !s.memberHasAnyAssignment(member.ID) {
		total += starvationBonus
	}

	return total
}

// bestCandidate scores every eligible candidate and returns the highest
// scoring one. Ties are broken by enumeration order: weekday ascending,
// then room in repository order, since candidates arrive pre-sorted that
// way from enumerateCandidates and we only replace the leader on a
// strictly higher score.
func bestCandidate(s *state, member models.Member, candidates []Candidate, isFirstHalf bool, rng *rand.Rand) (Candidate, float64, bool) {
	var (
		best      Candidate
		bestScore float64
		found     bool
	)
	for _, c := range candidates {
		sc := score(s, member, c, isFirstHalf, rng)
		if !found || sc > bestScore {
			best = c
			bestScore = sc
			found = true
		}
	}
	return best, bestScore, found
}
