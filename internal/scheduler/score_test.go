package scheduler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/library-duty-scheduler/internal/models"
)

func TestScoreAppliesGradeFreshAndStarvationBonusesOnAFreshBoard(t *testing.T) {
	s := newState(nil)
	member := models.Member{ID: "m1", ClassID: "c1", Grade: 5}
	candidate := Candidate{Weekday: 1, RoomID: "room-a"}

	got := score(s, member, candidate, true, nil)
	want := baseScore + gradeFreshBonus + roomLoadBonus + starvationBonus
	assert.InDelta(t, want, got, 0.0001)
}

func TestScoreDropsGradeFreshBonusOnceGradeOccupiesWeekday(t *testing.T) {
	s := newState(nil)
	s.commit(models.Member{ID: "other", ClassID: "c2", Grade: 5, Name: "Other"}, 1, "room-a")

	member := models.Member{ID: "m1", ClassID: "c1", Grade: 5}
	candidate := Candidate{Weekday: 1, RoomID: "room-b"}

	got := score(s, member, candidate, true, nil)
	want := baseScore + roomLoadBonus + starvationBonus
	assert.InDelta(t, want, got, 0.0001)
}

func TestScoreDropsStarvationBonusOnceMemberHasAnAssignment(t *testing.T) {
	s := newState(nil)
	member := models.Member{ID: "m1", ClassID: "c1", Name: "Alice"}
	s.commit(member, 1, "room-a")

	candidate := Candidate{Weekday: 2, RoomID: "room-a"}
	got := score(s, member, candidate, true, nil)
	want := baseScore + gradeFreshBonus + roomLoadBonus
	assert.InDelta(t, want, got, 0.0001)
}

func TestScoreSecondHalfAddsBoundedRandomSpread(t *testing.T) {
	s := newState(nil)
	member := models.Member{ID: "m1", ClassID: "c1"}
	candidate := Candidate{Weekday: 1, RoomID: "room-a"}
	rng := rand.New(rand.NewSource(42))

	got := score(s, member, candidate, false, rng)
	min := baseScore + gradeFreshBonus + roomLoadBonus + starvationBonus
	max := min + secondHalfSpreadMax
	assert.GreaterOrEqual(t, got, min)
	assert.Less(t, got, max)
}

func TestBestCandidateBreaksTiesByEnumerationOrder(t *testing.T) {
	s := newState(nil)
	member := models.Member{ID: "m1", ClassID: "c1"}
	candidates := []Candidate{
		{Weekday: 1, RoomID: "room-a"},
		{Weekday: 1, RoomID: "room-b"},
		{Weekday: 2, RoomID: "room-a"},
	}

	best, _, found := bestCandidate(s, member, candidates, true, nil)
	assert.True(t, found)
	assert.Equal(t, candidates[0], best)
}
