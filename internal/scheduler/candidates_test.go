package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/library-duty-scheduler/internal/models"
)

func TestEnumerateCandidatesCoversEveryWeekdayAndRoom(t *testing.T) {
	s := newState(nil)
	member := models.Member{ID: "m1", ClassID: "c1"}
	rooms := twoRooms()

	candidates := enumerateCandidates(s, member, rooms)
	assert.Len(t, candidates, LastWeekday*len(rooms))
}

func TestEnumerateCandidatesExcludesWeekdaysAlreadyUsedByMember(t *testing.T) {
	s := newState(nil)
	member := models.Member{ID: "m1", ClassID: "c1", Name: "Alice"}
	s.commit(member, 1, "room-a")

	candidates := enumerateCandidates(s, member, twoRooms())
	for _, c := range candidates {
		assert.NotEqual(t, 1, c.Weekday)
	}
}

func TestEnumerateCandidatesExcludesRotationLockedWeekdays(t *testing.T) {
	s := newState(map[string]bool{"m1": true})
	member := models.Member{ID: "m1", ClassID: "c1"}

	candidates := enumerateCandidates(s, member, twoRooms())
	for _, c := range candidates {
		assert.NotEqual(t, 3, c.Weekday)
		assert.NotEqual(t, 5, c.Weekday)
	}
}
