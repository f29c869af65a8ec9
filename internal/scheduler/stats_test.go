package scheduler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/library-duty-scheduler/internal/models"
)

func TestBuildStatisticsSummarisesACompletedRun(t *testing.T) {
	members := fourClassMembers()
	rooms := twoRooms()
	rng := rand.New(rand.NewSource(7))
	result := RunGreedyAllocator(members, rooms, nil, true, rng)

	stats := BuildStatistics(result.Assignments, members, rooms)

	assert.Equal(t, len(result.Assignments), stats.AssignmentCount)
	assert.Equal(t, len(members), stats.MemberCount)
	assert.Equal(t, len(rooms), stats.RoomCount)
	assert.InDelta(t, float64(len(result.Assignments))/float64(len(members)), stats.MeanAssignmentsPerMember, 0.0001)
	assert.Len(t, stats.Weekdays, LastWeekday)
	assert.Len(t, stats.Members, len(members))

	for _, m := range stats.Members {
		assert.Len(t, m.Weekdays, TargetAssignmentsPerMember)
	}

	for _, wd := range stats.Weekdays {
		assert.NotEmpty(t, wd.Grades, "weekday %d should have staffed grades", wd.Weekday)
		for _, grade := range wd.Grades {
			assert.Contains(t, []int{5, 6}, grade)
		}
	}
}

func TestGradeBreakdownDedupesAndSorts(t *testing.T) {
	members := fourClassMembers()
	grades := GradeBreakdown(members, []string{"m3", "m1", "m5", "m7"})
	assert.Equal(t, []int{5, 6}, grades)
}

func TestGradeBreakdownSkipsUnknownMemberIDs(t *testing.T) {
	members := fourClassMembers()
	grades := GradeBreakdown(members, []string{"m1", "ghost"})
	assert.Equal(t, []int{5}, grades)
}

func TestGradeBreakdownEmptyInput(t *testing.T) {
	assert.Empty(t, GradeBreakdown(nil, nil))
	assert.Empty(t, GradeBreakdown([]models.Member{{ID: "m1", Grade: 5}}, nil))
}

func TestBuildStatisticsHandlesNoAssignments(t *testing.T) {
	stats := BuildStatistics(nil, fourClassMembers(), twoRooms())
	assert.Equal(t, 0, stats.AssignmentCount)
	assert.Equal(t, 0.0, stats.MeanAssignmentsPerMember)
	assert.Empty(t, stats.Members)
	assert.Len(t, stats.Weekdays, LastWeekday)
}
