package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandWeekdayToDatesReturnsOnlyMatchingWeekday(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	dates, err := ExpandWeekdayToDates(3, start, end)
	require.NoError(t, err)
	assert.NotEmpty(t, dates)
	for _, d := range dates {
		assert.Equal(t, time.Wednesday, d.Weekday())
	}
}

func TestExpandWeekdayToDatesRejectsOutOfRangeWeekday(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	_, err := ExpandWeekdayToDates(7, start, end)
	assert.Error(t, err)
}
