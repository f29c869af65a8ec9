package scheduler

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// weekdayRRule maps the five assignable weekdays to their rrule-go
// constant, used only by the presentational calendar expansion below.
var weekdayRRule = map[int]rrule.Weekday{
	1: rrule.MO,
	2: rrule.TU,
	3: rrule.WE,
	4: rrule.TH,
	5: rrule.FR,
}

// ExpandWeekdayToDates turns a weekday number into the concrete calendar
// dates it falls on between termStart and termEnd, inclusive. The core
// allocator never deals in dates, only weekday numbers; this exists
// purely so a caller can render a roster against an actual term calendar.
func ExpandWeekdayToDates(weekday int, termStart, termEnd time.Time) ([]time.Time, error) {
	wd, ok := weekdayRRule[weekday]
	if !ok {
		return nil, fmt.Errorf("weekday %d is out of range %d-%d", weekday, FirstWeekday, LastWeekday)
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{wd},
		Dtstart:   termStart,
	})
	if err != nil {
		return nil, fmt.Errorf("build weekly rule: %w", err)
	}

	return rule.Between(termStart, termEnd, true), nil
}
