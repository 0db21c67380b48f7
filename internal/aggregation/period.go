package aggregation

import "strings"

type Period string

const (
	PeriodHour  Period = "hour"
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod never fails: unrecognized input means day granularity.
func ParsePeriod(s string) Period {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodHour, PeriodDay, PeriodWeek, PeriodMonth:
		return p
	default:
		return PeriodDay
	}
}
