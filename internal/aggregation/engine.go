// Package aggregation groups alert samples into time buckets.
// Everything here is a pure function of its inputs.
package aggregation

import (
	"sort"
	"strconv"
	"time"
)

// BucketKey identifies a time bucket. Fields not used by the period are nil.
type BucketKey struct {
	Year  int  `json:"year"`
	Month *int `json:"month,omitempty"`
	Day   *int `json:"day,omitempty"`
	Hour  *int `json:"hour,omitempty"`
	Week  *int `json:"week,omitempty"`
}

type Bucket struct {
	Key         BucketKey `json:"_id"`
	Count       int       `json:"count"`
	AvgSeverity float64   `json:"avgSeverity"`
}

type Sample struct {
	Timestamp time.Time
	Severity  int
}

// KeyFor derives the bucket key of t in UTC. Weeks are ISO 8601 weeks paired with the ISO year.
func KeyFor(period Period, t time.Time) BucketKey {
	t = t.UTC()
	switch period {
	case PeriodHour:
		return BucketKey{Year: t.Year(), Month: ptr(int(t.Month())), Day: ptr(t.Day()), Hour: ptr(t.Hour())}
	case PeriodWeek:
		year, week := t.ISOWeek()
		return BucketKey{Year: year, Week: ptr(week)}
	case PeriodMonth:
		return BucketKey{Year: t.Year(), Month: ptr(int(t.Month()))}
	default:
		return BucketKey{Year: t.Year(), Month: ptr(int(t.Month())), Day: ptr(t.Day())}
	}
}

// Accumulator folds samples one by one, so a store can stream rows into it.
type Accumulator struct {
	period  Period
	buckets map[string]*acc
}

type acc struct {
	key   BucketKey
	count int
	sum   int
}

func NewAccumulator(period Period) *Accumulator {
	return &Accumulator{period: period, buckets: make(map[string]*acc)}
}

func (a *Accumulator) Add(s Sample) {
	key := KeyFor(a.period, s.Timestamp)
	id := key.String()
	b, ok := a.buckets[id]
	if !ok {
		b = &acc{key: key}
		a.buckets[id] = b
	}
	b.count++
	b.sum += s.Severity
}

// Buckets returns the chronologically ordered result.
func (a *Accumulator) Buckets() []Bucket {
	out := make([]Bucket, 0, len(a.buckets))
	for _, b := range a.buckets {
		out = append(out, Bucket{
			Key:         b.key,
			Count:       b.count,
			AvgSeverity: float64(b.sum) / float64(b.count),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.Less(out[j].Key)
	})
	return out
}

func Aggregate(period Period, samples []Sample) []Bucket {
	a := NewAccumulator(period)
	for _, s := range samples {
		a.Add(s)
	}
	return a.Buckets()
}

// Less orders by year, month, day, hour, then week. A missing field compares equal.
func (k BucketKey) Less(o BucketKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	for _, f := range [][2]*int{{k.Month, o.Month}, {k.Day, o.Day}, {k.Hour, o.Hour}, {k.Week, o.Week}} {
		if f[0] == nil || f[1] == nil || *f[0] == *f[1] {
			continue
		}
		return *f[0] < *f[1]
	}
	return false
}

func (k BucketKey) String() string {
	return strconv.Itoa(k.Year) + "-" + opt(k.Month) + "-" + opt(k.Day) + "T" + opt(k.Hour) + "W" + opt(k.Week)
}

func ptr(v int) *int { return &v }

func opt(v *int) string {
	if v == nil {
		return "_"
	}
	return strconv.Itoa(*v)
}
