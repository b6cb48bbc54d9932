package store

import (
	"fmt"
	"sort"
	"time"
)

// PriceBucket is one group of the printed-test summary.
type PriceBucket struct {
	Key        string  `json:"_id" bson:"_id" gorm:"column:bucket"`
	TotalPrice float64 `json:"total_price" bson:"total_price" gorm:"column:total_price"`
}

type Summary struct {
	Monthly []PriceBucket `json:"monthly"`
	Weekly  []PriceBucket `json:"weekly"`
	Gender  []PriceBucket `json:"gender"`
}

// MonthKey formats t as %Y-%m in UTC.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// WeekKey formats t as %Y-%V in UTC: calendar year and ISO week number,
// the same key MongoDB's $dateToString produces.
func WeekKey(t time.Time) string {
	u := t.UTC()
	_, week := u.ISOWeek()
	return fmt.Sprintf("%04d-%02d", u.Year(), week)
}

// Accumulator sums prices into keyed buckets.
type Accumulator struct {
	totals map[string]float64
}

func NewAccumulator() *Accumulator {
	return &Accumulator{totals: make(map[string]float64)}
}

func (a *Accumulator) Add(key string, price float64) {
	a.totals[key] += price
}

// Buckets returns the groups sorted by key.
func (a *Accumulator) Buckets() []PriceBucket {
	out := make([]PriceBucket, 0, len(a.totals))
	for k, v := range a.totals {
		out = append(out, PriceBucket{Key: k, TotalPrice: v})
	}
	SortBuckets(out)
	return out
}

func SortBuckets(b []PriceBucket) {
	sort.Slice(b, func(i, j int) bool { return b[i].Key < b[j].Key })
}
