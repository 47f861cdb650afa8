// Package stats computes dashboard and report figures from store rows.
//
// Every ratio helper returns 0 when its denominator is 0, so an empty
// database renders as zeros rather than NaN.
package stats

import (
	"math"
	"sort"
	"time"
)

// Uncategorized is the bucket key used for blank categories.
const Uncategorized = "uncategorized"

// Bucket is one group of a breakdown.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Percent returns part/total as a percentage rounded to one decimal place.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

// Rate returns hits/total as a fraction in [0, 1].
func Rate(hits, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// GrowthPercent returns the change from previous to current as a percentage.
func GrowthPercent(previous, current int) float64 {
	if previous == 0 {
		return 0
	}
	return round1(float64(current-previous) / float64(previous) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// MonthKey formats t as YYYY-MM in UTC.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// GroupByMonth counts timestamps per calendar month, oldest first.
func GroupByMonth(times []time.Time) []Bucket {
	counts := make(map[string]int)
	for _, t := range times {
		counts[MonthKey(t)]++
	}
	buckets := toBuckets(counts)
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Key < buckets[j].Key })
	return buckets
}

// GroupByKey counts occurrences of each key, largest group first and ties
// broken by name. Blank keys are counted as Uncategorized.
func GroupByKey(keys []string) []Bucket {
	counts := make(map[string]int)
	for _, k := range keys {
		if k == "" {
			k = Uncategorized
		}
		counts[k]++
	}
	buckets := toBuckets(counts)
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

func toBuckets(counts map[string]int) []Bucket {
	buckets := make([]Bucket, 0, len(counts))
	for k, n := range counts {
		buckets = append(buckets, Bucket{Key: k, Count: n})
	}
	return buckets
}
