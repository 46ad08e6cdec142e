package metrics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/goliatone/go-content-cache/content"
)

// Overview holds the whole-range aggregates. Every field defaults to zero
// for an empty row set; callers never see null-like values.
type Overview struct {
	TotalItems        int     `json:"total_items" msgpack:"total_items"`
	AvgWordCount      float64 `json:"avg_word_count" msgpack:"avg_word_count"`
	AvgCharacterCount float64 `json:"avg_character_count" msgpack:"avg_character_count"`
	AvgReach          float64 `json:"avg_reach" msgpack:"avg_reach"`
	TotalReach        int     `json:"total_reach" msgpack:"total_reach"`
}

// TypeGroup is one (content type, platform) bucket of the range.
type TypeGroup struct {
	ContentType content.ContentType `json:"content_type" msgpack:"content_type"`
	Platform    content.Platform    `json:"platform" msgpack:"platform"`
	Count       int                 `json:"count" msgpack:"count"`
	AvgReach    float64             `json:"avg_reach" msgpack:"avg_reach"`
}

// DailyTrend is one calendar-day bucket. Date is the UTC day of creation in
// YYYY-MM-DD form.
type DailyTrend struct {
	Date       string `json:"date" msgpack:"date"`
	Count      int    `json:"count" msgpack:"count"`
	TotalReach int    `json:"total_reach" msgpack:"total_reach"`
}

// AnalyticsResult is the cache payload for the analytics namespace.
type AnalyticsResult struct {
	Overview      Overview     `json:"overview" msgpack:"overview"`
	ContentByType []TypeGroup  `json:"content_by_type" msgpack:"content_by_type"`
	DailyTrends   []DailyTrend `json:"daily_trends" msgpack:"daily_trends"`

	// Trend percentages compare the queried range against the
	// immediately preceding range of equal duration.
	ContentTrend  float64 `json:"content_trend" msgpack:"content_trend"`
	ReachTrend    float64 `json:"reach_trend" msgpack:"reach_trend"`
	CurrentTotal  int     `json:"current_total" msgpack:"current_total"`
	PreviousTotal int     `json:"previous_total" msgpack:"previous_total"`
	CurrentReach  int     `json:"current_reach" msgpack:"current_reach"`
	PreviousReach int     `json:"previous_reach" msgpack:"previous_reach"`
}

// AdvancedAnalytics aggregates the user's content created in [start, end):
// overview means and totals over the stored reach metric, buckets per
// (type, platform) pair, ascending daily trend series, and trend percentages
// against the preceding range of equal length. Store failures propagate
// unchanged; there is no cached substitute for a failed query.
func (e *Engine) AdvancedAnalytics(ctx context.Context, userID string, start, end time.Time) (*AnalyticsResult, error) {
	items, err := e.source.ListByOwnerBetween(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("metrics: query content range: %w", err)
	}

	result := &AnalyticsResult{
		ContentByType: buildTypeGroups(items),
		DailyTrends:   buildDailyTrends(items),
	}

	totalReach := 0
	totalWords := 0
	totalChars := 0
	for _, item := range items {
		totalReach += item.PotentialReach
		totalWords += item.WordCount
		totalChars += item.CharacterCount
	}

	result.Overview = Overview{
		TotalItems: len(items),
		TotalReach: totalReach,
	}
	if n := len(items); n > 0 {
		result.Overview.AvgWordCount = round2(float64(totalWords) / float64(n))
		result.Overview.AvgCharacterCount = round2(float64(totalChars) / float64(n))
		result.Overview.AvgReach = round2(float64(totalReach) / float64(n))
	}

	prevStart := start.Add(-end.Sub(start))
	previous, err := e.source.ListByOwnerBetween(ctx, userID, prevStart, start)
	if err != nil {
		return nil, fmt.Errorf("metrics: query previous range: %w", err)
	}

	prevReach := 0
	for _, item := range previous {
		prevReach += item.PotentialReach
	}

	result.CurrentTotal = len(items)
	result.PreviousTotal = len(previous)
	result.CurrentReach = totalReach
	result.PreviousReach = prevReach
	result.ContentTrend = trendPercent(float64(len(items)), float64(len(previous)))
	result.ReachTrend = trendPercent(float64(totalReach), float64(prevReach))

	return result, nil
}

func buildTypeGroups(items []*content.Item) []TypeGroup {
	type groupKey struct {
		contentType content.ContentType
		platform    content.Platform
	}
	type groupAcc struct {
		count int
		reach int
	}

	groups := make(map[groupKey]*groupAcc)
	for _, item := range items {
		key := groupKey{contentType: item.ContentType, platform: item.Platform}
		acc, ok := groups[key]
		if !ok {
			acc = &groupAcc{}
			groups[key] = acc
		}
		acc.count++
		acc.reach += item.PotentialReach
	}

	out := make([]TypeGroup, 0, len(groups))
	for key, acc := range groups {
		out = append(out, TypeGroup{
			ContentType: key.contentType,
			Platform:    key.platform,
			Count:       acc.count,
			AvgReach:    round2(float64(acc.reach) / float64(acc.count)),
		})
	}

	// Map iteration order is random; sort so identical inputs produce
	// byte-identical cache payloads.
	sort.Slice(out, func(i, j int) bool {
		if out[i].ContentType != out[j].ContentType {
			return out[i].ContentType < out[j].ContentType
		}
		return out[i].Platform < out[j].Platform
	})
	return out
}

func buildDailyTrends(items []*content.Item) []DailyTrend {
	buckets := make(map[string]*DailyTrend)
	for _, item := range items {
		day := item.CreatedAt.UTC().Format("2006-01-02")
		bucket, ok := buckets[day]
		if !ok {
			bucket = &DailyTrend{Date: day}
			buckets[day] = bucket
		}
		bucket.Count++
		bucket.TotalReach += item.PotentialReach
	}

	out := make([]DailyTrend, 0, len(buckets))
	for _, bucket := range buckets {
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// trendPercent compares a current total to the previous period's. A flat
// zero baseline yields 0, growth from zero reports as 100.
func trendPercent(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return round2((current - previous) / previous * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
