package metrics

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/goliatone/go-content-cache/content"
)

// recentWindow bounds how many rows feed the performance view. Older items
// stop influencing insights once the user has produced enough new content.
const recentWindow = 50

// ScoredContent pairs a content item with its engagement estimate.
type ScoredContent struct {
	Item    *content.Item     `json:"item" msgpack:"item"`
	Metrics EngagementMetrics `json:"metrics" msgpack:"metrics"`
}

// Insights summarizes the scored window. Best-performing fields stay empty
// when no group qualifies.
type Insights struct {
	AverageScore           int                 `json:"average_score" msgpack:"average_score"`
	TopPerformersCount     int                 `json:"top_performers_count" msgpack:"top_performers_count"`
	NeedsImprovementCount  int                 `json:"needs_improvement_count" msgpack:"needs_improvement_count"`
	BestPerformingType     content.ContentType `json:"best_performing_type" msgpack:"best_performing_type"`
	BestPerformingPlatform content.Platform    `json:"best_performing_platform" msgpack:"best_performing_platform"`
}

// PerformanceReport is the cache payload for the performance namespace.
type PerformanceReport struct {
	ContentScores []ScoredContent `json:"content_scores" msgpack:"content_scores"`
	Insights      Insights        `json:"insights" msgpack:"insights"`
}

// PerformanceScores scores the user's most recent content and derives
// insights from the score distribution. Top performers sit more than 10
// points above the rounded average, needs-improvement items more than 10
// below. Best-performing groups pick the highest mean score; ties break by
// higher item count, then lexicographically smaller group name, so the
// result is stable across map iteration orders.
func (e *Engine) PerformanceScores(ctx context.Context, userID string) (*PerformanceReport, error) {
	items, err := e.source.ListRecentByOwner(ctx, userID, recentWindow)
	if err != nil {
		return nil, fmt.Errorf("metrics: query recent content: %w", err)
	}

	scored := make([]ScoredContent, len(items))
	scoreSum := 0
	for i, item := range items {
		m := Score(item)
		scored[i] = ScoredContent{Item: item, Metrics: m}
		scoreSum += m.EngagementScore
	}

	report := &PerformanceReport{ContentScores: scored}
	if len(scored) == 0 {
		return report, nil
	}

	avg := int(math.Round(float64(scoreSum) / float64(len(scored))))
	report.Insights.AverageScore = avg

	typeScores := make(map[string][]int)
	platformScores := make(map[string][]int)
	for _, sc := range scored {
		score := sc.Metrics.EngagementScore
		if score > avg+10 {
			report.Insights.TopPerformersCount++
		}
		if score < avg-10 {
			report.Insights.NeedsImprovementCount++
		}

		typeScores[string(sc.Item.ContentType)] = append(typeScores[string(sc.Item.ContentType)], score)
		if sc.Item.Platform != "" {
			platformScores[string(sc.Item.Platform)] = append(platformScores[string(sc.Item.Platform)], score)
		}
	}

	report.Insights.BestPerformingType = content.ContentType(bestGroup(typeScores))
	report.Insights.BestPerformingPlatform = content.Platform(bestGroup(platformScores))

	return report, nil
}

// bestGroup returns the name of the group with the highest mean score, or ""
// when there are no groups.
func bestGroup(groups map[string][]int) string {
	type candidate struct {
		name  string
		mean  float64
		count int
	}

	candidates := make([]candidate, 0, len(groups))
	for name, scores := range groups {
		sum := 0
		for _, s := range scores {
			sum += s
		}
		candidates = append(candidates, candidate{
			name:  name,
			mean:  float64(sum) / float64(len(scores)),
			count: len(scores),
		})
	}
	if len(candidates) == 0 {
		return ""
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].mean != candidates[j].mean {
			return candidates[i].mean > candidates[j].mean
		}
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].name < candidates[j].name
	})
	return candidates[0].name
}
