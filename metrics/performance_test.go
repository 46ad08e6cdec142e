package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-content-cache/content"
)

func TestPerformanceScores_InsightsAndGrouping(t *testing.T) {
	base := day("2025-05-01")
	source := &memSource{items: []*content.Item{
		// Scores by the engagement formula: blog/Instagram 4,
		// caption/Instagram 5, caption/LinkedIn 3.
		{
			ID: uuid.New(), UserID: "9",
			Text: "a", ContentType: content.TypeBlogPost,
			Platform: content.PlatformInstagram, WordCount: 200,
			CreatedAt: base,
		},
		{
			ID: uuid.New(), UserID: "9",
			Text: "b", ContentType: content.TypeSocialCaption,
			Platform: content.PlatformInstagram, CharacterCount: 100,
			CreatedAt: base.Add(time.Hour),
		},
		{
			ID: uuid.New(), UserID: "9",
			Text: "c", ContentType: content.TypeSocialCaption,
			Platform: content.PlatformLinkedIn, CharacterCount: 100,
			CreatedAt: base.Add(2 * time.Hour),
		},
	}}
	engine := NewEngine(source)

	report, err := engine.PerformanceScores(context.Background(), "9")
	if err != nil {
		t.Fatalf("PerformanceScores failed: %v", err)
	}

	if len(report.ContentScores) != 3 {
		t.Fatalf("expected 3 scored items, got %d", len(report.ContentScores))
	}
	// Most recent first.
	if report.ContentScores[0].Item.Platform != content.PlatformLinkedIn {
		t.Errorf("expected the newest item first, got %+v", report.ContentScores[0].Item)
	}

	in := report.Insights
	// round((4+5+3)/3) = 4
	if in.AverageScore != 4 {
		t.Errorf("expected average score 4, got %d", in.AverageScore)
	}
	if in.TopPerformersCount != 0 || in.NeedsImprovementCount != 0 {
		t.Errorf("scores within 10 of the average, expected zero outliers, got %d / %d",
			in.TopPerformersCount, in.NeedsImprovementCount)
	}

	// Type means tie at 4.0 (blog 4 vs captions (5+3)/2). The caption
	// group holds more items and wins the tie.
	if in.BestPerformingType != content.TypeSocialCaption {
		t.Errorf("expected social_caption to win the type tie on count, got %q", in.BestPerformingType)
	}
	// Instagram mean 4.5 beats LinkedIn 3.
	if in.BestPerformingPlatform != content.PlatformInstagram {
		t.Errorf("expected Instagram as best platform, got %q", in.BestPerformingPlatform)
	}
}

func TestPerformanceScores_EmptyCollection(t *testing.T) {
	engine := NewEngine(&memSource{})

	report, err := engine.PerformanceScores(context.Background(), "1")
	if err != nil {
		t.Fatalf("PerformanceScores failed: %v", err)
	}
	if len(report.ContentScores) != 0 {
		t.Errorf("expected no scored items, got %d", len(report.ContentScores))
	}
	if report.Insights != (Insights{}) {
		t.Errorf("expected zeroed insights, got %+v", report.Insights)
	}
}

func TestPerformanceScores_WindowCapsAtFifty(t *testing.T) {
	base := day("2025-02-01")
	items := make([]*content.Item, 0, 60)
	for i := 0; i < 60; i++ {
		items = append(items, &content.Item{
			ID: uuid.New(), UserID: "2",
			Text: "x", ContentType: content.TypeSocialCaption,
			CharacterCount: 80,
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
		})
	}
	engine := NewEngine(&memSource{items: items})

	report, err := engine.PerformanceScores(context.Background(), "2")
	if err != nil {
		t.Fatalf("PerformanceScores failed: %v", err)
	}
	if len(report.ContentScores) != 50 {
		t.Errorf("expected the 50 most recent items, got %d", len(report.ContentScores))
	}
	// The oldest 10 items fall outside the window.
	oldest := report.ContentScores[len(report.ContentScores)-1].Item
	if oldest.CreatedAt.Before(base.Add(10 * time.Hour)) {
		t.Errorf("window should exclude the oldest items, still saw %v", oldest.CreatedAt)
	}
}

func TestPerformanceScores_NoPlatformExcludedFromGrouping(t *testing.T) {
	source := &memSource{items: []*content.Item{
		{
			ID: uuid.New(), UserID: "4",
			Text: "a", ContentType: content.TypeBlogPost, WordCount: 200,
			CreatedAt: day("2025-07-01"),
		},
	}}
	engine := NewEngine(source)

	report, err := engine.PerformanceScores(context.Background(), "4")
	if err != nil {
		t.Fatalf("PerformanceScores failed: %v", err)
	}
	if report.Insights.BestPerformingPlatform != "" {
		t.Errorf("platformless items must not form a platform group, got %q",
			report.Insights.BestPerformingPlatform)
	}
	if report.Insights.BestPerformingType != content.TypeBlogPost {
		t.Errorf("expected blog_post as the only type group, got %q", report.Insights.BestPerformingType)
	}
}

func TestPerformanceScores_QueryErrorPropagates(t *testing.T) {
	queryErr := errors.New("timeout")
	engine := NewEngine(&memSource{err: queryErr})

	_, err := engine.PerformanceScores(context.Background(), "1")
	if !errors.Is(err, queryErr) {
		t.Errorf("store failure must propagate, got: %v", err)
	}
}

func TestBestGroup_TieBreaks(t *testing.T) {
	tests := []struct {
		name   string
		groups map[string][]int
		want   string
	}{
		{"empty", map[string][]int{}, ""},
		{"highest mean wins", map[string][]int{"a": {10}, "b": {20}}, "b"},
		{"tie broken by count", map[string][]int{"a": {10}, "b": {5, 15}}, "b"},
		{"full tie broken by name", map[string][]int{"b": {10}, "a": {10}}, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bestGroup(tt.groups); got != tt.want {
				t.Errorf("bestGroup = %q, want %q", got, tt.want)
			}
		})
	}
}
