package metrics

import (
	"math"
	"regexp"
	"strings"

	"github.com/goliatone/go-content-cache/content"
)

const (
	// baseReach anchors every reach estimate before multipliers apply.
	baseReach = 100.0

	// minReach floors the estimate so downstream rate math never divides
	// by a degenerate audience size.
	minReach = 50

	clickRate = 0.15
	shareRate = 0.08
)

// QualityFactors records which engagement-relevant signals were detected in
// the content text. All detections are reported even when a platform rule
// suppresses the corresponding bonus.
type QualityFactors struct {
	HasHashtags     bool `json:"has_hashtags" msgpack:"has_hashtags"`
	HasQuestions    bool `json:"has_questions" msgpack:"has_questions"`
	HasCallToAction bool `json:"has_call_to_action" msgpack:"has_call_to_action"`
	HasEmojis       bool `json:"has_emojis" msgpack:"has_emojis"`
	OptimalLength   bool `json:"optimal_length" msgpack:"optimal_length"`
}

// EngagementMetrics is the per-item engagement estimate. The numbers are
// synthetic projections, not measurements; they exist so the analytics and
// performance views have a consistent scale to aggregate over.
type EngagementMetrics struct {
	PotentialReach       int            `json:"potential_reach" msgpack:"potential_reach"`
	EstimatedEngagements int            `json:"estimated_engagements" msgpack:"estimated_engagements"`
	EstimatedClicks      int            `json:"estimated_clicks" msgpack:"estimated_clicks"`
	EstimatedShares      int            `json:"estimated_shares" msgpack:"estimated_shares"`
	EngagementScore      int            `json:"engagement_score" msgpack:"engagement_score"`
	QualityFactors       QualityFactors `json:"quality_factors" msgpack:"quality_factors"`
}

type platformProfile struct {
	reachMultiplier float64
	engagementRate  float64
}

var platformProfiles = map[content.Platform]platformProfile{
	content.PlatformTwitter:   {reachMultiplier: 1.2, engagementRate: 0.035},
	content.PlatformLinkedIn:  {reachMultiplier: 0.8, engagementRate: 0.025},
	content.PlatformFacebook:  {reachMultiplier: 1.5, engagementRate: 0.02},
	content.PlatformInstagram: {reachMultiplier: 1.8, engagementRate: 0.045},
}

var defaultProfile = platformProfile{reachMultiplier: 1.0, engagementRate: 0.02}

var (
	hashtagPattern = regexp.MustCompile(`#\w+`)
	emojiPattern   = regexp.MustCompile(`[\x{1F300}-\x{1F5FF}\x{1F600}-\x{1F64F}\x{1F680}-\x{1F6FF}\x{1F900}-\x{1F9FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}]`)
)

var callToActionVerbs = []string{
	"click", "visit", "check", "learn", "discover",
	"try", "get", "download", "sign up", "subscribe",
}

// Score computes the engagement estimate for a single content item. It is a
// pure function of the item's text, type, and platform, so the same item
// always scores identically regardless of cache state.
func Score(item *content.Item) EngagementMetrics {
	profile, ok := platformProfiles[item.Platform]
	if !ok {
		profile = defaultProfile
	}

	typeReach := 1.0
	typeRate := 1.0
	switch item.ContentType {
	case content.TypeBlogPost:
		typeReach = 1.3
		typeRate = 0.8
	case content.TypeSocialCaption:
		typeReach = 1.1
		typeRate = 1.2
	}

	factors := detectQualityFactors(item.Text)

	quality := 1.0
	if factors.HasHashtags {
		quality += 0.15
	}
	if factors.HasQuestions {
		quality += 0.10
	}
	if factors.HasCallToAction {
		quality += 0.20
	}
	// LinkedIn audiences do not reward emoji use, so the signal is
	// reported but carries no bonus there.
	if factors.HasEmojis && item.Platform != content.PlatformLinkedIn {
		quality += 0.10
	}

	length := lengthMultiplier(item)
	factors.OptimalLength = length > 1.0

	reach := int(math.Round(baseReach * profile.reachMultiplier * typeReach * quality * length))
	if reach < minReach {
		reach = minReach
	}

	engagements := int(math.Round(float64(reach) * profile.engagementRate * typeRate))
	clicks := int(math.Round(float64(engagements) * clickRate))
	shares := int(math.Round(float64(engagements) * shareRate))
	score := int(math.Round(float64(engagements) / float64(reach) * 100))

	return EngagementMetrics{
		PotentialReach:       reach,
		EstimatedEngagements: engagements,
		EstimatedClicks:      clicks,
		EstimatedShares:      shares,
		EngagementScore:      score,
		QualityFactors:       factors,
	}
}

func detectQualityFactors(text string) QualityFactors {
	lower := strings.ToLower(text)

	hasCTA := false
	for _, verb := range callToActionVerbs {
		if strings.Contains(lower, verb) {
			hasCTA = true
			break
		}
	}

	return QualityFactors{
		HasHashtags:     hashtagPattern.MatchString(text),
		HasQuestions:    strings.Contains(text, "?"),
		HasCallToAction: hasCTA,
		HasEmojis:       emojiPattern.MatchString(text),
	}
}

// lengthMultiplier rewards content in the sweet spot for its type and
// penalizes extremes. Captions are judged by characters, blog posts by words.
func lengthMultiplier(item *content.Item) float64 {
	switch item.ContentType {
	case content.TypeSocialCaption:
		switch {
		case item.CharacterCount > 50 && item.CharacterCount < 150:
			return 1.2
		case item.CharacterCount > 280:
			return 0.7
		}
	case content.TypeBlogPost:
		switch {
		case item.WordCount > 100 && item.WordCount < 300:
			return 1.1
		case item.WordCount < 50:
			return 0.8
		}
	}
	return 1.0
}
