package content

import (
	"strings"
	"unicode"
)

// ParseContentType maps a stored label to a ContentType. Rows imported from
// older exports carry labels like "Blog Post" or "blog-post"; everything
// normalizes through toSnake before matching. Unknown labels default to
// TypeSocialCaption, the cheaper scoring path.
func ParseContentType(label string) ContentType {
	switch toSnake(label) {
	case "blog_post", "blog":
		return TypeBlogPost
	case "social_caption", "caption", "social":
		return TypeSocialCaption
	default:
		return TypeSocialCaption
	}
}

// ParsePlatform maps a stored label to a Platform. Unknown or empty labels
// map to the empty Platform, which the scorer treats as the default profile
// and the performance grouping excludes.
func ParsePlatform(label string) Platform {
	switch toSnake(label) {
	case "twitter", "x":
		return PlatformTwitter
	case "linked_in", "linkedin":
		return PlatformLinkedIn
	case "facebook":
		return PlatformFacebook
	case "instagram":
		return PlatformInstagram
	case "general":
		return PlatformGeneral
	default:
		return ""
	}
}

// toSnake converts the provided string to snake_case using ASCII-aware rules.
// We keep this implementation local so we can aggressively strip punctuation
// that shows up in imported labels; leaving those characters in would break
// the switch-based matching above.
func toSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	lastUnderscore := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case unicode.IsUpper(r):
			if b.Len() > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if (unicode.IsLower(prev) || unicode.IsDigit(prev) || nextLower) && !lastUnderscore {
					b.WriteByte('_')
					lastUnderscore = true
				}
			}
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false

		case unicode.IsLower(r):
			b.WriteRune(r)
			lastUnderscore = false

		case unicode.IsDigit(r):
			if b.Len() > 0 {
				prev := runes[i-1]
				if !unicode.IsDigit(prev) && prev != '_' && !lastUnderscore {
					b.WriteByte('_')
				}
			}
			b.WriteRune(r)
			lastUnderscore = false

		case r == '_':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}

		case r == '-' || unicode.IsSpace(r):
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}

		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	return strings.Trim(b.String(), "_")
}
