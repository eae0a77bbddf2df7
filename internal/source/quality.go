package source

import "strings"

// Quality tiers derived from free-form quality labels. Higher is better.
// 480p and unrecognized labels share the middle tier.
const (
	TierLow    = 0 // 360p, 240p
	TierSD     = 1 // 480p and anything unrecognized
	Tier720p   = 2
	Tier1080p  = 3
	Tier2160p  = 4
)

// Tier derives the numeric quality tier from a quality label by substring
// matching. Labels are free-form ("1080p BluRay", "4K REMUX", ...).
func Tier(quality string) int {
	q := strings.ToLower(quality)
	switch {
	case strings.Contains(q, "2160p") || strings.Contains(q, "4k"):
		return Tier2160p
	case strings.Contains(q, "1080p"):
		return Tier1080p
	case strings.Contains(q, "720p"):
		return Tier720p
	case strings.Contains(q, "360p") || strings.Contains(q, "240p"):
		return TierLow
	default:
		return TierSD
	}
}
