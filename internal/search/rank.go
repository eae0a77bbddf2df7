package search

import (
	"strings"

	"github.com/lidanthedev/Mirrarr/internal/source"
)

// Policy selects the best result from a set of candidates. Selection is a
// pure function of the inputs: no I/O, no randomness, no clock.
type Policy struct {
	// PreferredSource names the source whose results win over all others,
	// compared case-insensitively. Empty means no preference.
	PreferredSource string

	// QualityLimit is the highest quality tier allowed ("2160p", "1080p",
	// ...). Results above the limit are filtered out before ranking.
	QualityLimit string
}

// SelectBest returns the highest-ranked candidate, or ErrNoResults when no
// candidate survives the quality filter. Ranking is lexicographic: preferred
// source first, then quality tier, then smallest size. The first-seen
// candidate wins ties, so equal inputs always produce the same choice.
func (p Policy) SelectBest(results []source.Result) (*source.Result, error) {
	limit := source.Tier(p.QualityLimit)

	var best *source.Result
	for i := range results {
		r := &results[i]
		if source.Tier(r.Quality) > limit {
			continue
		}
		if best == nil || p.better(r, best) {
			best = r
		}
	}

	if best == nil {
		return nil, ErrNoResults
	}
	chosen := *best
	return &chosen, nil
}

// better reports whether a outranks b.
func (p Policy) better(a, b *source.Result) bool {
	ap, bp := p.isPreferred(a), p.isPreferred(b)
	if ap != bp {
		return ap
	}

	at, bt := source.Tier(a.Quality), source.Tier(b.Quality)
	if at != bt {
		return at > bt
	}

	return a.SizeBytes < b.SizeBytes
}

func (p Policy) isPreferred(r *source.Result) bool {
	return p.PreferredSource != "" && strings.EqualFold(r.SourceID, p.PreferredSource)
}
