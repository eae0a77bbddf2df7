// Package title normalizes media titles and matches them fuzzily.
package title

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// matchThreshold is the minimum Jaro-Winkler similarity for two cleaned
// titles to be considered the same work.
const matchThreshold = 0.85

// Clean normalizes a title for matching purposes.
// Removes leading articles, punctuation, accents, and normalizes whitespace.
func Clean(title string) string {
	s := strings.ToLower(title)

	// Remove accents
	s = removeAccents(s)

	// Normalize punctuation commonly found in release and folder names
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, ".", " ")

	// Split on colon to handle subtitles (e.g., "Léon: The Professional")
	// and strip leading articles from each part.
	parts := strings.Split(s, ":")
	for i, part := range parts {
		parts[i] = stripLeadingArticle(strings.TrimSpace(part))
	}
	s = strings.Join(parts, " ")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	s = b.String()

	return strings.Join(strings.Fields(s), " ")
}

// Similarity returns the Jaro-Winkler similarity of two cleaned titles.
// Jaro-Winkler favors prefix matches, which suits media titles.
func Similarity(a, b string) float64 {
	return float64(edlib.JaroWinklerSimilarity(Clean(a), Clean(b)))
}

// Matches reports whether candidate plausibly refers to wanted.
// A cleaned substring hit matches directly (folder names usually embed the
// title verbatim plus year/quality tags); otherwise the similarity must
// clear the match threshold.
func Matches(candidate, wanted string) bool {
	cc, cw := Clean(candidate), Clean(wanted)
	if cw == "" {
		return false
	}
	if strings.Contains(cc, cw) {
		return true
	}
	return float64(edlib.JaroWinklerSimilarity(cc, cw)) >= matchThreshold
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

func stripLeadingArticle(s string) string {
	s = strings.TrimSpace(s)
	for _, art := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(s, art) {
			return strings.TrimPrefix(s, art)
		}
	}
	return s
}
