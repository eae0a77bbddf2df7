package dirlist

import (
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Entry is one row of a directory index.
type Entry struct {
	Name  string
	URL   string // absolute URL
	Size  int64  // bytes, 0 when the listing doesn't report one
	IsDir bool
}

// videoExtensions are the file extensions treated as downloadable video.
var videoExtensions = map[string]bool{
	"mp4": true, "m4v": true, "mkv": true, "webm": true, "mov": true,
	"avi": true, "wmv": true, "mts": true, "m2ts": true, "ts": true,
	"flv": true, "vob": true, "ogv": true, "3gp": true, "3g2": true,
	"m1v": true, "m2v": true, "f4v": true, "asf": true, "qt": true,
}

// IsVideo reports whether the entry looks like a video file.
func (e Entry) IsVideo() bool {
	if e.IsDir {
		return false
	}
	i := strings.LastIndexByte(e.Name, '.')
	if i < 0 {
		return false
	}
	return videoExtensions[strings.ToLower(e.Name[i+1:])]
}

// anchorPattern matches autoindex rows: an anchor followed by optional
// date/size columns (nginx and Apache fancy-index layouts).
var anchorPattern = regexp.MustCompile(`<a href="([^"?]+)"[^>]*>([^<]+)</a>([^\n<]*)`)

// sizePattern extracts the trailing size column ("123456", "1.2G", "512M").
var sizePattern = regexp.MustCompile(`(\d+(?:\.\d+)?[KMGTP]?i?B?)\s*$`)

// parseListing extracts entries from a directory index page.
// Parent-directory links and external URLs are skipped.
func parseListing(html string, base *url.URL) []Entry {
	var entries []Entry
	for _, m := range anchorPattern.FindAllStringSubmatch(html, -1) {
		href, label, tail := m[1], strings.TrimSpace(m[2]), m[3]

		if href == "../" || strings.EqualFold(label, "parent directory") {
			continue
		}

		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		abs := base.ResolveReference(ref)
		if abs.Host != base.Host {
			continue
		}

		entry := Entry{
			Name:  strings.TrimSuffix(decodedName(href, label), "/"),
			URL:   abs.String(),
			IsDir: strings.HasSuffix(href, "/"),
		}
		if !entry.IsDir {
			if sm := sizePattern.FindStringSubmatch(strings.TrimSpace(tail)); sm != nil {
				if n, err := humanize.ParseBytes(sm[1]); err == nil {
					entry.Size = int64(n)
				}
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// decodedName prefers the unescaped href over the anchor label, which
// fancy indexes truncate with "..>".
func decodedName(href, label string) string {
	if decoded, err := url.PathUnescape(href); err == nil {
		// Keep only the last path segment
		decoded = strings.TrimSuffix(decoded, "/")
		if i := strings.LastIndexByte(decoded, '/'); i >= 0 {
			decoded = decoded[i+1:]
		}
		if decoded != "" {
			return decoded
		}
	}
	return strings.TrimSuffix(label, "/")
}

// listingCache memoizes directory fetches for a short TTL so repeated
// aggregations don't hammer the remote index.
type listingCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	listing []Entry
	expires time.Time
}

func newListingCache(ttl time.Duration) *listingCache {
	return &listingCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

func (c *listingCache) get(url string) ([]Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[url]
	if !ok || time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.listing, true
}

func (c *listingCache) set(url string, listing []Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[url] = cacheEntry{
		listing: listing,
		expires: time.Now().Add(c.ttl),
	}
}
