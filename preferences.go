package seocrawl

import (
	"slices"
	"strings"
)

// Preferences are the operator's review decisions for a site.
type Preferences struct {
	ApprovedURLs []string `json:"approvedUrls"`
	ExcludedURLs []string `json:"excludedUrls"`
	ManualURLs   []string `json:"manualUrls"`
}

// Normalize trims and deduplicates every set, drops empty entries and
// removes excluded URLs from the approved set. The result never shares
// memory with p and its slices are never nil.
func (p Preferences) Normalize() Preferences {
	excluded := NormalizeURLSet(p.ExcludedURLs)
	approved := slices.DeleteFunc(NormalizeURLSet(p.ApprovedURLs), func(u string) bool {
		return slices.Contains(excluded, u)
	})
	return Preferences{
		ApprovedURLs: approved,
		ExcludedURLs: excluded,
		ManualURLs:   NormalizeURLSet(p.ManualURLs),
	}
}

// IsExcluded reports whether u is in the excluded set.
func (p Preferences) IsExcluded(u string) bool {
	return slices.Contains(p.ExcludedURLs, u)
}

// IsApproved reports whether u is in the approved set.
func (p Preferences) IsApproved(u string) bool {
	return slices.Contains(p.ApprovedURLs, u)
}

// NormalizeURLSet trims each entry, drops empty ones and removes
// duplicates, keeping first occurrences in order.
func NormalizeURLSet(urls []string) []string {
	out := make([]string, 0, len(urls))
	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
