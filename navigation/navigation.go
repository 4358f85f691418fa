// Package navigation is the data and the rules every portal navigation
// renders from: the static item list, active-route matching, badge labels,
// expandable sidebar sections and which bars a viewport width gets.
package navigation

import (
	"strconv"
	"strings"
)

// Item is one navigation entry.
type Item struct {
	ID    string `json:"id"`
	Href  string `json:"href"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Badge int    `json:"badge,omitempty"`
}

// Section is a titled group of items in the sidebar.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// MaxBadge is the largest count shown literally; anything above reads "9+".
const MaxBadge = 9

// IsActive reports whether href should be highlighted for currentPath: the
// paths are equal or currentPath is a descendant segment of href.
func IsActive(currentPath, href string) bool {
	return currentPath == href || strings.HasPrefix(currentPath, href+"/")
}

// ActiveIDs returns the ids of every item active for currentPath, in list
// order. Overlapping hrefs can yield several ids; no longest match is picked.
func ActiveIDs(currentPath string, items []Item) []string {
	ids := []string{}
	for _, item := range items {
		if IsActive(currentPath, item.Href) {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// BadgeText is the label for a badge count. show is false for n <= 0.
func BadgeText(n int) (text string, show bool) {
	if n <= 0 {
		return "", false
	}
	if n > MaxBadge {
		return strconv.Itoa(MaxBadge) + "+", true
	}
	return strconv.Itoa(n), true
}

// WithBadges copies items with Badge taken from counts, keyed by item id.
// Items missing from counts keep their configured badge.
func WithBadges(items []Item, counts map[string]int) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	for i := range out {
		if n, ok := counts[out[i].ID]; ok {
			out[i].Badge = n
		}
	}
	return out
}

// Find returns the item with the given id.
func Find(items []Item, id string) (Item, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}
