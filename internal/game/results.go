package game

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const DefaultTopN = 10

// rankItems sorts a copy of items by descending rating. The sort is stable,
// so equal ratings keep catalog order.
func rankItems(items []Item) []Item {
	out := append([]Item(nil), items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	return out
}

// Summary is the digest shown alongside the final standings.
type Summary struct {
	Top            []Item `json:"top"`
	Ranked         int    `json:"ranked"`
	AverageMatches int    `json:"averageMatches"`
	HighestRating  int    `json:"highestRating"`
	Favorite       *Item  `json:"favorite,omitempty"`
}

// Summarize expects results already ranked, as returned by Session.Results.
func Summarize(results []Item, topN int) Summary {
	if topN <= 0 {
		topN = DefaultTopN
	}
	sum := Summary{Ranked: len(results)}
	if len(results) == 0 {
		return sum
	}
	if topN > len(results) {
		topN = len(results)
	}
	sum.Top = append([]Item(nil), results[:topN]...)

	total := 0
	sum.HighestRating = results[0].Rating
	for _, it := range results {
		total += it.Matches
		if it.Rating > sum.HighestRating {
			sum.HighestRating = it.Rating
		}
	}
	sum.AverageMatches = int(math.Floor(float64(total)/float64(len(results)) + .5))
	fav := results[0]
	sum.Favorite = &fav
	return sum
}

// ShareText renders the top list as plain text, e.g. for a clipboard.
func (s Summary) ShareText(subject string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("My Top %d %s:\n", len(s.Top), subject))
	for i, it := range s.Top {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, it.Name))
	}
	sb.WriteString("\nGenerated by Suburb Swipe!")
	return sb.String()
}
