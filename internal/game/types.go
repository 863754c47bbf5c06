package game

import (
	"time"

	"github.com/jsabazova/suburb-swipe/internal/rating"
)

type Phase string

const (
	PhaseNotStarted Phase = "NotStarted"
	PhaseInProgress Phase = "InProgress"
	PhaseEnded      Phase = "Ended"
)

const DefaultMaxRounds = 20

type SessionConfig struct {
	MaxRounds      int            `json:"maxRounds"`
	BaselineRating int            `json:"baselineRating"`
	Rating         rating.Options `json:"rating"`
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.MaxRounds <= 0 {
		c.MaxRounds = DefaultMaxRounds
	}
	if c.BaselineRating == 0 {
		c.BaselineRating = rating.DefaultBaseline
	}
	return c
}

// CatalogItem is the descriptive part of an item as supplied by a catalog
// source. The engine never inspects anything but ID.
type CatalogItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

type Item struct {
	CatalogItem
	Rating  int `json:"rating"`
	Matches int `json:"matches"`
}

// Pair is the pair presented for a round. Left and right carry no rating
// meaning.
type Pair struct {
	Round int  `json:"round"`
	Left  Item `json:"left"`
	Right Item `json:"right"`
}

func (p Pair) Key() PairKey { return NewPairKey(p.Left.ID, p.Right.ID) }

// Has reports whether id is one of the two sides.
func (p Pair) Has(id string) bool { return p.Left.ID == id || p.Right.ID == id }

// Outcome is what RecordChoice hands back: either the next pair, or the
// end-of-session results.
type Outcome struct {
	Next    *Pair  `json:"next,omitempty"`
	Ended   bool   `json:"ended"`
	Results []Item `json:"results,omitempty"`
}

// Match records one decided comparison.
type Match struct {
	ID           string    `json:"id"`
	Round        int       `json:"round"`
	WinnerID     string    `json:"winnerId"`
	LoserID      string    `json:"loserId"`
	WinnerBefore int       `json:"winnerBefore"`
	LoserBefore  int       `json:"loserBefore"`
	WinnerAfter  int       `json:"winnerAfter"`
	LoserAfter   int       `json:"loserAfter"`
	DecidedAt    time.Time `json:"decidedAt"`
}
