// Package rating implements the Elo update used to rank catalog items from
// pairwise choices.
package rating

import "math"

const (
	// DefaultBaseline is the rating every item starts a session with.
	DefaultBaseline = 1200

	// spread is the rating gap at which the stronger side is expected to be
	// preferred ten times as often.
	spread = 400.0
)

// ExpectedScore returns the modeled probability that self is preferred over
// opponent.
func ExpectedScore(self, opponent float64) float64 {
	return 1 / (1 + math.Pow(10, (opponent-self)/spread))
}

// Result is the outcome of a single rating update.
type Result struct {
	WinnerRating int     `json:"winnerRating"`
	LoserRating  int     `json:"loserRating"`
	WinnerK      float64 `json:"winnerK"`
	LoserK       float64 `json:"loserK"`
}

// Engine applies the Elo update with a per-side K-factor policy.
type Engine struct {
	policy KPolicy
}

// New returns an engine using p. A nil policy falls back to DefaultPolicy.
func New(p KPolicy) *Engine {
	if p == nil {
		p = DefaultPolicy()
	}
	return &Engine{policy: p}
}

// Policy returns the K-factor policy in use.
func (e *Engine) Policy() KPolicy { return e.policy }

// Update computes post-match ratings for a decided match. Match counts are the
// counts before this match.
func (e *Engine) Update(winnerRating, loserRating, winnerMatches, loserMatches int) Result {
	w, l := float64(winnerRating), float64(loserRating)
	expectedWinner := ExpectedScore(w, l)
	expectedLoser := ExpectedScore(l, w)

	kw := e.policy.K(winnerMatches)
	kl := e.policy.K(loserMatches)

	return Result{
		WinnerRating: round(w + kw*(1-expectedWinner)),
		LoserRating:  round(l + kl*(0-expectedLoser)),
		WinnerK:      kw,
		LoserK:       kl,
	}
}

// round rounds half up, so -30.5 becomes -30 rather than -31.
func round(f float64) int {
	return int(math.Floor(f + .5))
}
