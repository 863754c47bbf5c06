package game

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jsabazova/suburb-swipe/internal/random"
	"github.com/jsabazova/suburb-swipe/internal/rating"
)

// ErrInvalidArgument is the root of every contract violation raised by a
// Session. Running out of pairs is not an error.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	ErrTooFewItems   = fmt.Errorf("%w: at least two catalog items are required", ErrInvalidArgument)
	ErrNoActivePair  = fmt.Errorf("%w: no active pair", ErrInvalidArgument)
	ErrUnknownWinner = fmt.Errorf("%w: winner is not in the active pair", ErrInvalidArgument)
	ErrSessionEnded  = fmt.Errorf("%w: session has ended", ErrInvalidArgument)
	ErrStaleDecision = fmt.Errorf("%w: decision is for another round", ErrInvalidArgument)
)

// RandSource draws the next pair. *math/rand.Rand satisfies it.
type RandSource interface {
	Intn(n int) int
}

// lockedSource serializes draws from a source shared by several sessions.
type lockedSource struct {
	mu  sync.Mutex
	src RandSource
}

func (l *lockedSource) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Intn(n)
}

type Option func(*Session)

// WithRand draws pairs from r. The option may be reused across sessions,
// for example through NewRoomManager; draws from r are serialized.
func WithRand(r RandSource) Option {
	ls := &lockedSource{src: r}
	return func(s *Session) { s.rng = ls }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session is one play-through over a fixed catalog. It owns every item's
// rating and match count; callers only ever see copies.
//
// A drawn pair stays presented until it is decided, so calling
// SelectNextPair again returns the same pair without consuming randomness.
type Session struct {
	mu sync.Mutex

	cfg    SessionConfig
	engine *rating.Engine
	rng    RandSource
	now    func() time.Time

	phase   Phase
	order   []string
	items   map[string]*Item
	used    map[PairKey]struct{}
	rounds  int
	current *[2]string
	history []Match
}

// NewSession loads catalog with every rating reset to the configured baseline.
func NewSession(catalog []CatalogItem, cfg SessionConfig, opts ...Option) (*Session, error) {
	if len(catalog) < 2 {
		return nil, ErrTooFewItems
	}
	cfg = cfg.withDefaults()
	policy, err := cfg.Rating.Policy()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	s := &Session{
		cfg:    cfg,
		engine: rating.New(policy),
		now:    time.Now,
		phase:  PhaseNotStarted,
		order:  make([]string, 0, len(catalog)),
		items:  make(map[string]*Item, len(catalog)),
		used:   make(map[PairKey]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = random.NewSource()
	}
	for _, c := range catalog {
		s.order = append(s.order, c.ID)
		s.items[c.ID] = &Item{CatalogItem: c, Rating: cfg.BaselineRating}
	}
	return s, nil
}

func (s *Session) Config() SessionConfig { return s.cfg }

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Rounds returns the number of decided rounds.
func (s *Session) Rounds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rounds
}

// Current returns the presented pair, if any.
func (s *Session) Current() (Pair, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Pair{}, false
	}
	return s.pair(), true
}

// SelectNextPair returns the pair to present, drawing one uniformly from the
// unused pairs if none is presented yet. It returns false once the session
// has ended or no unused pair remains.
func (s *Session) SelectNextPair() (Pair, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectNextPair()
}

func (s *Session) selectNextPair() (Pair, bool) {
	if s.phase == PhaseEnded {
		return Pair{}, false
	}
	if s.current != nil {
		return s.pair(), true
	}
	cands := candidatePairs(s.order, s.used)
	if len(cands) == 0 {
		s.phase = PhaseEnded
		return Pair{}, false
	}
	c := cands[s.rng.Intn(len(cands))]
	s.current = &c
	s.phase = PhaseInProgress
	return s.pair(), true
}

func (s *Session) pair() Pair {
	return Pair{
		Round: s.rounds + 1,
		Left:  *s.items[s.current[0]],
		Right: *s.items[s.current[1]],
	}
}

// RecordChoice applies the user's pick for the presented pair and returns the
// next pair, or the final standings when the session ends. Nothing is
// modified when an error is returned.
func (s *Session) RecordChoice(winnerID string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordChoice(winnerID)
}

// RecordChoiceForRound is RecordChoice guarded by the round number the caller
// was shown, so a repeated or late decision cannot land on the following pair.
func (s *Session) RecordChoiceForRound(round int, winnerID string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkActive(); err != nil {
		return Outcome{}, err
	}
	if round != s.rounds+1 {
		return Outcome{}, fmt.Errorf("%w: got round %d, presenting %d", ErrStaleDecision, round, s.rounds+1)
	}
	return s.recordChoice(winnerID)
}

func (s *Session) checkActive() error {
	if s.phase == PhaseEnded {
		return ErrSessionEnded
	}
	if s.current == nil {
		return ErrNoActivePair
	}
	return nil
}

func (s *Session) recordChoice(winnerID string) (Outcome, error) {
	if err := s.checkActive(); err != nil {
		return Outcome{}, err
	}
	a, b := s.current[0], s.current[1]
	var loserID string
	switch winnerID {
	case a:
		loserID = b
	case b:
		loserID = a
	default:
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownWinner, winnerID)
	}

	winner, loser := s.items[winnerID], s.items[loserID]
	res := s.engine.Update(winner.Rating, loser.Rating, winner.Matches, loser.Matches)

	s.rounds++
	s.history = append(s.history, Match{
		ID:           uuid.NewString(),
		Round:        s.rounds,
		WinnerID:     winnerID,
		LoserID:      loserID,
		WinnerBefore: winner.Rating,
		LoserBefore:  loser.Rating,
		WinnerAfter:  res.WinnerRating,
		LoserAfter:   res.LoserRating,
		DecidedAt:    s.now().UTC(),
	})
	winner.Rating, loser.Rating = res.WinnerRating, res.LoserRating
	winner.Matches++
	loser.Matches++
	s.used[NewPairKey(a, b)] = struct{}{}
	s.current = nil

	if s.rounds >= s.cfg.MaxRounds || !hasCandidate(s.order, s.used) {
		s.phase = PhaseEnded
		return Outcome{Ended: true, Results: rankItems(s.itemsInOrder())}, nil
	}
	next, _ := s.selectNextPair()
	return Outcome{Next: &next}, nil
}

func (s *Session) itemsInOrder() []Item {
	out := make([]Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.items[id])
	}
	return out
}

// Items returns every item in catalog order.
func (s *Session) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemsInOrder()
}

// Results returns the standings: highest rating first, catalog order on ties.
func (s *Session) Results() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rankItems(s.itemsInOrder())
}

func (s *Session) UsedPairs() []PairKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PairKey, 0, len(s.used))
	for k := range s.used {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (s *Session) History() []Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Match(nil), s.history...)
}
