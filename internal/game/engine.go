// internal/game/engine.go
//
// Session engine for a single color match player.
// Responsibilities:
//   - Create sessions seeded with a random target and empty history.
//   - Start new rounds (fresh target, cleared score, history kept).
//   - Score submissions and record them in history.
//
// Notes:
//   - A Session is not safe for concurrent use; the store serializes access.
//   - Nothing here performs I/O. The generator is the only collaborator.
//   - Session IDs are random UUIDs so they can be handed to clients.

package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/colormatch/internal/color"
)

// Session holds the state of one player's game across rounds.
type Session struct {
	ID string

	gen    color.Generator
	policy ResubmitPolicy
	now    func() time.Time

	target       color.RGB
	lastScore    Score
	hasSubmitted bool
	history      History

	round     int
	createdAt time.Time
	lastUsed  time.Time
}

// Option customizes a Session at construction.
type Option func(*Session)

// WithResubmitPolicy selects how repeated in-round submissions reach history.
func WithResubmitPolicy(p ResubmitPolicy) Option {
	return func(s *Session) { s.policy = p }
}

// WithID overrides the generated session ID.
func WithID(id string) Option {
	return func(s *Session) { s.ID = id }
}

// WithClock replaces time.Now for the created/last-used timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession creates a session in round 1, awaiting a guess, with empty history.
func NewSession(gen color.Generator, opts ...Option) *Session {
	s := &Session{
		ID:     uuid.NewString(),
		gen:    gen,
		policy: ResubmitAppend,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.createdAt = s.now().UTC()
	s.NewRound()
	return s
}

// NewRound draws a fresh target and clears the round's score. History is kept.
func (s *Session) NewRound() {
	s.target = s.gen.Generate()
	s.lastScore = 0
	s.hasSubmitted = false
	s.round++
	s.touch()
}

// Submit scores guess against the current target and records the result.
// Resubmitting in the same round is allowed; see ResubmitPolicy.
func (s *Session) Submit(guess color.RGB) Score {
	score := Similarity(s.target, guess)
	if s.hasSubmitted && s.policy == ResubmitReplace {
		s.history.replaceFront(score)
	} else {
		s.history.Push(score)
	}
	s.lastScore = score
	s.hasSubmitted = true
	s.touch()
	return score
}

// Target is the current round's answer.
func (s *Session) Target() color.RGB { return s.target }

// LastScore returns the latest score of this round; ok is false before any submission.
func (s *Session) LastScore() (score Score, ok bool) {
	return s.lastScore, s.hasSubmitted
}

// HasSubmitted reports whether the current round has a recorded score.
func (s *Session) HasSubmitted() bool { return s.hasSubmitted }

// History returns recent scores, most recent first (at most HistoryCap).
func (s *Session) History() []Score { return s.history.Scores() }

// State derives the round state from the submission flag.
func (s *Session) State() State {
	if s.hasSubmitted {
		return StateSubmitted
	}
	return StateAwaitingGuess
}

// Round is the 1-based number of the current round.
func (s *Session) Round() int { return s.round }

// Policy reports the session's resubmission policy.
func (s *Session) Policy() ResubmitPolicy { return s.policy }

// LastUsed is the time of the latest NewRound or Submit.
func (s *Session) LastUsed() time.Time { return s.lastUsed }

// Snapshot copies the observable state out of the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:           s.ID,
		Round:        s.round,
		State:        s.State(),
		Target:       s.target,
		HasSubmitted: s.hasSubmitted,
		History:      s.history.Scores(),
		Policy:       s.policy,
		CreatedAt:    s.createdAt,
		LastUsedAt:   s.lastUsed,
	}
	if s.hasSubmitted {
		sc := s.lastScore
		snap.LastScore = &sc
	}
	return snap
}

func (s *Session) touch() { s.lastUsed = s.now().UTC() }
