// internal/game/types.go
//
// Core type definitions for the color match engine.
// Defines:
//   - State: where a round stands (awaiting a guess / submitted).
//   - ResubmitPolicy: how a second submission in one round reaches history.
//   - History: the bounded, most-recent-first score record.
//   - Snapshot: a read-only copy of a session for callers outside the engine.

package game

import (
	"fmt"
	"time"

	"github.com/robalobadob/colormatch/internal/color"
)

// State represents the position of the current round in its lifecycle.
// Possible values:
//   - "awaiting_guess": no submission yet this round.
//   - "submitted":      at least one score was recorded this round.
type State string

const (
	StateAwaitingGuess State = "awaiting_guess"
	StateSubmitted     State = "submitted"
)

// ResubmitPolicy controls what a repeated submission within one round does to history.
type ResubmitPolicy string

const (
	// ResubmitAppend pushes every submission, so resubmitting inflates history.
	ResubmitAppend ResubmitPolicy = "append"
	// ResubmitReplace overwrites the entry the round's earlier submission pushed.
	ResubmitReplace ResubmitPolicy = "replace"
)

// ParseResubmitPolicy maps a config string onto a policy. Empty means append.
func ParseResubmitPolicy(s string) (ResubmitPolicy, error) {
	switch ResubmitPolicy(s) {
	case "", ResubmitAppend:
		return ResubmitAppend, nil
	case ResubmitReplace:
		return ResubmitReplace, nil
	}
	return "", fmt.Errorf("unknown resubmit policy %q", s)
}

// HistoryCap is the number of scores retained in History.
const HistoryCap = 5

// History is an ordered most-recent-first score record bounded by HistoryCap.
// The zero value is empty and ready to use.
type History struct {
	scores []Score
}

// Push inserts s at the front, evicting the oldest entry beyond HistoryCap.
func (h *History) Push(s Score) {
	h.scores = append([]Score{s}, h.scores...)
	if len(h.scores) > HistoryCap {
		h.scores = h.scores[:HistoryCap]
	}
}

// replaceFront overwrites the newest entry, or pushes when empty.
func (h *History) replaceFront(s Score) {
	if len(h.scores) == 0 {
		h.Push(s)
		return
	}
	h.scores[0] = s
}

// Len reports the number of retained scores.
func (h History) Len() int { return len(h.scores) }

// Scores returns a copy, most recent first.
func (h History) Scores() []Score {
	out := make([]Score, len(h.scores))
	copy(out, h.scores)
	return out
}

// Snapshot is a detached copy of a session's observable state.
type Snapshot struct {
	ID           string
	Round        int
	State        State
	Target       color.RGB
	LastScore    *Score
	HasSubmitted bool
	History      []Score
	Policy       ResubmitPolicy
	CreatedAt    time.Time
	LastUsedAt   time.Time
}
