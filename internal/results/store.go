// internal/results/store.go
//
// Submission log backed by SQL.
// Every scored guess is appended here so the API can show a per-session
// log and aggregate stats beyond the five-entry in-game history.

package results

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/robalobadob/colormatch/internal/color"
	"github.com/robalobadob/colormatch/internal/game"
)

// Submission is one logged, scored guess.
type Submission struct {
	ID        int64      `json:"id"`
	SessionID string     `json:"sessionId"`
	Round     int        `json:"round"`
	Target    color.RGB  `json:"target"`
	Guess     color.RGB  `json:"guess"`
	Score     game.Score `json:"score"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Stats aggregates a session's logged submissions.
type Stats struct {
	Submissions int        `json:"submissions"`
	Rounds      int        `json:"rounds"`
	Best        game.Score `json:"best"`
	Average     game.Score `json:"average"`
}

// Store reads and writes the submissions table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record appends a submission.
func (s *Store) Record(ctx context.Context, sub Submission) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions(session_id, round, target, guess, score) VALUES(?,?,?,?,?)`,
		sub.SessionID, sub.Round, sub.Target.Hex(), sub.Guess.Hex(), float64(sub.Score),
	)
	if err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}

// Recent returns up to limit submissions for a session, newest first.
func (s *Store) Recent(ctx context.Context, sessionID string, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, round, target, guess, score, created_at
		FROM submissions
		WHERE session_id=?
		ORDER BY id DESC
		LIMIT ?`, sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Submission, 0, limit)
	for rows.Next() {
		var (
			sub           Submission
			target, guess string
			score         float64
			created       string
		)
		if err := rows.Scan(&sub.ID, &sub.SessionID, &sub.Round, &target, &guess, &score, &created); err != nil {
			return nil, err
		}
		if sub.Target, err = color.ParseHex(target); err != nil {
			return nil, fmt.Errorf("submission %d target: %w", sub.ID, err)
		}
		if sub.Guess, err = color.ParseHex(guess); err != nil {
			return nil, fmt.Errorf("submission %d guess: %w", sub.ID, err)
		}
		sub.Score = game.Score(score)
		sub.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, sub)
	}
	return out, rows.Err()
}

// Stats summarizes a session's log. A session with no rows yields zero Stats.
func (s *Store) Stats(ctx context.Context, sessionID string) (Stats, error) {
	var (
		st       Stats
		best, av sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1), COUNT(DISTINCT round), MAX(score), AVG(score)
		FROM submissions
		WHERE session_id=?`, sessionID,
	).Scan(&st.Submissions, &st.Rounds, &best, &av)
	if err != nil {
		return Stats{}, err
	}
	st.Best = game.Score(best.Float64)
	st.Average = game.RoundScore(av.Float64)
	return st, nil
}

// Forget deletes a session's rows.
func (s *Store) Forget(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM submissions WHERE session_id=?`, sessionID)
	return err
}
