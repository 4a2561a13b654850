// internal/httpserver/routes_session.go
//
// HTTP routes for a player's game session.
// Exposes endpoints under /session:
//   - POST   /session             → create a session (new target, empty history)
//   - GET    /session             → current state
//   - DELETE /session             → end the session and drop its log
//   - POST   /session/round       → start a new round
//   - POST   /session/submit      → score a guess
//   - GET    /session/stats       → aggregates from the submission log
//   - GET    /session/submissions → recent logged submissions
//
// Sessions live in the in-memory store; every scored guess is also written
// to the submission log (best effort).

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colormatch/internal/color"
	"github.com/robalobadob/colormatch/internal/game"
	"github.com/robalobadob/colormatch/internal/results"
	"github.com/robalobadob/colormatch/internal/store"
)

const (
	defaultSubmissionLimit = 20
	maxSubmissionLimit     = 100
)

// mountSession registers all /session routes.
func (s *Server) mountSession(r chi.Router) {
	r.Route("/session", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/", s.handleState)
			r.Delete("/", s.handleEnd)
			r.Post("/round", s.handleNewRound)
			r.Post("/submit", s.handleSubmit)
			r.Get("/stats", s.handleStats)
			r.Get("/submissions", s.handleSubmissions)
		})
	})
}

// stateRes is the wire form of a session snapshot.
type stateRes struct {
	ID           string              `json:"id"`
	Round        int                 `json:"round"`
	State        game.State          `json:"state"`
	Target       colorRes            `json:"target"`
	HasSubmitted bool                `json:"hasSubmitted"`
	LastScore    *game.Score         `json:"lastScore,omitempty"`
	Band         game.Band           `json:"band,omitempty"`
	Message      string              `json:"message,omitempty"`
	History      []game.Score        `json:"history"`
	Policy       game.ResubmitPolicy `json:"policy"`
}

func toStateRes(snap game.Snapshot) stateRes {
	res := stateRes{
		ID:           snap.ID,
		Round:        snap.Round,
		State:        snap.State,
		Target:       toColorRes(snap.Target),
		HasSubmitted: snap.HasSubmitted,
		LastScore:    snap.LastScore,
		History:      snap.History,
		Policy:       snap.Policy,
	}
	if snap.LastScore != nil {
		res.Band = snap.LastScore.Band()
		res.Message = res.Band.Message()
	}
	return res
}

// -----------------------------------------------------------------------------
// POST /session

// createRes is returned by POST /session.
type createRes struct {
	Token   string   `json:"token"`
	Session stateRes `json:"session"`
}

// handleCreate starts a fresh session and hands the client its token.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess := game.NewSession(s.gen, game.WithResubmitPolicy(s.cfg.Policy))
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}
	tok, exp, err := s.signSessionToken(sess.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign session token")
		writeError(w, http.StatusInternalServerError, "sign_failed", "")
		return
	}
	s.setSessionCookie(w, tok, exp)
	log.Info().Str("session", sess.ID).Msg("session created")

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(createRes{Token: tok, Session: toStateRes(sess.Snapshot())})
}

// -----------------------------------------------------------------------------
// GET /session, DELETE /session, POST /session/round

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), sessionID(r))
	if err != nil {
		s.storeError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(toStateRes(snap))
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.storeError(w, err)
		return
	}
	if s.results != nil {
		if err := s.results.Forget(r.Context(), id); err != nil {
			log.Warn().Err(err).Str("session", id).Msg("forget submissions")
		}
	}
	s.clearSessionCookie(w)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var res stateRes
	err := s.store.Update(r.Context(), sessionID(r), func(sess *game.Session) error {
		sess.NewRound()
		res = toStateRes(sess.Snapshot())
		return nil
	})
	if err != nil {
		s.storeError(w, err)
		return
	}
	log.Debug().Str("session", res.ID).Int("round", res.Round).Msg("new round")
	_ = json.NewEncoder(w).Encode(res)
}

// -----------------------------------------------------------------------------
// POST /session/submit

// submitReq carries a guess as channels or as a display code.
// Channels are pointers so a missing one is distinguishable from 0.
type submitReq struct {
	R   *int   `json:"r"`
	G   *int   `json:"g"`
	B   *int   `json:"b"`
	Hex string `json:"hex"`
}

// guess validates the request into a color.
func (req submitReq) guess() (color.RGB, error) {
	if req.Hex != "" {
		return color.ParseHex(req.Hex)
	}
	if req.R == nil || req.G == nil || req.B == nil {
		return color.RGB{}, errMissingChannel
	}
	return color.New(*req.R, *req.G, *req.B)
}

var errMissingChannel = errors.New("r, g and b are all required")

// submitRes is the response payload for /session/submit.
type submitRes struct {
	Score   game.Score   `json:"score"`
	Band    game.Band    `json:"band"`
	Message string       `json:"message"`
	Guess   colorRes     `json:"guess"`
	Target  colorRes     `json:"target"`
	Round   int          `json:"round"`
	History []game.Score `json:"history"`
}

// handleSubmit scores a guess for the caller's session.
// - Rejects malformed bodies and out-of-range channels with 400.
// - Records the score in session history and the submission log.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	guess, err := req.guess()
	switch {
	case errors.Is(err, color.ErrInvalidComponent):
		writeError(w, http.StatusBadRequest, "invalid_color_component", err.Error())
		return
	case errors.Is(err, color.ErrInvalidHex):
		writeError(w, http.StatusBadRequest, "invalid_hex", err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, "invalid_guess", err.Error())
		return
	}

	var (
		res    submitRes
		target color.RGB
	)
	id := sessionID(r)
	err = s.store.Update(r.Context(), id, func(sess *game.Session) error {
		score := sess.Submit(guess)
		target = sess.Target()
		res = submitRes{
			Score:   score,
			Band:    score.Band(),
			Message: score.Band().Message(),
			Guess:   toColorRes(guess),
			Target:  toColorRes(target),
			Round:   sess.Round(),
			History: sess.History(),
		}
		return nil
	})
	if err != nil {
		s.storeError(w, err)
		return
	}

	// Persist to the log (best effort, non-fatal if it fails)
	if s.results != nil {
		sub := results.Submission{
			SessionID: id,
			Round:     res.Round,
			Target:    target,
			Guess:     guess,
			Score:     res.Score,
		}
		if err := s.results.Record(r.Context(), sub); err != nil {
			log.Warn().Err(err).Str("session", id).Msg("record submission")
		}
	}

	log.Info().Str("session", id).Int("round", res.Round).Float64("score", float64(res.Score)).Msg("guess scored")
	_ = json.NewEncoder(w).Encode(res)
}

// -----------------------------------------------------------------------------
// GET /session/stats, GET /session/submissions

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if _, err := s.store.Get(r.Context(), id); err != nil {
		s.storeError(w, err)
		return
	}
	if s.results == nil {
		_ = json.NewEncoder(w).Encode(results.Stats{})
		return
	}
	st, err := s.results.Stats(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("session", id).Msg("load stats")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	_ = json.NewEncoder(w).Encode(st)
}

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if _, err := s.store.Get(r.Context(), id); err != nil {
		s.storeError(w, err)
		return
	}
	limit := defaultSubmissionLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", v)
			return
		}
		limit = min(n, maxSubmissionLimit)
	}
	out := []results.Submission{}
	if s.results != nil {
		subs, err := s.results.Recent(r.Context(), id, limit)
		if err != nil {
			log.Error().Err(err).Str("session", id).Msg("load submissions")
			writeError(w, http.StatusInternalServerError, "db_error", "")
			return
		}
		out = subs
	}
	_ = json.NewEncoder(w).Encode(out)
}

// storeError maps store failures onto HTTP responses.
func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session_not_found", "")
		return
	}
	log.Error().Err(err).Msg("session store")
	writeError(w, http.StatusInternalServerError, "store_error", "")
}
