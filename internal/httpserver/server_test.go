package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/robalobadob/colormatch/assets"
	"github.com/robalobadob/colormatch/internal/color"
	"github.com/robalobadob/colormatch/internal/game"
	"github.com/robalobadob/colormatch/internal/results"
	"github.com/robalobadob/colormatch/internal/store"
)

var testTargets = []color.RGB{
	color.MustNew(100, 150, 200),
	color.MustNew(0, 0, 0),
}

// cycling hands out testTargets in order, wrapping around.
func cycling() color.Generator {
	i := 0
	return color.GeneratorFunc(func() color.RGB {
		c := testTargets[i%len(testTargets)]
		i++
		return c
	})
}

func newTestServer(t *testing.T, policy game.ResubmitPolicy) (*Server, store.Store) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := results.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := results.Migrate(context.Background(), db, assets.Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	st := store.NewMemoryStore()
	srv := New(st, results.NewStore(db), cycling(), Config{
		Secret:   []byte("test-secret"),
		TokenTTL: time.Hour,
		Policy:   policy,
	})
	return srv, st
}

func do(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func createSession(t *testing.T, srv *Server) createRes {
	t.Helper()
	w := do(t, srv, http.MethodPost, "/session", "", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /session = %d %s", w.Code, w.Body.String())
	}
	return decode[createRes](t, w)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, game.ResubmitAppend)
	w := do(t, srv, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestCreateSession(t *testing.T) {
	srv, st := newTestServer(t, game.ResubmitAppend)
	w := do(t, srv, http.MethodPost, "/session", "", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", w.Code)
	}
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "colormatch_session" {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" || !cookie.HttpOnly {
		t.Fatalf("session cookie missing or insecure: %+v", cookie)
	}

	res := decode[createRes](t, w)
	if res.Token != cookie.Value {
		t.Error("body token and cookie differ")
	}
	sess := res.Session
	if sess.State != game.StateAwaitingGuess || sess.HasSubmitted || sess.LastScore != nil {
		t.Errorf("unexpected initial state %+v", sess)
	}
	if sess.Target.Hex != "#6496c8" || sess.Round != 1 || len(sess.History) != 0 {
		t.Errorf("unexpected initial session %+v", sess)
	}
	if st.Len() != 1 {
		t.Errorf("store holds %d sessions", st.Len())
	}
}

func TestCookieAuthenticates(t *testing.T) {
	srv, _ := newTestServer(t, game.ResubmitAppend)
	created := createSession(t, srv)

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.AddCookie(&http.Cookie{Name: "colormatch_session", Value: created.Token})
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /session with cookie = %d", w.Code)
	}
	if got := decode[stateRes](t, w); got.ID != created.Session.ID {
		t.Errorf("resolved session %q, want %q", got.ID, created.Session.ID)
	}
}

func TestSubmitScoresGuess(t *testing.T) {
	srv, _ := newTestServer(t, game.ResubmitAppend)
	tok := createSession(t, srv).Token

	w := do(t, srv, http.MethodPost, "/session/submit", tok, map[string]int{"r": 100, "g": 150, "b": 200})
	if w.Code != http.StatusOK {
		t.Fatalf("submit = %d %s", w.Code, w.Body.String())
	}
	res := decode[submitRes](t, w)
	if res.Score != 100 || res.Band != game.BandExcellent || res.Message == "" {
		t.Errorf("unexpected result %+v", res)
	}
	if len(res.History) != 1 || res.History[0] != 100 {
		t.Errorf("history = %v", res.History)
	}

	state := decode[stateRes](t, do(t, srv, http.MethodGet, "/session", tok, nil))
	if !state.HasSubmitted || state.State != game.StateSubmitted || state.LastScore == nil || *state.LastScore != 100 {
		t.Errorf("state after submit = %+v", state)
	}
}

func TestSubmitByHex(t *testing.T) {
	srv, _ := newTestServer(t, game.ResubmitAppend)
	tok := createSession(t, srv).Token

	w := do(t, srv, http.MethodPost, "/session/submit", tok, map[string]string{"hex": "#000000"})
	if w.Code != http.StatusOK {
		t.Fatalf("submit = %d %s", w.Code, w.Body.String())
	}
	res := decode[submitRes](t, w)
	want := game.Similarity(testTargets[0], color.RGB{})
	if res.Score != want || res.Guess.Hex != "#000000" {
		t.Errorf("score = %v guess = %+v, want %v", res.Score, res.Guess, want)
	}
}

func TestSubmitRejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(t, game.ResubmitAppend)
	tok := createSession(t, srv).Token

	cases := []struct {
		name string
		body any
		code string
	}{
		{"channel too big", map[string]int{"r": 256, "g": 0, "b": 0}, "invalid_color_component"},
		{"negative channel", map[string]int{"r": 0, "g": -1, "b": 0}, "invalid_color_component"},
		{"missing channel", map[string]int{"r": 1, "g": 2}, "invalid_guess"},
		{"bad hex", map[string]string{"hex": "#zzzzzz"}, "invalid_hex"},
		{"not json", "{", "bad_json"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/session/submit", tok, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if got := decode[errorRes](t, w); got.Error != tc.code {
				t.Errorf("error = %q, want %q", got.Error, tc.code)
			}
		})
	}

	state := decode[stateRes](t, do(t, srv, http.MethodGet, "/session", tok, nil))
	if state.HasSubmitted || len(state.History) != 0 {
		t.Errorf("rejected input changed the session: %+v", state)
	}
}

func TestNewRoundKeepsHistory(t *testing.T) {
	srv, _ := newTestServer(t, game.ResubmitAppend)
	tok := createSession(t, srv).Token
	do(t, srv, http.MethodPost, "/session/submit", tok, map[string]int{"r": 0, "g": 0, "b": 0})

	w := do(t, srv, http.MethodPost, "/session/round", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("round = %d", w.Code)
	}
	state := decode[stateRes](t, w)
	if state.Round != 2 || state.HasSubmitted || state.LastScore != nil {
		t.Errorf("state after new round = %+v", state)
	}
	if state.Target.Hex != "#000000" {
		t.Errorf("target = %+v, want the second generated color", state.Target)
	}
	if len(state.History) != 1 {
		t.Errorf("history = %v, want one entry", state.History)
	}
}

func TestResubmitPolicies(t *testing.T) {
	for policy, wantLen := range map[game.ResubmitPolicy]int{game.ResubmitAppend: 3, game.ResubmitReplace: 1} {
		t.Run(string(policy), func(t *testing.T) {
			srv, _ := newTestServer(t, policy)
			tok := createSession(t, srv).Token
			var res submitRes
			for i := 0; i < 3; i++ {
				res = decode[submitRes](t, do(t, srv, http.MethodPost, "/session/submit", tok, map[string]int{"r": i, "g": 0, "b": 0}))
			}
			if len(res.History) != wantLen {
				t.Errorf("history = %v, want %d entries", res.History, wantLen)
			}
		})
	}
}

func TestStatsAndSubmissions(t *testing.T) {
	srv, _ := newTestServer(t, game.ResubmitAppend)
	tok := createSession(t, srv).Token
	do(t, srv, http.MethodPost, "/session/submit", tok, map[string]int{"r": 100, "g": 150, "b": 200})
	do(t, srv, http.MethodPost, "/session/round", tok, nil)
	do(t, srv, http.MethodPost, "/session/submit", tok, map[string]int{"r": 255, "g": 255, "b": 255})

	stats := decode[results.Stats](t, do(t, srv, http.MethodGet, "/session/stats", tok, nil))
	if stats.Submissions != 2 || stats.Rounds != 2 || stats.Best != 100 || stats.Average != 50 {
		t.Errorf("stats = %+v", stats)
	}

	w := do(t, srv, http.MethodGet, "/session/submissions?limit=1", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("submissions = %d", w.Code)
	}
	subs := decode[[]results.Submission](t, w)
	if len(subs) != 1 || subs[0].Round != 2 || subs[0].Score != 0 {
		t.Errorf("submissions = %+v", subs)
	}

	if w := do(t, srv, http.MethodGet, "/session/submissions?limit=abc", tok, nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d", w.Code)
	}
}

func TestSessionAuthFailures(t *testing.T) {
	srv, st := newTestServer(t, game.ResubmitAppend)

	if w := do(t, srv, http.MethodGet, "/session", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d", w.Code)
	}
	if w := do(t, srv, http.MethodGet, "/session", "garbage", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d", w.Code)
	}

	other := New(st, nil, cycling(), Config{Secret: []byte("other-secret")})
	foreign, _, err := other.signSessionToken("whatever")
	if err != nil {
		t.Fatal(err)
	}
	if w := do(t, srv, http.MethodGet, "/session", foreign, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("foreign token status = %d", w.Code)
	}

	orphan, _, _ := srv.signSessionToken("no-such-session")
	w := do(t, srv, http.MethodPost, "/session/submit", orphan, map[string]int{"r": 0, "g": 0, "b": 0})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown session status = %d", w.Code)
	}
}

func TestEndSession(t *testing.T) {
	srv, st := newTestServer(t, game.ResubmitAppend)
	tok := createSession(t, srv).Token

	if w := do(t, srv, http.MethodDelete, "/session", tok, nil); w.Code != http.StatusOK {
		t.Fatalf("DELETE /session = %d", w.Code)
	}
	if st.Len() != 0 {
		t.Errorf("store still holds %d sessions", st.Len())
	}
	if w := do(t, srv, http.MethodGet, "/session", tok, nil); w.Code != http.StatusNotFound {
		t.Errorf("GET after delete = %d, want 404", w.Code)
	}
}

func TestColorEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, game.ResubmitAppend)

	w := do(t, srv, http.MethodGet, "/color/ff0080", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode[colorRes](t, w); got != (colorRes{R: 255, G: 0, B: 128, Hex: "#ff0080"}) {
		t.Errorf("color = %+v", got)
	}
	if w := do(t, srv, http.MethodGet, "/color/nothex", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad hex status = %d", w.Code)
	}
}

func TestNotFoundIsJSON(t *testing.T) {
	srv, _ := newTestServer(t, game.ResubmitAppend)
	w := do(t, srv, http.MethodGet, "/nope", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode[errorRes](t, w); got.Error != "not_found" {
		t.Errorf("error = %q", got.Error)
	}
}
