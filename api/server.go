// Package api serves matches over HTTP. A room is one running match;
// clients create rooms, poll their state and submit moves for a side.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/domino14/lexicard/cache"
	"github.com/domino14/lexicard/cards"
	"github.com/domino14/lexicard/config"
	"github.com/domino14/lexicard/cpu"
	"github.com/domino14/lexicard/game"
	"github.com/domino14/lexicard/lexicon"
	"github.com/domino14/lexicard/match"
	"github.com/domino14/lexicard/move"
	"github.com/domino14/lexicard/store"
)

// Server holds the router and the running rooms.
type Server struct {
	r     *chi.Mux
	cfg   *config.Config
	store *store.Store
	// Search overrides the CPU search for new rooms; nil means local.
	Search match.SearchFunc

	// ctx bounds every room's Run loop.
	ctx   context.Context
	mu    sync.RWMutex
	rooms map[match.ID]*match.Match
}

// New builds a server. st may be nil, in which case nothing is persisted.
func New(ctx context.Context, cfg *config.Config, st *store.Store) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		cfg:   cfg,
		store: st,
		ctx:   ctx,
		rooms: map[match.ID]*match.Match{},
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(30 * time.Second))
	s.r.Use(jsonContentType)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Route("/rooms", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Post("/move", s.handleMove)
			r.Post("/pass", s.handlePass)
			r.Get("/spellcheck", s.handleSpellCheck)
		})
	})
	s.r.Get("/results", s.handleResults)
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", nil)
	})
	return s
}

func (s *Server) Router() chi.Router { return s.r }

func (s *Server) Start(addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r}
	go func() {
		<-s.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	log.Info().Str("addr", addr).Msg("listening")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

type errorRes struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Word   string `json:"word,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	res := errorRes{Error: code}
	if err != nil {
		res.Detail = err.Error()
		var ime *game.IllegalMoveError
		if errors.As(err, &ime) {
			res.Detail = ime.Reason.Error()
			res.Word = ime.Word
		}
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(res)
}

// writeMatchError maps match and rules errors to statuses.
func writeMatchError(w http.ResponseWriter, err error) {
	var ime *game.IllegalMoveError
	switch {
	case errors.Is(err, match.ErrNotYourTurn):
		writeError(w, http.StatusConflict, "not_your_turn", err)
	case errors.Is(err, match.ErrFinished), errors.Is(err, game.ErrGameOver):
		writeError(w, http.StatusGone, "finished", err)
	case errors.As(err, &ime):
		writeError(w, http.StatusUnprocessableEntity, "illegal_move", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "timeout", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}

type roomRes struct {
	ID    string      `json:"id"`
	Mode  string      `json:"mode"`
	Phase string      `json:"phase"`
	State *game.State `json:"state"`
}

func roomResponse(m *match.Match, st *game.State) roomRes {
	if st == nil {
		st = m.State()
	}
	return roomRes{ID: m.ID().String(), Mode: m.Mode().String(), Phase: m.Phase().String(), State: st}
}

type createReq struct {
	Mode       string   `json:"mode"`
	Category   string   `json:"category"`
	BattleType string   `json:"battle_type"`
	Players    []string `json:"players"`
	MaxTurns   int      `json:"max_turns"`
	CardLevel  int      `json:"card_level"`
}

// NewMatch deals a match from a create request and starts it.
func (s *Server) NewMatch(req createReq) (*match.Match, error) {
	mode, err := match.ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}
	catName := req.Category
	if catName == "" {
		catName = s.cfg.GetString(config.ConfigDefaultCategory)
	}
	category, err := lexicon.ParseCategory(catName)
	if err != nil {
		return nil, err
	}
	rules, err := game.NewRules(s.cfg)
	if err != nil {
		return nil, err
	}
	rules.Category = category
	if req.BattleType != "" {
		rules.BattleType = game.BattleType(req.BattleType)
	}
	if req.MaxTurns > 0 {
		rules.MaxTurns = req.MaxTurns
	}
	if rules.Layout, err = cache.Layout(s.cfg, rules.BoardSize); err != nil {
		return nil, err
	}
	catalogue, err := cache.Catalogue(s.cfg)
	if err != nil {
		return nil, err
	}
	dict, err := cache.Dictionary(s.cfg, category)
	if err != nil {
		return nil, err
	}

	sides := sidesFor(mode, req.Players)
	solo := len(sides) == 1
	for i := range sides {
		sides[i].Deck = cards.BuildDeck(catalogue, category, solo, max(req.CardLevel, 1))
	}
	st, err := game.NewState(rules, sides, nil)
	if err != nil {
		return nil, err
	}
	return s.startMatch(match.NewID(), mode, dict, st)
}

func sidesFor(mode match.Mode, players []string) []game.SideConfig {
	name := func(i int, def string) string {
		if i < len(players) && players[i] != "" {
			return players[i]
		}
		return def
	}
	switch mode {
	case match.ModeSolo:
		return []game.SideConfig{{Name: name(0, "player"), Kind: game.SideHuman}}
	case match.ModeCPUBattle:
		return []game.SideConfig{
			{Name: name(0, "player"), Kind: game.SideHuman},
			{Name: name(1, "cpu"), Kind: game.SideCPU},
		}
	}
	return []game.SideConfig{
		{Name: name(0, "player1"), Kind: game.SideHuman},
		{Name: name(1, "player2"), Kind: game.SideHuman},
	}
}

func (s *Server) startMatch(id match.ID, mode match.Mode, dict *lexicon.Dictionary, st *game.State) (*match.Match, error) {
	mcfg := match.Config{
		Mode:        mode,
		Dict:        dict,
		CPU:         cpu.OptionsFromConfig(s.cfg),
		Search:      s.Search,
		TurnTimeout: time.Duration(s.cfg.GetInt(config.ConfigTurnTimeoutSeconds)) * time.Second,
	}
	if s.store != nil {
		mcfg.Persister = s.store
	}
	m, err := match.New(id, mcfg, st)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.rooms[id] = m
	s.mu.Unlock()

	go func() {
		if err := m.Run(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Str("match", id.String()).Msg("match-run-failed")
		}
	}()
	log.Info().Str("match", id.String()).Str("mode", mode.String()).Msg("room-started")
	return m, nil
}

// Resume restarts every unfinished online match saved in the store.
func (s *Server) Resume(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, nil
	}
	ids, err := s.store.OpenMatches(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, id := range ids {
		snap, err := s.store.LoadSnapshot(ctx, id)
		if err != nil {
			log.Error().Err(err).Str("match", id.String()).Msg("resume-failed")
			continue
		}
		dict, err := cache.Dictionary(s.cfg, snap.State.Category())
		if err != nil {
			return n, err
		}
		if _, err := s.startMatch(id, match.ModeOnlinePvP, dict, snap.State); err != nil {
			log.Error().Err(err).Str("match", id.String()).Msg("resume-failed")
			continue
		}
		n++
	}
	return n, nil
}

func (s *Server) room(w http.ResponseWriter, r *http.Request) *match.Match {
	id, err := match.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_id", err)
		return nil
	}
	s.mu.RLock()
	m := s.rooms[id]
	s.mu.RUnlock()
	if m == nil {
		writeError(w, http.StatusNotFound, "no_such_room", nil)
	}
	return m
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err)
		return
	}
	m, err := s.NewMatch(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_room", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(roomResponse(m, nil))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	m := s.room(w, r)
	if m == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(roomResponse(m, nil))
}

type moveReq struct {
	Side       int              `json:"side"`
	CardID     string           `json:"card_id"`
	Placements []move.Placement `json:"placements"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	m := s.room(w, r)
	if m == nil {
		return
	}
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err)
		return
	}
	st, err := m.Send(r.Context(), match.MoveEvent{Side: req.Side, CardID: req.CardID, Placements: req.Placements})
	if err != nil {
		writeMatchError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(roomResponse(m, st))
}

type sideReq struct {
	Side int `json:"side"`
}

func (s *Server) handlePass(w http.ResponseWriter, r *http.Request) {
	m := s.room(w, r)
	if m == nil {
		return
	}
	var req sideReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err)
		return
	}
	st, err := m.Send(r.Context(), match.PassEvent{Side: req.Side})
	if err != nil {
		writeMatchError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(roomResponse(m, st))
}

func (s *Server) handleSpellCheck(w http.ResponseWriter, r *http.Request) {
	m := s.room(w, r)
	if m == nil {
		return
	}
	side, err := strconv.Atoi(r.URL.Query().Get("side"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_side", err)
		return
	}
	entries, err := m.SpellCheck(r.Context(), side, r.URL.Query().Get("q"))
	if err != nil {
		writeMatchError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"entries":     entries,
		"checks_left": m.State().Sides[side].SpellChecksLeft,
	})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		_ = json.NewEncoder(w).Encode([]store.ResultEntry{})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	res, err := s.store.TopResults(r.Context(), lexicon.Category(r.URL.Query().Get("category")), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error", err)
		return
	}
	if res == nil {
		res = []store.ResultEntry{}
	}
	_ = json.NewEncoder(w).Encode(res)
}
