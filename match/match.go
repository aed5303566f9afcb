// Package match runs a game between its sides. It owns the current game
// state, decides whose turn it is, hands turns to the CPU and persists
// online games. Inputs arrive as events and are handled one at a time by
// Run.
package match

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/lexicard/board"
	"github.com/domino14/lexicard/cpu"
	"github.com/domino14/lexicard/game"
	"github.com/domino14/lexicard/lexicon"
	"github.com/domino14/lexicard/move"
	"github.com/domino14/lexicard/tilemapping"
)

var (
	ErrNotYourTurn = errors.New("it is not your turn")
	ErrFinished    = errors.New("the match is over")
)

// Mode is the kind of match.
type Mode int

const (
	ModeSolo Mode = iota
	ModeCPUBattle
	ModeLocalPvP
	ModeOnlinePvP
)

var modeNames = map[Mode]string{
	ModeSolo:      "solo",
	ModeCPUBattle: "cpu",
	ModeLocalPvP:  "local",
	ModeOnlinePvP: "online",
}

func (m Mode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, n := range modeNames {
		if n == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Phase is where the match is in the current turn.
type Phase int

const (
	PhaseAwaitingMove Phase = iota
	PhaseValidating
	PhaseRejected
	PhaseScoring
	PhaseCommitting
	PhaseSwitchOrEnd
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingMove:
		return "awaiting-move"
	case PhaseValidating:
		return "validating"
	case PhaseRejected:
		return "rejected"
	case PhaseScoring:
		return "scoring"
	case PhaseCommitting:
		return "committing"
	case PhaseSwitchOrEnd:
		return "switch-or-end"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

// PlayerResult is one side's final standing.
type PlayerResult struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	HP    int    `json:"hp,omitempty"`
}

// Result is a finished match, as handed to the persister.
type Result struct {
	MatchID    ID               `json:"match_id"`
	Mode       Mode             `json:"mode"`
	Category   lexicon.Category `json:"category"`
	Players    []PlayerResult   `json:"players"`
	Winner     int              `json:"winner"`
	Turns      int              `json:"turns"`
	Words      []string         `json:"words"`
	FinishedAt time.Time        `json:"finished_at"`
}

// Persister stores matches so online games can be resumed and finished
// games ranked.
type Persister interface {
	SaveSnapshot(ctx context.Context, id ID, st *game.State) error
	SaveResult(ctx context.Context, res Result) error
}

// SearchFunc finds a play for the CPU. cpu.Search is the local one; the
// bot client searches remotely.
type SearchFunc func(ctx context.Context, b *board.GameBoard, rack *tilemapping.Rack,
	dict cpu.Dictionary, opts cpu.Options) (*move.Candidate, error)

type Config struct {
	Mode Mode
	Dict *lexicon.Dictionary
	CPU  cpu.Options
	// Search defaults to cpu.Search.
	Search SearchFunc
	// Persister may be nil. Snapshots are only saved for online matches;
	// results are saved for every mode.
	Persister Persister
	// TurnTimeout force-passes a human side that takes too long. Zero
	// disables the clock.
	TurnTimeout time.Duration
}

type request struct {
	ev    Event
	reply chan reply
}

type reply struct {
	st      *game.State
	entries []lexicon.Entry
	err     error
}

type Match struct {
	id  ID
	cfg Config

	mu    sync.RWMutex
	state *game.State
	phase Phase

	events  chan request
	updates chan Update
	done    chan struct{}

	// cpuTurn is the turn a search was started for, or -1. Only the Run
	// goroutine touches it.
	cpuTurn int
}

// New sets up a match around a dealt (or restored) game state.
func New(id ID, cfg Config, st *game.State) (*Match, error) {
	if err := checkMode(cfg.Mode, st); err != nil {
		return nil, err
	}
	if cfg.Dict == nil {
		return nil, errors.New("a match needs a dictionary")
	}
	if cfg.Search == nil {
		cfg.Search = cpu.Search
	}
	m := &Match{
		id:      id,
		cfg:     cfg,
		state:   st,
		events:  make(chan request),
		updates: make(chan Update, 64),
		done:    make(chan struct{}),
		cpuTurn: -1,
	}
	if st.Finished {
		m.phase = PhaseFinished
	}
	return m, nil
}

func checkMode(mode Mode, st *game.State) error {
	cpus := 0
	for _, s := range st.Sides {
		if s.Kind == game.SideCPU {
			cpus++
		}
	}
	switch mode {
	case ModeSolo:
		if len(st.Sides) != 1 || cpus != 0 {
			return errors.New("solo matches have one human side")
		}
	case ModeCPUBattle:
		if len(st.Sides) != 2 || cpus != 1 {
			return errors.New("CPU battles have one human and one CPU side")
		}
	case ModeLocalPvP, ModeOnlinePvP:
		if len(st.Sides) != 2 || cpus != 0 {
			return errors.New("two-player matches have two human sides")
		}
	default:
		return fmt.Errorf("unknown mode %v", mode)
	}
	return nil
}

func (m *Match) ID() ID {
	return m.id
}

func (m *Match) Mode() Mode {
	return m.cfg.Mode
}

// State returns the current state. It must not be modified.
func (m *Match) State() *game.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Match) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// Updates delivers an Update after every handled event. Slow readers miss
// updates rather than stall the match.
func (m *Match) Updates() <-chan Update {
	return m.updates
}

// Done is closed when Run returns.
func (m *Match) Done() <-chan struct{} {
	return m.done
}

// Send delivers an event and waits for it to be handled. It returns the
// state after the event.
func (m *Match) Send(ctx context.Context, ev Event) (*game.State, error) {
	req := request{ev: ev, reply: make(chan reply, 1)}
	select {
	case m.events <- req:
	case <-m.done:
		return nil, ErrFinished
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-req.reply:
		return r.st, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SpellCheck looks up dictionary words whose meaning contains query. It
// uses one of the side's checks for the turn but does not end the turn.
func (m *Match) SpellCheck(ctx context.Context, side int, query string) ([]lexicon.Entry, error) {
	req := request{ev: spellCheckEvent{Side: side, Query: query}, reply: make(chan reply, 1)}
	select {
	case m.events <- req:
	case <-m.done:
		return nil, ErrFinished
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-req.reply:
		return r.entries, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Match) spellCheck(e spellCheckEvent) ([]lexicon.Entry, error) {
	st := m.State()
	if st.Finished {
		return nil, ErrFinished
	}
	if e.Side != st.OnTurn {
		return nil, ErrNotYourTurn
	}
	entries, ns, err := st.UseSpellCheck(e.Query, m.cfg.Dict)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.state = ns
	m.mu.Unlock()
	m.notify(nil)
	return entries, nil
}

// Run handles events until the match finishes or ctx is cancelled.
func (m *Match) Run(ctx context.Context) error {
	defer close(m.done)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	clockTurn := -1

	for {
		st := m.State()
		if st.Finished {
			m.finish(ctx, st)
			return nil
		}
		m.maybeStartCPU(ctx, st)
		if m.cfg.TurnTimeout > 0 && st.Turn != clockTurn {
			clockTurn = st.Turn
			timer.Reset(m.cfg.TurnTimeout)
			if st.Mounted().Kind == game.SideCPU {
				timer.Stop()
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-m.events:
			if sc, ok := req.ev.(spellCheckEvent); ok {
				entries, err := m.spellCheck(sc)
				req.reply <- reply{st: m.State(), entries: entries, err: err}
				continue
			}
			ns, err := m.handle(req.ev)
			if req.reply != nil {
				req.reply <- reply{st: ns, err: err}
			}
		case <-timer.C:
			m.handle(TimeoutEvent{Side: st.OnTurn, Turn: st.Turn})
		}
	}
}

func (m *Match) setPhase(p Phase) {
	m.mu.Lock()
	m.phase = p
	m.mu.Unlock()
	log.Debug().Str("match", m.id.String()).Str("phase", p.String()).Msg("phase")
}

func (m *Match) notify(err error) {
	u := Update{MatchID: m.id, Phase: m.Phase(), State: m.State(), Err: err}
	select {
	case m.updates <- u:
	default:
		log.Debug().Str("match", m.id.String()).Msg("update-dropped")
	}
}

func (m *Match) handle(ev Event) (*game.State, error) {
	st := m.State()
	if st.Finished {
		return st, ErrFinished
	}
	if ev.side() != st.OnTurn {
		return st, ErrNotYourTurn
	}
	cpuSide := st.Mounted().Kind == game.SideCPU

	var ns *game.State
	switch e := ev.(type) {
	case MoveEvent:
		if cpuSide {
			return st, ErrNotYourTurn
		}
		m.setPhase(PhaseValidating)
		var err error
		ns, err = m.playMove(st, e)
		if err != nil {
			m.setPhase(PhaseRejected)
			m.notify(err)
			m.setPhase(PhaseAwaitingMove)
			return st, err
		}
	case PassEvent:
		if cpuSide {
			return st, ErrNotYourTurn
		}
		var err error
		if ns, err = st.Pass(); err != nil {
			return st, err
		}
	case TimeoutEvent:
		if e.Turn != st.Turn {
			return st, nil
		}
		ns = st.ForcePass()
	case CPUResultEvent:
		if e.Turn != st.Turn {
			return st, nil
		}
		m.cpuTurn = -1
		ns = m.playCPU(st, e)
	default:
		return st, fmt.Errorf("unhandled event %T", ev)
	}
	m.commit(ns)
	return ns, nil
}

func (m *Match) playMove(st *game.State, e MoveEvent) (*game.State, error) {
	var err error
	if e.CardID != "" {
		if st, err = st.SetCard(e.CardID); err != nil {
			return nil, err
		}
	}
	for _, p := range e.Placements {
		switch p.Source {
		case move.SourceFree:
			st, err = st.PlaceFree(p.Row, p.Col, p.Letter)
		case move.SourceSpecial:
			st, err = st.PlaceCardLetter(p.Row, p.Col, p.Letter)
		default:
			st, err = st.PlaceTile(p.Row, p.Col, p.RackIndex)
		}
		if err != nil {
			return nil, err
		}
	}
	m.setPhase(PhaseScoring)
	return st.Confirm(m.cfg.Dict)
}

func (m *Match) playCPU(st *game.State, e CPUResultEvent) *game.State {
	if e.Err != nil || e.Candidate == nil {
		log.Debug().AnErr("err", e.Err).Int("turn", e.Turn).Msg("cpu-passes")
		return st.ForcePass()
	}
	ns, err := st.PlayCandidate(e.Candidate, m.cfg.Dict)
	if err != nil {
		log.Error().Err(err).Str("play", e.Candidate.ShortDescription()).Msg("cpu-play-rejected")
		return st.ForcePass()
	}
	return ns
}

func (m *Match) commit(ns *game.State) {
	m.setPhase(PhaseCommitting)
	m.mu.Lock()
	m.state = ns
	m.mu.Unlock()
	m.setPhase(PhaseSwitchOrEnd)
	if m.cfg.Mode == ModeOnlinePvP && m.cfg.Persister != nil {
		// Snapshots must not block the turn on a slow disk.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := m.cfg.Persister.SaveSnapshot(ctx, m.id, ns); err != nil {
			log.Error().Err(err).Str("match", m.id.String()).Msg("save-snapshot-failed")
		}
		cancel()
	}
	if ns.Finished {
		m.setPhase(PhaseFinished)
	} else {
		m.setPhase(PhaseAwaitingMove)
	}
	m.notify(nil)
}

// maybeStartCPU launches a search when the CPU side is on turn. The
// result comes back through the event channel.
func (m *Match) maybeStartCPU(ctx context.Context, st *game.State) {
	if st.Mounted().Kind != game.SideCPU || m.cpuTurn == st.Turn {
		return
	}
	m.cpuTurn = st.Turn
	side, turn := st.OnTurn, st.Turn
	opts := m.cfg.CPU
	opts.LetterLimit = st.Mounted().LetterLimit
	b, rack := st.Board, st.Mounted().Rack
	go func() {
		c, err := m.cfg.Search(ctx, b, rack, m.cfg.Dict, opts)
		ev := CPUResultEvent{Side: side, Turn: turn, Candidate: c, Err: err}
		select {
		case m.events <- request{ev: ev}:
		case <-m.done:
		case <-ctx.Done():
		}
	}()
}

func (m *Match) finish(ctx context.Context, st *game.State) {
	m.setPhase(PhaseFinished)
	res := ResultOf(m.id, m.cfg.Mode, st)
	log.Info().Str("match", m.id.String()).Int("winner", res.Winner).Int("turns", res.Turns).
		Msg("match-finished")
	if m.cfg.Persister == nil {
		return
	}
	if err := m.cfg.Persister.SaveResult(ctx, res); err != nil {
		log.Error().Err(err).Str("match", m.id.String()).Msg("save-result-failed")
	}
}

// ResultOf summarizes a finished state.
func ResultOf(id ID, mode Mode, st *game.State) Result {
	res := Result{
		MatchID:    id,
		Mode:       mode,
		Category:   st.Category(),
		Winner:     st.Winner,
		Turns:      st.Turn,
		FinishedAt: time.Now(),
	}
	for _, s := range st.Sides {
		res.Players = append(res.Players, PlayerResult{Name: s.Name, Score: s.Score, HP: s.HP})
		res.Words = append(res.Words, s.WordHistory...)
	}
	return res
}
