// Package cpu is the computer opponent. It brute-forces every dictionary
// word against every line of the board, keeps the plays that only make
// valid words, and picks one of the best few at random.
package cpu

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/domino14/lexicard/board"
	"github.com/domino14/lexicard/config"
	"github.com/domino14/lexicard/lexicon"
	"github.com/domino14/lexicard/move"
	"github.com/domino14/lexicard/tilemapping"
)

const (
	DefaultTopN    = 5
	DefaultThreads = 4
)

// Dictionary is what the search needs from a word list: membership and a
// way to walk every word.
type Dictionary interface {
	lexicon.Lexicon
	Words() []tilemapping.MachineWord
}

type Options struct {
	// TopN is how many of the best candidates the pick is made from.
	TopN    int
	Threads int
	// NodeBudget caps the number of placement attempts. Zero means no cap.
	// When the budget runs out the search keeps what it has found.
	NodeBudget int64
	// LetterLimit, if nonzero, keeps only plays of exactly that many tiles.
	LetterLimit int
	// RNG makes the final pick reproducible. Nil uses the global generator.
	RNG *frand.RNG
}

func DefaultOptions() Options {
	return Options{TopN: DefaultTopN, Threads: DefaultThreads}
}

// OptionsFromConfig reads search settings from the config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		TopN:       cfg.GetInt(config.ConfigCPUTopN),
		Threads:    cfg.GetInt(config.ConfigCPUThreads),
		NodeBudget: cfg.GetInt64(config.ConfigCPUNodeBudget),
	}
}

// Search finds a play for the rack. It returns nil and no error when there
// is nothing to play, which callers treat as a pass.
func Search(ctx context.Context, b *board.GameBoard, rack *tilemapping.Rack,
	dict Dictionary, opts Options) (*move.Candidate, error) {

	cands, err := GenAll(ctx, b, rack, dict, opts)
	if err != nil || len(cands) == 0 {
		return nil, err
	}
	n := min(max(opts.TopN, 1), len(cands))
	var pick int
	if opts.RNG != nil {
		pick = opts.RNG.Intn(n)
	} else {
		pick = frand.Intn(n)
	}
	log.Debug().Int("candidates", len(cands)).Int("pick", pick).
		Str("play", cands[pick].ShortDescription()).Msg("cpu-picked")
	return cands[pick], nil
}

// GenAll returns every legal play for the rack, best first. The board's
// pending letters are ignored.
func GenAll(ctx context.Context, b *board.GameBoard, rack *tilemapping.Rack,
	dict Dictionary, opts Options) ([]*move.Candidate, error) {

	threads := max(opts.Threads, 1)
	s := &searcher{
		dict:        dict,
		rack:        rack.Tiles(),
		hasTiles:    b.HasConfirmed(),
		available:   b.ConfirmedLetters(),
		letterLimit: opts.LetterLimit,
		budget:      opts.NodeBudget,
	}
	for _, t := range s.rack {
		s.available.Add(t)
	}

	words := dict.Words()
	g, gctx := errgroup.WithContext(ctx)
	for t := 0; t < threads; t++ {
		g.Go(func() error {
			w := s.newWorker(b)
			for i := t; i < len(words); i += threads {
				if err := gctx.Err(); err != nil {
					return err
				}
				if s.exhausted() {
					return nil
				}
				w.tryWord(words[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Debug().Err(err).Msg("cpu-search-cancelled")
		return nil, err
	}
	if s.exhausted() {
		log.Debug().Int64("budget", s.budget).Int("found", len(s.found)).Msg("cpu-budget-exhausted")
	}
	sortCandidates(s.found)
	return s.found, nil
}

type searcher struct {
	dict        Dictionary
	rack        []tilemapping.MachineLetter
	hasTiles    bool
	available   tilemapping.LetterCounts
	letterLimit int
	budget      int64
	nodes       atomic.Int64

	mu    sync.Mutex
	found []*move.Candidate
}

func (s *searcher) exhausted() bool {
	return s.budget > 0 && s.nodes.Load() >= s.budget
}

func (s *searcher) record(c *move.Candidate) {
	s.mu.Lock()
	s.found = append(s.found, c)
	s.mu.Unlock()
}

// worker owns a scratch copy of the board so attempts can be laid out as
// pending letters and scored without touching the real board.
type worker struct {
	s       *searcher
	scratch *board.GameBoard
	dim     int
	used    []bool
}

func (s *searcher) newWorker(b *board.GameBoard) *worker {
	scratch := b.Copy()
	scratch.ClearAllPending()
	return &worker{s: s, scratch: scratch, dim: b.Dim(), used: make([]bool, len(s.rack))}
}

func (w *worker) tryWord(word tilemapping.MachineWord) {
	if len(word) < 2 || len(word) > w.dim || !w.s.available.Contains(word) {
		return
	}
	for _, vertical := range []bool{false, true} {
		for row := 0; row < w.dim; row++ {
			for col := 0; col < w.dim; col++ {
				if vertical && row+len(word) > w.dim || !vertical && col+len(word) > w.dim {
					continue
				}
				if w.s.budget > 0 && w.s.nodes.Add(1) > w.s.budget {
					return
				}
				if c := w.tryPlace(word, row, col, vertical); c != nil {
					w.s.record(c)
				}
			}
		}
	}
}

// tryPlace lays word down at (row, col). Squares already holding the
// right letter are reused; empty squares take a tile from the rack.
func (w *worker) tryPlace(word tilemapping.MachineWord, row, col int, vertical bool) *move.Candidate {
	clear(w.used)
	placements := make([]move.Placement, 0, len(word))
	reuses := false
	for i, ml := range word {
		r, c := row, col+i
		if vertical {
			r, c = row+i, col
		}
		existing := w.scratch.GetLetter(r, c)
		if existing == ml {
			reuses = true
			continue
		}
		if existing != tilemapping.EmptyMachineLetter {
			return nil
		}
		idx := w.takeFromRack(ml)
		if idx < 0 {
			return nil
		}
		placements = append(placements, move.Placement{
			Row: r, Col: c, Letter: ml, RackIndex: idx, Source: move.SourceNormal,
		})
	}
	if len(placements) == 0 {
		return nil
	}
	if w.s.letterLimit > 0 && len(placements) != w.s.letterLimit {
		return nil
	}
	if w.s.hasTiles && !reuses && !w.touches(placements) {
		return nil
	}

	if err := w.scratch.ApplyPending(placements); err != nil {
		return nil
	}
	defer w.scratch.ClearAllPending()
	fws := board.FormedWords(w.scratch, placements)
	if len(fws) == 0 {
		return nil
	}
	for _, fw := range fws {
		if !w.s.dict.HasWord(fw.Word) {
			return nil
		}
	}
	bd := board.ScoreWords(w.scratch, fws, placements)
	return &move.Candidate{
		Placements: placements,
		Score:      bd.Total,
		Words:      bd.Words,
		Row:        row,
		Col:        col,
		Vertical:   vertical,
		Word:       word.UserVisible(),
	}
}

func (w *worker) takeFromRack(ml tilemapping.MachineLetter) int {
	for i, t := range w.s.rack {
		if t == ml && !w.used[i] {
			w.used[i] = true
			return i
		}
	}
	return -1
}

func (w *worker) touches(placements []move.Placement) bool {
	for _, p := range placements {
		if w.scratch.HasConfirmedNeighbor(p.Row, p.Col) {
			return true
		}
	}
	return false
}

// sortCandidates orders by score, then by position and word so that the
// result does not depend on how the work was split up.
func sortCandidates(cands []*move.Candidate) {
	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		switch {
		case a.Score != b.Score:
			return a.Score > b.Score
		case a.Word != b.Word:
			return a.Word < b.Word
		case a.Row != b.Row:
			return a.Row < b.Row
		case a.Col != b.Col:
			return a.Col < b.Col
		}
		return !a.Vertical && b.Vertical
	})
}
