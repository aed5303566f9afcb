package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/lexicard/cache"
	"github.com/domino14/lexicard/cards"
	"github.com/domino14/lexicard/cpu"
	"github.com/domino14/lexicard/game"
	"github.com/domino14/lexicard/lexicon"
	"github.com/domino14/lexicard/match"
	"github.com/domino14/lexicard/move"
	"github.com/domino14/lexicard/tilemapping"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) StringDefault(key, def string) string {
	if v := c.String(key); v != "" {
		return v
	}
	return def
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func msg(message string) *Response {
	return &Response{message: message}
}

type handler func(sc *ShellController, ctx context.Context, cmd *shellcmd) (*Response, error)

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"help":   (*ShellController).help,
		"new":    (*ShellController).newGame,
		"show":   (*ShellController).show,
		"s":      (*ShellController).show,
		"place":  (*ShellController).place,
		"free":   (*ShellController).free,
		"letter": (*ShellController).cardLetter,
		"remove": (*ShellController).remove,
		"card":   (*ShellController).card,
		"uncard": (*ShellController).uncard,
		"commit": (*ShellController).commit,
		"undo":   (*ShellController).undo,
		"pass":   (*ShellController).pass,
		"spell":  (*ShellController).spell,
		"gen":    (*ShellController).generate,
		"hint":   (*ShellController).hint,
		"cards":  (*ShellController).listCards,
		"alias":  (*ShellController).alias,
	}
}

func (sc *ShellController) dispatch(ctx context.Context, cmd *shellcmd) (*Response, error) {
	h, ok := handlers[cmd.cmd]
	if !ok {
		log.Debug().Msgf("you said: %v", strconv.Quote(cmd.cmd))
		return nil, fmt.Errorf("unknown command %q; try `help`", cmd.cmd)
	}
	return h(sc, ctx, cmd)
}

func (sc *ShellController) help(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(usage()), nil
	}
	return msg(usageTopic(cmd.args[0])), nil
}

func (sc *ShellController) newGame(ctx context.Context, cmd *shellcmd) (*Response, error) {
	mode, err := match.ParseMode(cmd.options.StringDefault("mode", "solo"))
	if err != nil {
		return nil, err
	}
	if mode == match.ModeOnlinePvP {
		return nil, errors.New("online matches are played through the server")
	}
	rules, err := game.NewRules(sc.config)
	if err != nil {
		return nil, err
	}
	if c := cmd.options.String("category"); c != "" {
		if rules.Category, err = lexicon.ParseCategory(c); err != nil {
			return nil, err
		}
	}
	if bt := cmd.options.String("battle"); bt != "" {
		rules.BattleType = game.BattleType(bt)
	}
	if rules.MaxTurns, err = cmd.options.IntDefault("turns", rules.MaxTurns); err != nil {
		return nil, err
	}
	level, err := cmd.options.IntDefault("level", 1)
	if err != nil {
		return nil, err
	}
	var rng *frand.RNG
	if seed := cmd.options.String("seed"); seed != "" {
		// The seed string becomes the start of frand's 32-byte key.
		key := make([]byte, 32)
		copy(key, seed)
		rng = frand.NewCustom(key, 1024, 12)
		sc.cpuOpts.RNG = rng
	}

	if rules.Layout, err = cache.Layout(sc.config, rules.BoardSize); err != nil {
		return nil, err
	}
	if sc.catalogue, err = cache.Catalogue(sc.config); err != nil {
		return nil, err
	}
	if sc.dict, err = cache.Dictionary(sc.config, rules.Category); err != nil {
		return nil, err
	}

	var sides []game.SideConfig
	switch mode {
	case match.ModeSolo:
		sides = []game.SideConfig{{Name: "you", Kind: game.SideHuman}}
	case match.ModeCPUBattle:
		sides = []game.SideConfig{{Name: "you", Kind: game.SideHuman}, {Name: "cpu", Kind: game.SideCPU}}
	default:
		sides = []game.SideConfig{{Name: "player1", Kind: game.SideHuman}, {Name: "player2", Kind: game.SideHuman}}
	}
	for i := range sides {
		sides[i].Deck = cards.BuildDeck(sc.catalogue, rules.Category, len(sides) == 1, level)
	}
	st, err := game.NewState(rules, sides, rng)
	if err != nil {
		return nil, err
	}
	sc.state = st
	sc.mode = mode
	sc.prompt()
	return msg(st.ToDisplayText()), nil
}

func (sc *ShellController) requireGame() error {
	if sc.state == nil {
		return errNoGame
	}
	return nil
}

func (sc *ShellController) show(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	return msg(sc.state.ToDisplayText()), nil
}

// coordsAndLetter parses "<coord> <letter>" arguments. The coordinate is
// a square like 8H or H8; the direction is ignored.
func coordsAndLetter(args []string) (int, int, string, error) {
	if len(args) != 2 {
		return 0, 0, "", errors.New("need a square and a letter, e.g. 8H C")
	}
	row, col, _, ok := move.FromBoardGameCoords(args[0])
	if !ok {
		return 0, 0, "", fmt.Errorf("cannot parse square %q", args[0])
	}
	return row, col, args[1], nil
}

func parseLetter(s string) (tilemapping.MachineLetter, error) {
	r := []rune(strings.TrimSpace(s))
	if len(r) != 1 {
		return 0, fmt.Errorf("%q is not a single letter", s)
	}
	return tilemapping.FromRune(r[0])
}

// rackIndex resolves "#n" (1-based) or a letter to an unused rack index.
func (sc *ShellController) rackIndex(arg string) (int, error) {
	rack := sc.state.Mounted().Rack
	if strings.HasPrefix(arg, "#") {
		n, err := strconv.Atoi(arg[1:])
		if err != nil {
			return 0, err
		}
		return n - 1, nil
	}
	ml, err := parseLetter(arg)
	if err != nil {
		return 0, err
	}
	used := map[int]bool{}
	for _, p := range sc.state.Pending {
		used[p.RackIndex] = true
	}
	for i := 0; i < rack.Len(); i++ {
		if rack.At(i) == ml && !used[i] {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no unplaced %s on your rack", ml)
}

func (sc *ShellController) update(st *game.State, err error) (*Response, error) {
	if err != nil {
		return nil, err
	}
	sc.state = st
	sc.prompt()
	return msg(st.ToDisplayText()), nil
}

func (sc *ShellController) place(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	row, col, arg, err := coordsAndLetter(cmd.args)
	if err != nil {
		return nil, err
	}
	idx, err := sc.rackIndex(arg)
	if err != nil {
		return nil, err
	}
	return sc.update(sc.state.PlaceTile(row, col, idx))
}

func (sc *ShellController) free(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	row, col, arg, err := coordsAndLetter(cmd.args)
	if err != nil {
		return nil, err
	}
	ml, err := parseLetter(arg)
	if err != nil {
		return nil, err
	}
	return sc.update(sc.state.PlaceFree(row, col, ml))
}

func (sc *ShellController) cardLetter(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	row, col, arg, err := coordsAndLetter(cmd.args)
	if err != nil {
		return nil, err
	}
	ml, err := parseLetter(arg)
	if err != nil {
		return nil, err
	}
	return sc.update(sc.state.PlaceCardLetter(row, col, ml))
}

func (sc *ShellController) remove(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("need a square, e.g. 8H")
	}
	row, col, _, ok := move.FromBoardGameCoords(cmd.args[0])
	if !ok {
		return nil, fmt.Errorf("cannot parse square %q", cmd.args[0])
	}
	return sc.update(sc.state.RemoveTile(row, col))
}

// card sets a card by its 1-based hand position or its instance id.
func (sc *ShellController) card(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("need a hand position or card id")
	}
	id := cmd.args[0]
	hand := sc.state.Mounted().SpecialHand
	if n, err := strconv.Atoi(id); err == nil {
		if n < 1 || n > len(hand) {
			return nil, fmt.Errorf("hand position %d out of range", n)
		}
		id = hand[n-1].InstanceID
	}
	return sc.update(sc.state.SetCard(id))
}

func (sc *ShellController) uncard(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	return sc.update(sc.state.UnsetCard())
}

func (sc *ShellController) undo(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	return sc.update(sc.state.Undo(), nil)
}

func (sc *ShellController) commit(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	st, err := sc.state.Confirm(sc.dict)
	if err != nil {
		return nil, err
	}
	sc.state = st
	return sc.afterTurn(ctx)
}

func (sc *ShellController) pass(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	st, err := sc.state.Pass()
	if err != nil {
		return nil, err
	}
	sc.state = st
	return sc.afterTurn(ctx)
}

// afterTurn lets the CPU move if it is on turn, then reports the turns
// just played.
func (sc *ShellController) afterTurn(ctx context.Context) (*Response, error) {
	from := len(sc.state.History) - 1
	for !sc.state.Finished && sc.state.Mounted().Kind == game.SideCPU {
		if err := sc.playCPU(ctx); err != nil {
			return nil, err
		}
	}
	var b strings.Builder
	for _, e := range sc.state.History[from:] {
		b.WriteString(e.String())
		b.WriteString("\n")
	}
	b.WriteString(sc.state.ToDisplayText())
	sc.prompt()
	return msg(b.String()), nil
}

func (sc *ShellController) playCPU(ctx context.Context) error {
	opts := sc.cpuOpts
	opts.LetterLimit = sc.state.Mounted().LetterLimit
	side := sc.state.Mounted()
	c, err := cpu.Search(ctx, sc.state.Board, side.Rack, sc.dict, opts)
	if err != nil {
		return err
	}
	if c == nil {
		sc.state = sc.state.ForcePass()
		return nil
	}
	st, err := sc.state.PlayCandidate(c, sc.dict)
	if err != nil {
		log.Error().Err(err).Str("play", c.ShortDescription()).Msg("cpu-play-rejected")
		sc.state = sc.state.ForcePass()
		return nil
	}
	sc.state = st
	return nil
}

func (sc *ShellController) spell(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	entries, st, err := sc.state.UseSpellCheck(strings.Join(cmd.args, " "), sc.dict)
	if err != nil {
		return nil, err
	}
	sc.state = st
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%-12s %s\n", e.Word, e.Meaning)
	}
	fmt.Fprintf(&b, "(%d spell checks left this turn)", st.Mounted().SpellChecksLeft)
	return msg(b.String()), nil
}

func moveTableHeader() string {
	return "     Move                 Tiles Score\n"
}

func MoveTableRow(idx int, c *move.Candidate) string {
	return fmt.Sprintf("%3d: %-21s%-6d%-6d", idx+1, c.ShortDescription(), c.TilesPlayed(), c.Score)
}

// generate lists the best plays for the mounted rack.
func (sc *ShellController) generate(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	n := 15
	if len(cmd.args) > 0 {
		var err error
		if n, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	opts := sc.cpuOpts
	opts.LetterLimit = sc.state.Mounted().LetterLimit
	cands, err := cpu.GenAll(ctx, sc.state.Board, sc.state.Mounted().Rack, sc.dict, opts)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(moveTableHeader())
	for i, c := range cands[:min(n, len(cands))] {
		b.WriteString(MoveTableRow(i, c))
		b.WriteString("\n")
	}
	return msg(b.String()), nil
}

// hint plays the CPU's choice for the side on turn.
func (sc *ShellController) hint(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	if sc.state.Finished {
		return nil, game.ErrGameOver
	}
	sc.state = sc.state.Undo()
	if err := sc.playCPU(ctx); err != nil {
		return nil, err
	}
	return sc.afterTurn(ctx)
}

func (sc *ShellController) listCards(ctx context.Context, cmd *shellcmd) (*Response, error) {
	cat, err := cache.Catalogue(sc.config)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, d := range cat.Definitions() {
		fmt.Fprintf(&b, "%-16s %-4s %-10s %s\n", d.ID, d.Rarity, d.Word, d.Description)
	}
	return msg(b.String()), nil
}

func (sc *ShellController) alias(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 2 {
		var b strings.Builder
		for k, v := range sc.aliases {
			fmt.Fprintf(&b, "%s = %s\n", k, v)
		}
		return msg(b.String()), nil
	}
	sc.aliases[cmd.args[0]] = strings.Join(cmd.args[1:], " ")
	return msg("alias set"), nil
}
