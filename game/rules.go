package game

import (
	"fmt"

	"github.com/domino14/lexicard/board"
	"github.com/domino14/lexicard/config"
	"github.com/domino14/lexicard/lexicon"
	"github.com/domino14/lexicard/tilemapping"
)

// BattleType is the win condition of a two-sided match.
type BattleType string

const (
	BattleScore BattleType = "score"
	BattleHP    BattleType = "hp"
)

// Default rule values.
const (
	DefaultBoardSize           = 15
	DefaultRackSize            = 7
	DefaultMaxTurns            = 10
	DefaultFreeUsesPerLetter   = 2
	DefaultSpecialHandSize     = 4
	DefaultSpellCheckAllowance = 3
	DefaultMaxHP               = 100
)

// Rules holds everything needed to set up and referee a match.
type Rules struct {
	BoardSize           int              `json:"board_size"`
	RackSize            int              `json:"rack_size"`
	MaxTurns            int              `json:"max_turns"`
	FreeUsesPerLetter   int              `json:"free_uses_per_letter"`
	SpecialHandSize     int              `json:"special_hand_size"`
	SpellCheckAllowance int              `json:"spellcheck_allowance"`
	MaxHP               int              `json:"max_hp"`
	Category            lexicon.Category `json:"category"`
	BattleType          BattleType       `json:"battle_type"`

	// Layout and Distribution are only needed to set up a match.
	Layout       *board.Layout                   `json:"-"`
	Distribution *tilemapping.LetterDistribution `json:"-"`
}

// DefaultRules returns the standard rules for the given category.
func DefaultRules(category lexicon.Category) *Rules {
	return &Rules{
		BoardSize:           DefaultBoardSize,
		RackSize:            DefaultRackSize,
		MaxTurns:            DefaultMaxTurns,
		FreeUsesPerLetter:   DefaultFreeUsesPerLetter,
		SpecialHandSize:     DefaultSpecialHandSize,
		SpellCheckAllowance: DefaultSpellCheckAllowance,
		MaxHP:               DefaultMaxHP,
		Category:            category,
		BattleType:          BattleScore,
	}
}

// NewRules reads rule values from the config.
func NewRules(cfg *config.Config) (*Rules, error) {
	cat, err := lexicon.ParseCategory(cfg.GetString(config.ConfigDefaultCategory))
	if err != nil {
		return nil, err
	}
	r := &Rules{
		BoardSize:           cfg.GetInt(config.ConfigBoardSize),
		RackSize:            cfg.GetInt(config.ConfigRackSize),
		MaxTurns:            cfg.GetInt(config.ConfigMaxTurns),
		FreeUsesPerLetter:   cfg.GetInt(config.ConfigFreeUsesPerLetter),
		SpecialHandSize:     cfg.GetInt(config.ConfigSpecialHandSize),
		SpellCheckAllowance: cfg.GetInt(config.ConfigSpellCheckAllowed),
		MaxHP:               cfg.GetInt(config.ConfigMaxHP),
		Category:            cat,
		BattleType:          BattleScore,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rules) Validate() error {
	switch {
	case r.BoardSize < 3:
		return fmt.Errorf("board size %d is too small", r.BoardSize)
	case r.RackSize < 1:
		return fmt.Errorf("rack size must be positive")
	case r.MaxTurns < 1:
		return fmt.Errorf("max turns must be positive")
	case r.BattleType != BattleScore && r.BattleType != BattleHP:
		return fmt.Errorf("unknown battle type %q", r.BattleType)
	case r.BattleType == BattleHP && r.MaxHP < 1:
		return fmt.Errorf("HP battles need a positive max HP")
	}
	if r.Layout != nil && r.Layout.Size != r.BoardSize {
		return fmt.Errorf("layout size %d does not match board size %d", r.Layout.Size, r.BoardSize)
	}
	return nil
}

func (r *Rules) layout() *board.Layout {
	if r.Layout != nil {
		return r.Layout
	}
	return board.StandardLayout(r.BoardSize)
}

func (r *Rules) distribution() *tilemapping.LetterDistribution {
	if r.Distribution != nil {
		return r.Distribution
	}
	return tilemapping.EnglishLetterDistribution()
}
