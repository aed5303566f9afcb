package bot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/lexicard/board"
	"github.com/domino14/lexicard/cache"
	"github.com/domino14/lexicard/config"
	"github.com/domino14/lexicard/cpu"
	"github.com/domino14/lexicard/lexicon"
	"github.com/domino14/lexicard/move"
	"github.com/domino14/lexicard/tilemapping"
)

// Request asks the bot for a play on a position. Lexicon names the
// dictionary category to search with.
type Request struct {
	Board       *board.GameBoard  `json:"board"`
	Rack        *tilemapping.Rack `json:"rack"`
	Lexicon     string            `json:"lexicon"`
	LetterLimit int               `json:"letter_limit,omitempty"`
}

// Response carries either a candidate or an error. A response with
// neither means the bot passes.
type Response struct {
	Candidate *move.Candidate `json:"candidate,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type Bot struct {
	config  *config.Config
	options cpu.Options

	// Dictionaries resolves a request's lexicon name.
	Dictionaries func(name string) (cpu.Dictionary, error)
}

func NewBot(cfg *config.Config) *Bot {
	bot := &Bot{config: cfg, options: cpu.OptionsFromConfig(cfg)}
	bot.Dictionaries = func(name string) (cpu.Dictionary, error) {
		cat, err := lexicon.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		return cache.Dictionary(cfg, cat)
	}
	return bot
}

func errorResponse(message string, err error) *Response {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &Response{Error: msg}
}

func (bot *Bot) Handle(ctx context.Context, data []byte) *Response {
	req := Request{}
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse("could not parse request", err)
	}
	if req.Board == nil || req.Rack == nil {
		return errorResponse("request needs a board and a rack", nil)
	}
	dict, err := bot.Dictionaries(req.Lexicon)
	if err != nil {
		return errorResponse("could not load lexicon", err)
	}
	opts := bot.options
	opts.LetterLimit = req.LetterLimit
	c, err := cpu.Search(ctx, req.Board, req.Rack, dict, opts)
	if err != nil {
		return errorResponse("search failed", err)
	}
	if c == nil {
		log.Info().Str("rack", req.Rack.String()).Msg("bot-passes")
		return &Response{}
	}
	log.Info().Msgf("Generated move: %s", c.ShortDescription())
	return &Response{Candidate: c}
}

// Main serves search requests on channel until ctx is done.
func Main(ctx context.Context, channel string, bot *Bot) error {
	nc, err := nats.Connect(bot.config.GetString(config.ConfigNatsURL))
	if err != nil {
		return err
	}
	defer nc.Close()

	_, err = nc.Subscribe(channel, func(m *nats.Msg) {
		log.Info().Msgf("RECV: %d bytes", len(m.Data))
		resp := bot.Handle(ctx, m.Data)
		data, err := json.Marshal(resp)
		if err != nil {
			// Should never happen, but the requester is still waiting.
			m.Respond([]byte(err.Error()))
			return
		}
		m.Respond(data)
	})
	if err != nil {
		return err
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Msgf("Listening on [%s]", channel)

	<-ctx.Done()
	log.Info().Msg("bot-draining")
	return nc.Drain()
}
