package bot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/lexicard/board"
	"github.com/domino14/lexicard/cpu"
	"github.com/domino14/lexicard/move"
	"github.com/domino14/lexicard/tilemapping"
)

const requestTimeout = 10 * time.Second

// Client sends positions to a bot service. Its Search method can stand in
// for cpu.Search in a match.
type Client struct {
	// NATS connection
	nc      *nats.Conn
	channel string
}

func NewClient(nc *nats.Conn, channel string) *Client {
	return &Client{nc: nc, channel: channel}
}

func MakeRequest(b *board.GameBoard, rack *tilemapping.Rack, dict cpu.Dictionary, opts cpu.Options) ([]byte, error) {
	return json.Marshal(Request{
		Board:       b,
		Rack:        rack,
		Lexicon:     dict.Name(),
		LetterLimit: opts.LetterLimit,
	})
}

// Search sends a position to the bot and gets a play back. Timeouts are
// retried with backoff; an error from the bot is not.
func (c *Client) Search(ctx context.Context, b *board.GameBoard, rack *tilemapping.Rack,
	dict cpu.Dictionary, opts cpu.Options) (*move.Candidate, error) {

	data, err := MakeRequest(b, rack, dict, opts)
	if err != nil {
		return nil, err
	}
	var resp Response
	err = retry.Do(
		func() error {
			rctx, cancel := context.WithTimeout(ctx, requestTimeout)
			defer cancel()
			res, err := c.nc.RequestWithContext(rctx, c.channel, data)
			if err != nil {
				if errors.Is(err, nats.ErrNoResponders) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			log.Debug().Msgf("res: %v", string(res.Data))
			if err := json.Unmarshal(res.Data, &resp); err != nil {
				return retry.Unrecoverable(err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Msg("bot-request-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errors.New("bot returned: " + resp.Error)
	}
	return resp.Candidate, nil
}
