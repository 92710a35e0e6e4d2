package telegram

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Handler consumes one update. Implementations must not panic across the
// boundary; the dispatcher contains its own failures.
type Handler interface {
	HandleUpdate(ctx context.Context, u Update)
}

// Poller drives the long-poll loop and hands each update to the handler in
// arrival order.
type Poller struct {
	Client  *Client
	Handler Handler
	Timeout int
}

func (p *Poller) Run(ctx context.Context) error {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 30
	}
	var offset int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		updates, err := p.Client.GetUpdates(ctx, offset, timeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn().Err(err).Msg("getUpdates failed, backing off")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(3 * time.Second):
			}
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			p.Handler.HandleUpdate(ctx, u)
		}
	}
}
