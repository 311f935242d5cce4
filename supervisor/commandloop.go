package supervisor

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/joeycumines/go-longpoll"
	"github.com/joeycumines/go-rtpendulum/rtshare"
	"github.com/joeycumines/logiface"
)

// commandBatchSize caps the commands applied per receive.
const commandBatchSize = 64

// CommandLoop applies commands received from ch to shared, in order, until
// ch is closed (returning nil) or ctx is done (returning ctx.Err()). Nil
// commands are ignored. The logger may be nil.
func CommandLoop(ctx context.Context, shared *rtshare.SharedContext, ch <-chan Command, logger *logiface.Logger[logiface.Event]) error {
	if shared == nil {
		panic(`supervisor: nil shared context`)
	}

	cfg := &longpoll.ChannelConfig{
		MaxSize: commandBatchSize,
		MinSize: 1,
	}

	handler := func(cmd Command) error {
		if cmd == nil {
			return nil
		}
		cmd.Apply(shared)
		logger.Info().
			Stringer(`command`, cmd).
			Log(`applied command`)
		return nil
	}

	for {
		if err := longpoll.Channel(ctx, cfg, ch, handler); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// ReadCommands parses each line of r, sending valid commands to ch. Blank
// lines, and lines starting with '#', are skipped. Invalid lines are logged
// and skipped. It returns nil at EOF, ctx.Err() if ctx is done, or the read
// error. The channel is not closed.
func ReadCommands(ctx context.Context, r io.Reader, ch chan<- Command, logger *logiface.Logger[logiface.Event]) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == `` || strings.HasPrefix(line, `#`) {
			continue
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			logger.Warning().
				Err(err).
				Str(`line`, line).
				Log(`ignoring invalid command`)
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch <- cmd:
		}
	}
	return scanner.Err()
}
