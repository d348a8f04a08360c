// Package transmit sends messages through the communicator without the
// interactive terminal.
package transmit

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/upsidedown/cmd/audio"
	"github.com/gigurra/upsidedown/cmd/comms"
	"github.com/gigurra/upsidedown/cmd/common"
	"github.com/gigurra/upsidedown/cmd/config"
	"github.com/gigurra/upsidedown/cmd/notify"
	"github.com/spf13/cobra"
)

type Params struct {
	Text     []string `pos:"true" optional:"true" help:"Message to transmit. If none provided, reads lines from stdin."`
	Follow   string   `short:"f" optional:"true" help:"Follow a file and transmit every line appended to it."`
	Sanity   bool     `short:"s" optional:"true" help:"Run sanity decay, so possession can happen mid-transmission."`
	Interval int      `short:"i" optional:"true" help:"Sanity decay interval in milliseconds (0 uses the config value)." default:"0"`
	NoAudio  bool     `optional:"true" help:"Disable audio output."`
	Verbose  bool     `short:"v" optional:"true" help:"Enable debug logging."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "transmit",
		Short:       "Transmit messages without the interactive terminal",
		Long:        "Transmit text as timed light and sound pulses. Reads the arguments, stdin lines, or lines appended to a followed file.",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			// a transmission in flight finishes first; a second signal exits at once
			go func() {
				<-ctx.Done()
				stop()
			}()
			common.ExitOnError("transmit", Run(ctx, params, os.Stdin, os.Stdout))
		},
	}.ToCobra()
}

func Run(ctx context.Context, params *Params, stdin io.Reader, stdout io.Writer) error {
	closeLog := common.SetupLogging(false, params.Verbose)
	defer closeLog()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("config load failed, using defaults", "path", config.ConfigPath(), "error", err)
		cfg = config.DefaultConfig()
	}

	opts := cfg.ControllerOptions()
	if params.Interval > 0 {
		opts.SanityInterval = time.Duration(params.Interval) * time.Millisecond
	}
	out := newConsole(stdout, isTerminal(stdout))
	if out.interactive {
		opts.Indicators = out
	}
	var speaker comms.Speaker = audio.New()
	if params.NoAudio || cfg.Audio.Muted {
		speaker = audio.Silent{}
	}
	opts.Speaker = speaker
	opts.Logger = slog.Default()

	ctrl := comms.New(opts)
	defer ctrl.Close()
	ctrl.Subscribe(out.OnEvent)
	notify.New(cfg.Notifications).Attach(ctrl)

	if params.Sanity {
		sctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go ctrl.RunSanity(sctx)
	}

	return feed(ctx, params, ctrl, stdin)
}

func feed(ctx context.Context, params *Params, ctrl *comms.Controller, stdin io.Reader) error {
	if len(params.Text) > 0 {
		return send(ctrl, strings.Join(params.Text, " "))
	}

	if params.Follow != "" {
		fl, err := newFollower(params.Follow)
		if err != nil {
			return err
		}
		defer fl.Close()
		return fl.run(ctx, func(line string) {
			if err := send(ctrl, line); err != nil {
				slog.Warn("transmit failed", "error", err)
			}
		})
	}

	lines, errc := readLines(ctx, stdin)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-errc
			}
			if err := send(ctrl, line); err != nil {
				return err
			}
		}
	}
}

// readLines scans r on its own goroutine so a blocked Read never holds up
// cancellation. The reader goroutine exits at EOF, on a read error, or once
// ctx is done and the pending Read returns.
func readLines(ctx context.Context, r io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

func send(ctrl *comms.Controller, text string) error {
	err := ctrl.Transmit(text)
	if errors.Is(err, comms.ErrEmptyInput) {
		slog.Debug("skipping empty message")
		return nil
	}
	return err
}
