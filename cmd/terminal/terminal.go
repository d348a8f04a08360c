// Package terminal runs the interactive communicator.
package terminal

import (
	"context"
	"log/slog"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gigurra/upsidedown/cmd/audio"
	"github.com/gigurra/upsidedown/cmd/comms"
	"github.com/gigurra/upsidedown/cmd/common"
	"github.com/gigurra/upsidedown/cmd/config"
	"github.com/gigurra/upsidedown/cmd/notify"
	"github.com/spf13/cobra"
)

type Params struct {
	Interval int  `short:"i" help:"Sanity decay interval in milliseconds (0 uses the config value)." default:"0"`
	Mute     bool `short:"m" help:"Disable audio output." default:"false"`
	Verbose  bool `short:"v" help:"Write debug records to the log file." default:"false"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "terminal",
		Short: "Open the interactive communicator",
		Long: `Open the communicator. Type a message and press Enter to transmit it as light and sound.
Sanity decays while the terminal is open; at zero the signal is possessed until the
recovery code is entered with the arrow keys or the auto-recovery deadline passes.`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			common.ExitOnError("terminal", Run(params))
		},
	}.ToCobra()
}

func Run(params *Params) error {
	closeLog := common.SetupLogging(true, params.Verbose)
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
	panel := comms.NewPanel()
	opts.Indicators = panel
	opts.Logger = slog.Default()
	var speaker comms.Speaker = audio.New()
	if params.Mute || cfg.Audio.Muted {
		speaker = audio.Silent{}
	}
	opts.Speaker = speaker

	ctrl := comms.New(opts)
	defer ctrl.Close()
	notify.New(cfg.Notifications).Attach(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ctrl.RunSanity(ctx)

	slog.Info("terminal started", "sanityInterval", opts.SanityInterval, "audio", audio.Available)
	p := tea.NewProgram(newModel(ctrl, panel, nil), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
