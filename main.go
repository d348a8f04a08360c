package main

import (
	"runtime/debug"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/upsidedown/cmd/common"
	"github.com/gigurra/upsidedown/cmd/morse"
	"github.com/gigurra/upsidedown/cmd/terminal"
	"github.com/gigurra/upsidedown/cmd/transmit"
	"github.com/spf13/cobra"
)

// Command group IDs
const (
	groupComms  = "comms"
	groupSignal = "signal"
)

// withGroup sets the GroupID on a command and returns it
func withGroup(cmd *cobra.Command, group string) *cobra.Command {
	cmd.GroupID = group
	return cmd
}

func main() {
	boa.CmdT[boa.NoParams]{
		Use:     "upsidedown",
		Short:   "Inter-dimensional communication terminal",
		Long:    "Transmit messages as Morse light and sound pulses. Without a subcommand the interactive terminal opens.",
		Version: appVersion(),
		Groups: []*cobra.Group{
			{ID: groupComms, Title: "Communicator:"},
			{ID: groupSignal, Title: "Signal Tools:"},
		},
		SubCmds: []*cobra.Command{
			withGroup(terminal.Cmd(), groupComms),
			withGroup(transmit.Cmd(), groupComms),

			withGroup(morse.Cmd(), groupSignal),
			withGroup(morse.AlphabetCmd(), groupSignal),
		},
		RunFunc: func(params *boa.NoParams, cmd *cobra.Command, args []string) {
			common.ExitOnError("", terminal.Run(&terminal.Params{}))
		},
	}.Run()
}

func appVersion() string {
	bi, hasBuilInfo := debug.ReadBuildInfo()
	if !hasBuilInfo {
		return "unknown-(no build info)"
	}

	versionString := bi.Main.Version
	if versionString == "" {
		versionString = "unknown-(no version)"
	}

	return versionString
}
