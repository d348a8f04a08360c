package common

import (
	"fmt"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
)

func DefaultParamEnricher() boa.ParamEnricher {
	return boa.ParamEnricherCombine(
		boa.ParamEnricherBool,
		boa.ParamEnricherName,
		boa.ParamEnricherShort,
	)
}

var exit = os.Exit

// ExitOnError reports a failed command as "upsidedown <name>: <err>" and exits with status 1.
func ExitOnError(name string, err error) {
	if err == nil {
		return
	}
	if name == "" {
		fmt.Fprintf(os.Stderr, "upsidedown: %v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "upsidedown %s: %v\n", name, err)
	}
	exit(1)
}
