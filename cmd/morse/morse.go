package morse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/atotto/clipboard"
	"github.com/gigurra/upsidedown/cmd/common"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// Symbol is one atomic unit of a transmission.
type Symbol int

const (
	Dot Symbol = iota
	Dash
	LetterGap
	WordGap
)

func (s Symbol) String() string {
	switch s {
	case Dot:
		return "."
	case Dash:
		return "-"
	case LetterGap:
		return " "
	case WordGap:
		return "/"
	default:
		return "?"
	}
}

var toMorse = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".",
	'F': "..-.", 'G': "--.", 'H': "....", 'I': "..", 'J': ".---",
	'K': "-.-", 'L': ".-..", 'M': "--", 'N': "-.", 'O': "---",
	'P': ".--.", 'Q': "--.-", 'R': ".-.", 'S': "...", 'T': "-",
	'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-", 'Y': "-.--",
	'Z': "--..",
	'0': "-----", '1': ".----", '2': "..---", '3': "...--", '4': "....-",
	'5': ".....", '6': "-....", '7': "--...", '8': "---..", '9': "----.",
	' ': "/",
}

// Encode converts text into a flat symbol sequence. Lookup is case-insensitive,
// characters without a code are dropped and code groups are separated by a
// single LetterGap.
func Encode(text string) []Symbol {
	var result []Symbol
	for _, r := range strings.ToUpper(text) {
		code, ok := toMorse[r]
		if !ok {
			continue
		}
		if len(result) > 0 {
			result = append(result, LetterGap)
		}
		for _, c := range code {
			result = append(result, symbolOf(c))
		}
	}
	return result
}

func symbolOf(c rune) Symbol {
	switch c {
	case '.':
		return Dot
	case '-':
		return Dash
	default:
		return WordGap
	}
}

// Render returns the dot/dash notation for a symbol sequence, e.g. "... --- ...".
func Render(symbols []Symbol) string {
	return strings.Join(lo.Map(symbols, func(s Symbol, _ int) string {
		return s.String()
	}), "")
}

// Entry is one row of the signal alphabet.
type Entry struct {
	Char rune
	Code string
}

// Alphabet returns the signal table sorted by character, without the word separator.
func Alphabet() []Entry {
	entries := make([]Entry, 0, len(toMorse))
	for r, code := range toMorse {
		if r == ' ' {
			continue
		}
		entries = append(entries, Entry{Char: r, Code: code})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Char < entries[j].Char
	})
	return entries
}

// AlphabetTable renders the signal table in columns of the given number of entries per row.
func AlphabetTable(perRow int) string {
	if perRow < 1 {
		perRow = 1
	}
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	for _, chunk := range lo.Chunk(Alphabet(), perRow) {
		row := table.Row{}
		for _, e := range chunk {
			row = append(row, fmt.Sprintf("%c %s", e.Char, e.Code))
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"SPACE /"})
	return t.Render()
}

type Params struct {
	Text []string `pos:"true" optional:"true" help:"Text to encode. If none provided, reads from stdin."`
	Clip bool     `short:"c" help:"Copy the encoded output to the clipboard." default:"false"`
}

var clipboardWriteAll = clipboard.WriteAll

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "encode",
		Short:       "Encode text to Morse code",
		Long:        "Convert text to the dot/dash notation used by the communicator. Unsupported characters are dropped.",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			common.ExitOnError("encode", Run(params, os.Stdin, os.Stdout))
		},
	}.ToCobra()
}

func AlphabetCmd() *cobra.Command {
	return boa.CmdT[boa.NoParams]{
		Use:   "alphabet",
		Short: "Print the Morse signal table",
		RunFunc: func(params *boa.NoParams, cmd *cobra.Command, args []string) {
			fmt.Println(AlphabetTable(6))
		},
	}.ToCobra()
}

func Run(params *Params, stdin io.Reader, stdout io.Writer) error {
	var lines []string
	if len(params.Text) > 0 {
		encoded := Render(Encode(strings.Join(params.Text, " ")))
		fmt.Fprintln(stdout, encoded)
		lines = append(lines, encoded)
	} else {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			encoded := Render(Encode(scanner.Text()))
			fmt.Fprintln(stdout, encoded)
			lines = append(lines, encoded)
		}
		if err := scanner.Err(); err != nil {
			return err
		}
	}

	if params.Clip {
		if err := clipboardWriteAll(strings.Join(lines, "\n")); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
	}
	return nil
}
