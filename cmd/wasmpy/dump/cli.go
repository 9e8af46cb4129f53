package dump

import (
	"bufio"
	"errors"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/r-james-dev/wasmpy/load"
	"github.com/r-james-dev/wasmpy/wasm"
	"github.com/r-james-dev/wasmpy/wasm/validate"
)

var headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

func Command(logger func() *zap.Logger) *cobra.Command {
	var stats bool
	var disasm bool
	var validateModule bool

	command := &cobra.Command{
		Use:   "dump [path to module]",
		Short: "Dump WebAssembly modules",
		Long:  "Dump the sections, types, functions and names of a WebAssembly binary module",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("expected exactly one argument")
			}
			mod, err := load.LoadFile(args[0], wasm.WithLogger(logger()))
			if err != nil {
				return err
			}
			if validateModule {
				if err := validate.ValidateModule(mod, true); err != nil {
					return err
				}
			}

			w := bufio.NewWriter(os.Stdout)
			defer w.Flush()

			if stats {
				return dumpStats(w, mod)
			}

			p := printer{w: w, disasm: disasm}
			if term.IsTerminal(int(os.Stdout.Fd())) {
				p.heading = func(s string) string { return headingStyle.Render(s) }
			}
			return p.printModule(mod)
		},
	}

	command.PersistentFlags().BoolVarP(&stats, "stats", "s", false, "dump function statistics in CSV format")
	command.PersistentFlags().BoolVarP(&disasm, "disasm", "d", false, "include the instructions of each function")
	command.PersistentFlags().BoolVar(&validateModule, "validate", false, "validate the module before dumping it")

	return command
}
