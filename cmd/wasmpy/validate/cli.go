package validate

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/r-james-dev/wasmpy/load"
	"github.com/r-james-dev/wasmpy/wasm"
	"github.com/r-james-dev/wasmpy/wasm/validate"
)

func Command(logger func() *zap.Logger) *cobra.Command {
	var skipCode bool

	command := &cobra.Command{
		Use:   "validate [path to module]",
		Short: "Check the cross references of a module",
		Long:  "Decode a WebAssembly module and check that every index it uses refers to an existing entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("expected exactly one argument")
			}
			mod, err := load.LoadFile(args[0], wasm.WithLogger(logger()))
			if err != nil {
				return err
			}
			if err := validate.ValidateModule(mod, !skipCode); err != nil {
				return fmt.Errorf("%v: %w", args[0], err)
			}
			_, err = fmt.Fprintf(os.Stdout, "%v: ok\n", args[0])
			return err
		},
	}

	command.Flags().BoolVar(&skipCode, "skip-code", false, "do not check the instructions of function bodies")

	return command
}
