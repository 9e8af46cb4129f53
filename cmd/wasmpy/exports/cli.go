package exports

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/r-james-dev/wasmpy/load"
	"github.com/r-james-dev/wasmpy/wasm"
)

func Command(logger func() *zap.Logger) *cobra.Command {
	command := &cobra.Command{
		Use:   "exports [path to module]",
		Short: "List the functions a module exposes",
		Long: "List the exported functions of a WebAssembly module as the loader exposes them. " +
			"Functions whose names start with \"_\" are not attributes; set " + load.NoWarnEnv +
			" to silence the warnings about them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("expected exactly one argument")
			}
			path := args[0]
			mod, err := load.LoadFile(path, wasm.WithLogger(logger()))
			if err != nil {
				return err
			}

			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			host := load.NewHost(name, path, mod, load.WithLogger(logger()))
			return printExports(os.Stdout, host)
		},
	}
	return command
}

func printExports(w io.Writer, host *load.Host) error {
	for _, fn := range host.Funcs() {
		access := fn.Name
		if _, ok := host.Attr(fn.Name); !ok {
			access = fmt.Sprintf("Func(%q)", fn.Name)
		}
		if _, err := fmt.Fprintf(w, "%s.%s %v\n", host.Name, access, fn.Sig); err != nil {
			return err
		}
	}
	for _, imp := range host.Unresolved() {
		if _, err := fmt.Fprintf(w, "requires %s.%s %v\n", imp.ModuleName, imp.FieldName, imp.Type); err != nil {
			return err
		}
	}
	return nil
}
