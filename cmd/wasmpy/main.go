package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/r-james-dev/wasmpy/cmd/wasmpy/dump"
	"github.com/r-james-dev/wasmpy/cmd/wasmpy/exports"
	"github.com/r-james-dev/wasmpy/cmd/wasmpy/validate"
)

var version = "<unknown>"

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	return config.Build()
}

func configureCLI() *cobra.Command {
	var verbose bool
	logger := zap.NewNop()
	getLogger := func() *zap.Logger { return logger }

	rootCommand := &cobra.Command{
		Use:           "wasmpy",
		Short:         "wasmpy WebAssembly decoder",
		Long:          "wasmpy - decode and inspect WebAssembly binary modules",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			_ = logger.Sync()
			return nil
		},
	}

	rootCommand.AddCommand(dump.Command(getLogger))
	rootCommand.AddCommand(exports.Command(getLogger))
	rootCommand.AddCommand(validate.Command(getLogger))

	rootCommand.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return rootCommand
}

func main() {
	rootCommand := configureCLI()

	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
