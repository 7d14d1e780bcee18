// Command toyasm is the CLI front end for the toy register/stack machine
// studio: it assembles a source file in one of the two dialects and either
// executes it directly or runs it in mixed mode through the translation
// pipeline.
//
// Grounded on _examples/oisee-z80-optimizer/cmd/z80opt/main.go's cobra
// root-command-plus-subcommands shape, and on
// _examples/original_source/main.cpp for the flag surface and exit-code
// convention (§6) this reimplements with cobra instead of getopt.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dcpu16/toytoolkit/internal/xlog"
	"github.com/dcpu16/toytoolkit/pkg/asm"
	"github.com/dcpu16/toytoolkit/pkg/driver"
	"github.com/dcpu16/toytoolkit/pkg/regvm"
	"github.com/dcpu16/toytoolkit/pkg/stackvm"
)

func main() {
	var verbosity int
	var fast bool
	var optLevel int
	var noCache bool

	rootCmd := &cobra.Command{
		Use:           "toyasm",
		Short:         "Assemble and run the DCPU-16/J5 toy instruction sets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbose", "v", 0, "log level 0-3 (0 silent, 1 info, 2 debug, 3 debug2)")
	rootCmd.PersistentFlags().BoolVarP(&fast, "fast", "f", false, "disable the speed limit")

	registerCmd := &cobra.Command{
		Use:   "register [path]",
		Short: "Run a register-dialect program directly (-r)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := xlog.New(xlog.Level(verbosity), os.Stderr)
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			prog, err := asm.ParseRegister(string(src))
			if err != nil {
				return err
			}
			if verbosity >= 1 {
				log.Info(prog.String())
			}
			vm := regvm.New(regvm.WithOutput(os.Stdout), regvm.WithTracer(log))
			if err := vm.Run(prog); err != nil {
				return err
			}
			return nil
		},
	}

	stackCmd := &cobra.Command{
		Use:   "stack [path]",
		Short: "Run a stack-dialect program directly (-s)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := xlog.New(xlog.Level(verbosity), os.Stderr)
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			prog, err := asm.ParseStack(string(src))
			if err != nil {
				return err
			}
			if verbosity >= 1 {
				log.Info(prog.String())
			}
			vm := stackvm.New(stackvm.WithOutput(os.Stdout), stackvm.WithTracer(log))
			if err := vm.Run(prog); err != nil {
				return err
			}
			return nil
		},
	}

	convertCmd := &cobra.Command{
		Use:   "convert [path]",
		Short: "Run a register-dialect program in mixed mode (-c)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := xlog.New(xlog.Level(verbosity), os.Stderr)
			if optLevel < 0 || optLevel > 2 {
				return fmt.Errorf("optimisation level must be 0, 1, or 2, got %d", optLevel)
			}
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			prog, err := asm.ParseRegister(string(src))
			if err != nil {
				return err
			}
			if verbosity >= 1 {
				log.Info(prog.String())
			}
			d := driver.New(prog, driver.Options{
				SpeedLimit:   !fast,
				CacheEnabled: !noCache,
				Optimize:     optLevel,
				Output:       os.Stdout,
				Tracer:       log,
			})
			if err := d.Run(); err != nil {
				return err
			}
			log.Debugf("program cost: %d", d.Cost)
			return nil
		},
	}
	convertCmd.Flags().IntVarP(&optLevel, "opt", "o", 0, "optimisation level for convert mode (0, 1, or 2)")
	convertCmd.Flags().BoolVarP(&noCache, "no-cache", "n", false, "disable the section cache")

	rootCmd.AddCommand(registerCmd, stackCmd, convertCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
