// Command wlibc runs freestanding WebAssembly guests against the env host
// services and exposes the conversion routines for inspection.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-libc/config"
	"github.com/wippyai/wasm-libc/console"
	"github.com/wippyai/wasm-libc/host"
	"github.com/wippyai/wasm-libc/runtime"
)

// app carries global flag values and the state PersistentPreRunE derives
// from them.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	configPath       string
	verbose          bool
	maxStringUnits   uint32
	legacyPrefixScan bool
	strictDecode     bool
	enableWASI       bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "wlibc",
		Short: "Host-side C library services for freestanding WebAssembly guests",
		Long: `wlibc serves strtol, atol, atoi, mbtowc, wcslen and console output to
WebAssembly guests that ship without a C library, and exposes the same
conversions on the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	flags.Uint32Var(&a.maxStringUnits, "max-string-units", host.DefaultMaxStringUnits, "terminator search limit for guest strings")
	flags.BoolVar(&a.legacyPrefixScan, "legacy-prefix-scan", false, "find the radix prefix anywhere after the sign")
	flags.BoolVar(&a.strictDecode, "strict-decode-window", true, "require the whole mbtowc window to be valid UTF-8")
	flags.BoolVar(&a.enableWASI, "wasi", false, "serve wasi_snapshot_preview1 imports")

	root.AddCommand(
		newRunCmd(a),
		newParseCmd(a),
		newDecodeCmd(a),
		newExportsCmd(a),
		newInteractiveCmd(a),
		newSelftestCmd(a),
	)
	return root
}

// setup loads the configuration, applies flag overrides and installs the
// logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("max-string-units") {
		cfg.Host.MaxStringUnits = a.maxStringUnits
	}
	if flags.Changed("legacy-prefix-scan") {
		cfg.Host.LegacyPrefixScan = a.legacyPrefixScan
	}
	if flags.Changed("strict-decode-window") {
		cfg.Host.StrictDecodeWindow = a.strictDecode
	}
	if flags.Changed("wasi") {
		cfg.Runtime.EnableWASI = a.enableWASI
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.Logger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	host.SetLogger(logger)
	runtime.SetLogger(logger)
	return nil
}

// env builds a host context writing console output to cmd's stdout.
func (a *app) env(cmd *cobra.Command, opts ...host.Option) *host.Env {
	base := append(a.cfg.HostOptions(),
		host.WithConsole(console.New(cmd.OutOrStdout())),
		host.WithLogger(a.logger))
	return host.NewEnv(append(base, opts...)...)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
