package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-libc/runtime"
)

func newRunCmd(a *app) *cobra.Command {
	var funcName string
	var callArgs []int64

	cmd := &cobra.Command{
		Use:   "run <file.wasm>",
		Short: "Run a guest's entry point (efi_main, _start or main)",
		Long: `Loads a core WebAssembly module, checks that every import is served,
instantiates it and calls its entry point. With --func, calls that export
with the given raw arguments instead and prints its results.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			raw := make([]uint64, len(callArgs))
			for i, v := range callArgs {
				raw[i] = uint64(v)
			}
			return a.run(cmd, data, funcName, raw)
		},
	}
	cmd.Flags().StringVarP(&funcName, "func", "f", "", "export to call instead of the entry point")
	cmd.Flags().Int64SliceVar(&callArgs, "arg", nil, "argument for --func (repeatable)")
	return cmd
}

func (a *app) run(cmd *cobra.Command, wasm []byte, funcName string, callArgs []uint64) error {
	ctx := context.Background()
	log := a.logger.With(zap.String("run", uuid.NewString()))

	cfg := a.cfg.RuntimeConfig()
	cfg.Stdout = cmd.OutOrStdout()
	cfg.Stderr = cmd.ErrOrStderr()

	rt, err := runtime.New(ctx, cfg, a.env(cmd))
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}
	defer rt.Close(ctx)

	mod, err := rt.LoadModule(ctx, wasm)
	if err != nil {
		return fmt.Errorf("load module: %w", err)
	}

	inst, err := mod.Instantiate(ctx)
	if err != nil {
		return fmt.Errorf("instantiate: %w", err)
	}
	defer inst.Close(ctx)
	log.Debug("instantiated", zap.String("instance", inst.Name()))

	if funcName != "" {
		results, err := inst.Call(ctx, funcName, callArgs...)
		if err != nil {
			return fmt.Errorf("call %s: %w", funcName, err)
		}
		for _, r := range results {
			fmt.Fprintln(cmd.OutOrStdout(), r)
		}
		return nil
	}

	code, err := inst.Run(ctx)
	if err != nil {
		return fmt.Errorf("run %s: %w", inst.Entry(), err)
	}
	log.Debug("guest finished", zap.String("entry", inst.Entry()), zap.Int64("code", code))
	if code != 0 {
		return fmt.Errorf("guest exited with code %d", code)
	}
	return nil
}
