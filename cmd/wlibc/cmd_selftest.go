package main

import (
	"context"
	"fmt"
	"unicode/utf16"

	"github.com/spf13/cobra"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-libc/host"
	"github.com/wippyai/wasm-libc/internal/probe"
	"github.com/wippyai/wasm-libc/runtime"
	"github.com/wippyai/wasm-libc/wide"
)

// selftestInputs cover each prefix form and each failure kind.
var selftestInputs = []string{
	"0x10", "-0x10", "0777", "-077", "0123", "12345", "", "-", "xyz",
	"--5", "0x", "9223372036854775807", "-9223372036854775808",
	"9223372036854775808", "2147483648", "10x5", "1007", "0xFFff",
}

const (
	selftestStr = 0x1000
	selftestOut = 0x100
)

func newSelftestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Check that guest calls through wazero match direct parsing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mismatches, err := selftest(context.Background(), a.env(cmd))
			if err != nil {
				return err
			}
			for _, m := range mismatches {
				fmt.Fprintln(cmd.OutOrStdout(), "FAIL", m)
			}
			if len(mismatches) > 0 {
				return fmt.Errorf("%d of %d checks failed", len(mismatches), 2*len(selftestInputs))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d checks\n", 2*len(selftestInputs))
			return nil
		},
	}
}

// selftest runs atol and atoi for every input both in a guest and directly,
// and describes each disagreement.
func selftest(ctx context.Context, env *host.Env) ([]string, error) {
	rt, err := runtime.New(ctx, nil, env)
	if err != nil {
		return nil, err
	}
	defer rt.Close(ctx)

	mod, err := rt.LoadModule(ctx, probe.Forwarder())
	if err != nil {
		return nil, err
	}
	inst, err := mod.Instantiate(ctx)
	if err != nil {
		return nil, err
	}
	defer inst.Close(ctx)

	legacy := env.Options().LegacyPrefixScan
	mem := inst.Memory()
	var mismatches []string

	for _, in := range selftestInputs {
		if err := mem.Write(selftestStr, probe.Wide(in)); err != nil {
			return nil, err
		}
		// guests always pass the terminator
		units := append(utf16.Encode([]rune(in)), 0)

		want, wantErr := wide.Atol(units)
		if legacy {
			want, wantErr = wide.AtolScan(units)
		}
		res, err := inst.Call(ctx, "call_atol", selftestStr, selftestOut)
		if err != nil {
			return nil, err
		}
		got, _ := mem.ReadU64(selftestOut)
		if m := compare("atol", in, host.StatusOf(wantErr), want, host.Status(api.DecodeI32(res[0])), int64(got)); m != "" {
			mismatches = append(mismatches, m)
		}

		want32, wantErr := wide.Atoi(units)
		if legacy {
			want32, wantErr = wide.AtoiScan(units)
		}
		res, err = inst.Call(ctx, "call_atoi", selftestStr, selftestOut)
		if err != nil {
			return nil, err
		}
		got32, _ := mem.ReadU32(selftestOut)
		if m := compare("atoi", in, host.StatusOf(wantErr), int64(want32), host.Status(api.DecodeI32(res[0])), int64(int32(got32))); m != "" {
			mismatches = append(mismatches, m)
		}
	}
	return mismatches, nil
}

func compare(fn, in string, wantSt host.Status, want int64, gotSt host.Status, got int64) string {
	if wantSt != gotSt {
		return fmt.Sprintf("%s(%q): status %s, want %s", fn, in, gotSt, wantSt)
	}
	if wantSt == host.StatusOK && want != got {
		return fmt.Sprintf("%s(%q) = %d, want %d", fn, in, got, want)
	}
	return ""
}
