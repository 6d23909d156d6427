package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-libc/host"
	"github.com/wippyai/wasm-libc/runtime"
)

func newExportsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exports [file.wasm]",
		Short: "List the env host functions, or a guest's imports and exports",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				listHostExports(cmd.OutOrStdout())
				return nil
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			ctx := context.Background()
			rt, err := runtime.New(ctx, a.cfg.RuntimeConfig(), a.env(cmd))
			if err != nil {
				return fmt.Errorf("create runtime: %w", err)
			}
			defer rt.Close(ctx)

			mod, err := rt.LoadModule(ctx, data)
			if err != nil {
				return fmt.Errorf("load module: %w", err)
			}
			listModule(cmd.OutOrStdout(), mod)
			return nil
		},
	}
}

func listHostExports(w io.Writer) {
	fmt.Fprintf(w, "Host module %q:\n", host.ModuleName)
	for _, ex := range host.Exports() {
		params := make([]string, len(ex.WitParams))
		for i, p := range ex.WitParams {
			params[i] = ex.ParamNames[i] + ": " + witTypeStr(p)
		}
		result := ""
		if len(ex.WitResults) > 0 {
			result = " -> " + witTypeStr(ex.WitResults[0])
		}
		fmt.Fprintf(w, "  %s: func(%s)%s\n", ex.Name, strings.Join(params, ", "), result)
		fmt.Fprintf(w, "      %s\n", ex.Doc)
	}
}

func listModule(w io.Writer, mod *runtime.Module) {
	fmt.Fprintln(w, "Imports:")
	for _, f := range mod.Imports() {
		fmt.Fprintf(w, "  %s.%s%s\n", f.Module, f.Name, coreSig(f.Params, f.Results))
	}
	fmt.Fprintln(w, "Exports:")
	for _, f := range mod.Exports() {
		fmt.Fprintf(w, "  %s%s\n", f.Name, coreSig(f.Params, f.Results))
	}
}

func coreSig(params, results []api.ValueType) string {
	names := func(types []api.ValueType) string {
		out := make([]string, len(types))
		for i, t := range types {
			out[i] = api.ValueTypeName(t)
		}
		return strings.Join(out, ", ")
	}
	sig := "(" + names(params) + ")"
	if len(results) > 0 {
		sig += " -> " + names(results)
	}
	return sig
}

func witTypeStr(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}
