package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	goruntime "runtime"
	"unicode/utf16"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/wasm-libc/errors"
	"github.com/wippyai/wasm-libc/wide"
)

type parseOptions struct {
	base   int // 0 detects the base from the prefix
	narrow bool
	legacy bool
}

type parseResult struct {
	Input string
	Value int64
	Err   error
}

func newParseCmd(a *app) *cobra.Command {
	var opts parseOptions
	var file string
	var workers int

	cmd := &cobra.Command{
		Use:   "parse [string...]",
		Short: "Parse integers the way the guest services do",
		Long: `Parses each argument, or each line of --file, as a wide string.
Without --base the radix comes from the prefix (atol); with it, strtol is
used. Failures are reported by error kind, one line per input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.legacy = a.cfg.Host.LegacyPrefixScan

			inputs := args
			if file != "" {
				lines, err := readLines(cmd.InOrStdin(), file)
				if err != nil {
					return err
				}
				inputs = append(inputs, lines...)
			}
			if len(inputs) == 0 {
				return fmt.Errorf("nothing to parse")
			}

			results, err := parseAll(cmd.Context(), inputs, opts, workers)
			if err != nil {
				return err
			}
			writeResults(cmd.OutOrStdout(), results)
			return nil
		},
	}
	cmd.Flags().IntVarP(&opts.base, "base", "b", 0, "radix 2..36; 0 detects it from the prefix")
	cmd.Flags().BoolVar(&opts.narrow, "int32", false, "require the value to fit in int32")
	cmd.Flags().StringVar(&file, "file", "", "read inputs from a file, one per line (- for stdin)")
	cmd.Flags().IntVar(&workers, "workers", goruntime.GOMAXPROCS(0), "parallel parsers for --file")
	return cmd
}

func readLines(stdin io.Reader, path string) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// parseAll parses inputs concurrently; results keep the input order.
func parseAll(ctx context.Context, inputs []string, opts parseOptions, workers int) ([]parseResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]parseResult, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := parseOne(in, opts)
			results[i] = parseResult{Input: in, Value: v, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func parseOne(s string, opts parseOptions) (int64, error) {
	units := utf16.Encode([]rune(s))

	if opts.base != 0 {
		v, err := wide.Strtol(units, opts.base)
		if err == nil && opts.narrow && (v < math.MinInt32 || v > math.MaxInt32) {
			return 0, wide.ErrLargerThanI32
		}
		return v, err
	}

	switch {
	case opts.narrow && opts.legacy:
		v, err := wide.AtoiScan(units)
		return int64(v), err
	case opts.narrow:
		v, err := wide.Atoi(units)
		return int64(v), err
	case opts.legacy:
		return wide.AtolScan(units)
	default:
		return wide.Atol(units)
	}
}

func writeResults(w io.Writer, results []parseResult) {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%q\terror: %s\n", r.Input, errors.KindOf(r.Err))
			continue
		}
		fmt.Fprintf(w, "%q\t%d\n", r.Input, r.Value)
	}
}
