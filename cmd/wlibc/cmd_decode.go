package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wippyai/wasm-libc/multibyte"
)

type decoded struct {
	Unit     uint16
	Consumed int
}

func newDecodeCmd(a *app) *cobra.Command {
	var asHex, all bool

	cmd := &cobra.Command{
		Use:   "decode <text>",
		Short: "Decode UTF-8 into wide code units the way mbtowc does",
		Long: `Decodes the first character of the argument, or every character with
--all. With --hex the argument is read as hex bytes, e.g. "e2 82 ac".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := []byte(args[0])
			if asHex {
				b, err := hex.DecodeString(strings.ReplaceAll(args[0], " ", ""))
				if err != nil {
					return fmt.Errorf("decode hex: %w", err)
				}
				raw = b
			}

			strict := a.cfg.Host.StrictDecodeWindow
			var out []decoded
			var err error
			if all {
				out, err = decodeAll(raw, strict)
			} else {
				var d decoded
				d.Unit, d.Consumed, err = decodeFirst(raw, strict)
				if err == nil {
					out = append(out, d)
				}
			}
			for _, d := range out {
				fmt.Fprintf(cmd.OutOrStdout(), "U+%04X\t%d\n", d.Unit, d.Consumed)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&asHex, "hex", false, "argument is hex-encoded bytes")
	cmd.Flags().BoolVar(&all, "all", false, "decode every character")
	return cmd
}

func decodeFirst(b []byte, strict bool) (uint16, int, error) {
	if strict {
		return multibyte.DecodeOne(b)
	}
	return multibyte.DecodePrefix(b)
}

// decodeAll walks b one character at a time. It returns what it decoded
// before the first failure along with that failure.
func decodeAll(b []byte, strict bool) ([]decoded, error) {
	var out []decoded
	for off := 0; off < len(b); {
		unit, n, err := decodeFirst(b[off:], strict)
		if err != nil {
			return out, fmt.Errorf("offset %d: %w", off, err)
		}
		out = append(out, decoded{Unit: unit, Consumed: n})
		off += n
	}
	return out, nil
}
