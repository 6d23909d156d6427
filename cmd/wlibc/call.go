package main

import (
	"fmt"
	"strconv"
	"unicode/utf16"

	"github.com/wippyai/wasm-libc/host"
	"github.com/wippyai/wasm-libc/memory"
)

// scratchSize is the in-process memory callHost stages arguments in.
const scratchSize = 1 << 16

// hostParam is a user-facing argument of a host function. Pointer
// parameters the host writes through are not asked for.
type hostParam struct {
	name    string
	typeStr string
}

var hostParams = map[string][]hostParam{
	"strtol":        {{"s", "wide string"}, {"base", "s32"}},
	"atol":          {{"s", "wide string"}},
	"atoi":          {{"s", "wide string"}},
	"mbtowc":        {{"s", "utf-8 bytes"}, {"n", "u32, default len(s)"}},
	"wcslen":        {{"s", "wide string"}},
	"output_string": {{"s", "wide string"}},
	"test_string":   {{"s", "wide string"}},
}

// callHost serves one host function from env against a scratch memory,
// staging args the way a guest would, and formats its result.
func callHost(env *host.Env, name string, args []string) (string, error) {
	want := hostParams[name]
	if want == nil {
		return "", fmt.Errorf("unknown host function %q", name)
	}
	if len(args) != len(want) {
		return "", fmt.Errorf("%s takes %d arguments, got %d", name, len(want), len(args))
	}

	buf := memory.NewBuffer(scratchSize)

	if name == "mbtowc" {
		s, err := buf.Put([]byte(args[0]))
		if err != nil {
			return "", err
		}
		n := uint64(len(args[0]))
		if args[1] != "" {
			if n, err = strconv.ParseUint(args[1], 10, 32); err != nil {
				return "", fmt.Errorf("n: %w", err)
			}
		}
		unit, consumed, err := env.Mbtowc(buf, s, uint32(n))
		if err != nil {
			return "", statusErr(err)
		}
		return fmt.Sprintf("U+%04X (%d bytes)", unit, consumed), nil
	}

	s, err := buf.PutWide(utf16.Encode([]rune(args[0])))
	if err != nil {
		return "", err
	}

	switch name {
	case "strtol":
		base, err := strconv.ParseInt(args[1], 10, 32)
		if err != nil {
			return "", fmt.Errorf("base: %w", err)
		}
		v, err := env.Strtol(buf, s, int32(base))
		return formatInt(v, err)
	case "atol":
		v, err := env.Atol(buf, s)
		return formatInt(v, err)
	case "atoi":
		v, err := env.Atoi(buf, s)
		return formatInt(int64(v), err)
	case "wcslen":
		n, err := env.Wcslen(buf, s)
		return formatInt(int64(n), err)
	case "output_string":
		if err := env.OutputString(buf, s); err != nil {
			return "", statusErr(err)
		}
		return host.StatusOK.String(), nil
	default: // test_string
		ok, err := env.TestString(buf, s)
		if err != nil {
			return "", statusErr(err)
		}
		if !ok {
			return host.StatusUnsupported.String(), nil
		}
		return host.StatusOK.String(), nil
	}
}

func formatInt(v int64, err error) (string, error) {
	if err != nil {
		return "", statusErr(err)
	}
	return strconv.FormatInt(v, 10), nil
}

func statusErr(err error) error {
	return fmt.Errorf("%s (status %d): %w", host.StatusOf(err), int32(host.StatusOf(err)), err)
}
