package wide

import (
	"errors"
	"math"
	"strconv"
	"testing"
)

func TestStrtol(t *testing.T) {
	tests := []struct {
		name    string
		in      []uint16
		base    int
		want    int64
		wantErr error
	}{
		{name: "decimal with terminator", in: append(u16("12345"), 0), base: 10, want: 12345},
		{name: "negative decimal", in: u16("-987"), base: 10, want: -987},
		{name: "hex lowercase", in: u16("1a3f"), base: 16, want: 0x1a3f},
		{name: "hex uppercase", in: u16("1A3F"), base: 16, want: 0x1A3F},
		{name: "hex FF", in: u16("FF"), base: 16, want: 255},
		{name: "hex mixed case", in: u16("dEaDbEeF"), base: 16, want: 0xDEADBEEF},
		{name: "octal", in: u16("777"), base: 8, want: 0o777},
		{name: "binary", in: u16("-1011"), base: 2, want: -11},
		{name: "no terminator", in: u16("55"), base: 10, want: 55},
		{name: "embedded terminator", in: []uint16{'4', '2', 0, 'x', 'y'}, base: 10, want: 42},
		{name: "zero", in: u16("0"), base: 10, want: 0},
		{name: "negative zero", in: u16("-0"), base: 10, want: 0},
		{name: "max int64", in: u16("9223372036854775807"), base: 10, want: math.MaxInt64},
		{name: "min int64", in: u16("-9223372036854775808"), base: 10, want: math.MinInt64},
		{name: "max int64 hex", in: u16("7fffffffffffffff"), base: 16, want: math.MaxInt64},

		{name: "empty", in: nil, base: 10, wantErr: ErrFoundNullPtr},
		{name: "leading NUL", in: []uint16{0}, base: 10, wantErr: ErrEndOfStr},
		{name: "only sign", in: u16("-"), base: 10, wantErr: ErrInvalidStart},
		{name: "sign then NUL", in: []uint16{'-', 0}, base: 10, wantErr: ErrInvalidStart},
		{name: "invalid start", in: u16("x123"), base: 10, wantErr: ErrInvalidStart},
		{name: "double sign", in: u16("--5"), base: 10, wantErr: ErrInvalidStart},
		{name: "plus sign", in: u16("+5"), base: 10, wantErr: ErrInvalidStart},
		{name: "leading space", in: u16(" 5"), base: 10, wantErr: ErrInvalidStart},
		{name: "octal rejects 8 at start", in: u16("8"), base: 8, wantErr: ErrInvalidStart},
		{name: "trailing garbage", in: u16("123xyz"), base: 10, wantErr: ErrInvalidInput},
		{name: "octal rejects 8 mid-number", in: u16("178"), base: 8, wantErr: ErrInvalidInput},
		{name: "letter in base 10", in: u16("1a"), base: 10, wantErr: ErrInvalidInput},
		{name: "letter start in base 12", in: u16("a"), base: 12, wantErr: ErrInvalidInput},
		{name: "trailing space", in: u16("12 "), base: 10, wantErr: ErrInvalidInput},
		{name: "overflow positive", in: u16("9223372036854775808"), base: 10, wantErr: ErrOverflow},
		{name: "overflow negative", in: u16("-9223372036854775809"), base: 10, wantErr: ErrOverflow},
		{name: "overflow hex", in: u16("10000000000000000"), base: 16, wantErr: ErrOverflow},
		{name: "overflow long", in: u16("99999999999999999999999"), base: 10, wantErr: ErrOverflow},
		{name: "base too small", in: u16("1"), base: 1, wantErr: ErrInvalidBase},
		{name: "base too large", in: u16("1"), base: 37, wantErr: ErrInvalidBase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Strtol(tt.in, tt.base)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Strtol() error = %v, want %v", err, tt.wantErr)
				}
				if got != 0 {
					t.Errorf("Strtol() = %d on error, want 0", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Strtol() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Strtol() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStrtol_TerminatorOptional(t *testing.T) {
	bare := u16("-31337")
	terminated := append(u16("-31337"), 0)

	a, errA := Strtol(bare, 10)
	b, errB := Strtol(terminated, 10)
	if errA != nil || errB != nil {
		t.Fatalf("unexpected errors: %v, %v", errA, errB)
	}
	if a != b {
		t.Errorf("bare = %d, terminated = %d", a, b)
	}
}

func TestStrtol_DecimalRoundTrip(t *testing.T) {
	values := []int64{
		0, 1, -1, 7, 10, -10, 255, 65535, -65536,
		math.MaxInt32, math.MinInt32, math.MaxInt32 + 1,
		1 << 53, -(1 << 53), math.MaxInt64, math.MinInt64,
	}
	for _, v := range values {
		s := strconv.FormatInt(v, 10)
		got, err := Strtol(u16(s), 10)
		if err != nil {
			t.Errorf("Strtol(%q) error: %v", s, err)
			continue
		}
		if got != v {
			t.Errorf("Strtol(%q) = %d, want %d", s, got, v)
		}
	}
}

func TestStrtol_HexCaseInsensitive(t *testing.T) {
	for v := int64(0); v < 4096; v += 37 {
		lower := strconv.FormatInt(v, 16)
		upper := []rune(lower)
		for i, r := range upper {
			if r >= 'a' && r <= 'f' {
				upper[i] = r - 'a' + 'A'
			}
		}
		gl, errL := Strtol(u16(lower), 16)
		gu, errU := Strtol(u16(string(upper)), 16)
		if errL != nil || errU != nil {
			t.Fatalf("v=%d errors: %v, %v", v, errL, errU)
		}
		if gl != v || gu != v {
			t.Errorf("v=%d: lower=%d upper=%d", v, gl, gu)
		}
	}
}

func FuzzStrtol(f *testing.F) {
	f.Add("12345", 10)
	f.Add("-1a3f", 16)
	f.Add("0777", 8)
	f.Add("", 10)
	f.Add("-", 10)
	f.Add("9223372036854775808", 10)

	f.Fuzz(func(t *testing.T, s string, base int) {
		got, err := Strtol(u16(s), base)
		if err != nil {
			return
		}
		if base < MinBase || base > MaxBase {
			t.Fatalf("Strtol(%q, %d) accepted invalid base", s, base)
		}
		// Anything accepted must agree with strconv for the digits it accepts.
		if base == 10 || base == 8 {
			want, perr := strconv.ParseInt(trimNUL(s), base, 64)
			if perr == nil && want != got {
				t.Fatalf("Strtol(%q, %d) = %d, strconv = %d", s, base, got, want)
			}
		}
	})
}

func trimNUL(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return s[:i]
		}
	}
	return s
}
