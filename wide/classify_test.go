package wide

import (
	"errors"
	"testing"
	"unicode/utf16"
)

func u16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func TestCheckNull(t *testing.T) {
	tests := []struct {
		name string
		in   []uint16
		want error
	}{
		{"empty", nil, ErrFoundNullPtr},
		{"zero length", []uint16{}, ErrFoundNullPtr},
		{"leading NUL", []uint16{0, '1'}, ErrEndOfStr},
		{"digits", u16("12"), nil},
		{"sign", u16("-"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckNull(tt.in)
			if tt.want == nil {
				if err != nil {
					t.Errorf("CheckNull() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("CheckNull() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestIsEndOfNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		i    int
		base int
		want bool
	}{
		{"past end", "1", 1, 10, true},
		{"below zero", "/", 0, 10, true},
		{"space", " 1", 0, 10, true},
		{"decimal digit", "7", 0, 10, false},
		{"octal 7", "7", 0, 8, false},
		{"octal 8", "8", 0, 8, true},
		{"binary 2", "2", 0, 2, true},
		{"binary 1", "1", 0, 2, false},
		{"letter in base 8", "a", 0, 8, true},
		{"colon gap", ":", 0, 16, true},
		{"at sign gap", "@", 0, 16, true},
		{"upper A", "A", 0, 16, false},
		{"upper F", "F", 0, 16, false},
		{"upper G gap", "G", 0, 16, true},
		{"backtick gap", "`", 0, 16, true},
		{"lower f", "f", 0, 16, false},
		{"lower g", "g", 0, 16, true},
		// base 10 passes hex letters; classification rejects them later
		{"lower a in base 10", "a", 0, 10, false},
		{"second position", "1x", 1, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEndOfNumber(u16(tt.in), tt.i, tt.base); got != tt.want {
				t.Errorf("IsEndOfNumber(%q, %d, %d) = %v, want %v", tt.in, tt.i, tt.base, got, tt.want)
			}
		})
	}
}

func TestIsDigit(t *testing.T) {
	tests := []struct {
		c    rune
		base int
		want bool
	}{
		{'0', 2, true},
		{'1', 2, true},
		{'2', 2, false},
		{'7', 8, true},
		{'8', 8, false},
		{'9', 10, true},
		{'9', 16, true},
		{'a', 16, false},
		{'/', 10, false},
		{':', 10, false},
	}
	for _, tt := range tests {
		if got := IsDigit([]uint16{uint16(tt.c)}, 0, tt.base); got != tt.want {
			t.Errorf("IsDigit(%q, %d) = %v, want %v", tt.c, tt.base, got, tt.want)
		}
	}
}

func TestIsHex(t *testing.T) {
	for c := 'A'; c <= 'F'; c++ {
		s := []uint16{uint16(c)}
		if !IsHexUpper(s, 0, 16) {
			t.Errorf("IsHexUpper(%q, 16) = false", c)
		}
		if IsHexLower(s, 0, 16) {
			t.Errorf("IsHexLower(%q, 16) = true", c)
		}
		if IsHexUpper(s, 0, 10) {
			t.Errorf("IsHexUpper(%q, 10) = true", c)
		}
	}
	for c := 'a'; c <= 'f'; c++ {
		s := []uint16{uint16(c)}
		if !IsHexLower(s, 0, 16) {
			t.Errorf("IsHexLower(%q, 16) = false", c)
		}
		if IsHexUpper(s, 0, 16) {
			t.Errorf("IsHexUpper(%q, 16) = true", c)
		}
		if IsHexLower(s, 0, 12) {
			t.Errorf("IsHexLower(%q, 12) = true", c)
		}
	}
	if IsHexUpper(u16("G"), 0, 16) || IsHexLower(u16("g"), 0, 16) {
		t.Error("g/G accepted as hex")
	}
}

func TestCheckSign(t *testing.T) {
	tests := []struct {
		in       string
		negative bool
		offset   int
	}{
		{"-5", true, 1},
		{"-", true, 1},
		{"5", false, 0},
		{"+5", false, 0},
		{"--5", true, 1},
	}
	for _, tt := range tests {
		neg, off := CheckSign(u16(tt.in))
		if neg != tt.negative || off != tt.offset {
			t.Errorf("CheckSign(%q) = (%v, %d), want (%v, %d)", tt.in, neg, off, tt.negative, tt.offset)
		}
	}
}
