// Package font7 maps characters to 7-segment glyphs.
//
// A glyph is a byte with one bit per segment, using the common gfedcba layout:
//
//	 --a--
//	|     |
//	f     b
//	|     |
//	 --g--
//	|     |
//	e     c
//	|     |
//	 --d--  .dp
//
// Boards that route segments to different shift register outputs can translate glyphs
// with Remap.
package font7

import (
	"errors"
	"fmt"
	"strings"
)

// Segment bits.
const (
	SegA  byte = 1 << 0
	SegB  byte = 1 << 1
	SegC  byte = 1 << 2
	SegD  byte = 1 << 3
	SegE  byte = 1 << 4
	SegF  byte = 1 << 5
	SegG  byte = 1 << 6
	SegDP byte = 1 << 7
)

// Blank is the glyph with every segment off.
const Blank byte = 0x00

// ErrUnknownChar is returned by Encode for characters without a glyph.
var ErrUnknownChar = errors.New("font7: no glyph for character")

var glyphs = map[byte]byte{
	' ': 0x00,
	'-': 0x40,
	'_': 0x08,
	'=': 0x48,
	'0': 0x3F,
	'1': 0x06,
	'2': 0x5B,
	'3': 0x4F,
	'4': 0x66,
	'5': 0x6D,
	'6': 0x7D,
	'7': 0x07,
	'8': 0x7F,
	'9': 0x6F,
	'A': 0x77,
	'b': 0x7C,
	'C': 0x39,
	'c': 0x58,
	'd': 0x5E,
	'E': 0x79,
	'F': 0x71,
	'G': 0x3D,
	'H': 0x76,
	'h': 0x74,
	'I': 0x06,
	'i': 0x04,
	'J': 0x1E,
	'L': 0x38,
	'l': 0x06,
	'n': 0x54,
	'O': 0x3F,
	'o': 0x5C,
	'P': 0x73,
	'q': 0x67,
	'r': 0x50,
	'S': 0x6D,
	't': 0x78,
	'U': 0x3E,
	'u': 0x1C,
	'y': 0x6E,
}

func altCase(c byte) byte {
	switch {
	case c >= 'A' && c <= 'Z':
		return c + 'a' - 'A'
	case c >= 'a' && c <= 'z':
		return c + 'A' - 'a'
	}
	return c
}

// Lookup returns the glyph for c. Letters that only exist in one case on a 7-segment
// display fall back to the other case.
func Lookup(c byte) (byte, bool) {
	if g, ok := glyphs[c]; ok {
		return g, true
	}
	g, ok := glyphs[altCase(c)]
	return g, ok
}

// Encode converts s to glyphs. A '.' lights the decimal point of the preceding
// character; a leading '.' or one following another '.' stands on its own.
func Encode(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	dotted := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '.' {
			if !dotted && len(out) > 0 {
				out[len(out)-1] |= SegDP
				dotted = true
				continue
			}
			out = append(out, SegDP)
			continue
		}
		g, ok := Lookup(c)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownChar, c)
		}
		out = append(out, g)
		dotted = false
	}
	return out, nil
}

// Flip rotates g by 180°, for displays mounted upside down. The decimal point is kept.
func Flip(g byte) byte {
	var out byte
	swap := [][2]byte{{SegA, SegD}, {SegB, SegE}, {SegC, SegF}}
	for _, p := range swap {
		if g&p[0] != 0 {
			out |= p[1]
		}
		if g&p[1] != 0 {
			out |= p[0]
		}
	}
	return out | g&(SegG|SegDP)
}

// Remap moves segment bits to the register outputs they are wired to: bit i of g is
// moved to bit wiring[i]. Entries above 7 drop the segment.
func Remap(g byte, wiring [8]uint8) byte {
	var out byte
	for i, to := range wiring {
		if to > 7 {
			continue
		}
		if g&(1<<uint(i)) != 0 {
			out |= 1 << to
		}
	}
	return out
}

// Render draws glyphs as five lines of ASCII art.
func Render(gs []byte) string {
	var rows [5]strings.Builder
	seg := func(g, mask byte, on string) string {
		if g&mask != 0 {
			return on
		}
		return strings.Repeat(" ", len(on))
	}
	for _, g := range gs {
		rows[0].WriteString(" " + seg(g, SegA, "-") + "  ")
		rows[1].WriteString(seg(g, SegF, "|") + " " + seg(g, SegB, "|") + " ")
		rows[2].WriteString(" " + seg(g, SegG, "-") + "  ")
		rows[3].WriteString(seg(g, SegE, "|") + " " + seg(g, SegC, "|") + " ")
		rows[4].WriteString(" " + seg(g, SegD, "-") + " " + seg(g, SegDP, "."))
	}
	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = strings.TrimRight(rows[i].String(), " ")
	}
	return strings.Join(lines, "\n")
}
