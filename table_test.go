package sevenseg595

import (
	"errors"
	"testing"
	"time"

	"github.com/flavioheleno/sevenseg595/font7"
)

func TestSetGlyph(t *testing.T) {
	d, s, _ := newTestDev(t, &Opts{Positions: []int{0, Unassigned, 2}})

	if err := d.SetGlyph(0x77, Pos3); err != nil {
		t.Fatalf("SetGlyph() error = %v", err)
	}
	if g, err := d.Glyph(Pos3); err != nil || g != 0x77 {
		t.Errorf("Glyph(Pos3) = 0x%02X, %v, want 0x77", g, err)
	}
	if err := d.SetGlyph(0x77, Pos2); !errors.Is(err, ErrPositionUnassigned) {
		t.Errorf("SetGlyph(Pos2) error = %v, want %v", err, ErrPositionUnassigned)
	}
	if err := d.SetGlyph(0x77, 0); !errors.Is(err, ErrPositionOutOfRange) {
		t.Errorf("SetGlyph(0) error = %v, want %v", err, ErrPositionOutOfRange)
	}
	if _, err := d.Glyph(9); !errors.Is(err, ErrPositionOutOfRange) {
		t.Errorf("Glyph(9) error = %v, want %v", err, ErrPositionOutOfRange)
	}
	if len(s.sent) != 0 {
		t.Errorf("SetGlyph() sent %d payloads, want none", len(s.sent))
	}

	if err := d.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if g, _ := d.Glyph(Pos3); g != font7.Blank {
		t.Errorf("Glyph(Pos3) after Clear() = 0x%02X, want blank", g)
	}
}

func TestOutputAllWithoutRetention(t *testing.T) {
	d, s, _ := newTestDev(t, &Opts{Switch: ActiveHigh, Positions: []int{0, Unassigned, 2, 3}})
	d.SetGlyph(0x01, Pos1)
	d.SetGlyph(0x03, Pos3)
	d.SetGlyph(0x04, Pos4)

	if err := d.OutputAll(); err != nil {
		t.Fatalf("OutputAll() error = %v", err)
	}
	want := "00 00|01 01|00 00|04 03|00 00|08 04"
	if got := s.payloads(); got != want {
		t.Errorf("sent %s, want %s", got, want)
	}
}

func TestOutputAllWithRetention(t *testing.T) {
	d, s, clock := newTestDev(t, &Opts{Positions: []int{0, 1, 2}, Retention: time.Millisecond})
	for i, pos := range d.ActivePositions() {
		d.SetGlyph(byte(0x10+i), pos)
	}

	// One position per elapsed retention period, cycling.
	var shown []byte
	for i := 0; i < 5; i++ {
		if err := d.OutputAll(); err != nil {
			t.Fatalf("OutputAll() error = %v", err)
		}
		if err := d.OutputAll(); err != nil {
			t.Fatalf("OutputAll() error = %v", err)
		}
		shown = append(shown, s.sent[len(s.sent)-1][1])
		clock.Advance(time.Millisecond)
	}
	if string(shown) != "\x10\x11\x12\x10\x11" {
		t.Errorf("glyphs shown = % x, want 10 11 12 10 11", shown)
	}
	if len(s.sent) != 10 {
		t.Errorf("sent %d payloads, want 10", len(s.sent))
	}
}

func TestOutputAllStopsOnError(t *testing.T) {
	d, s, _ := newTestDev(t, &Opts{Positions: []int{0, 1}})
	busErr := errors.New("bus error")
	s.err = busErr
	if err := d.OutputAll(); !errors.Is(err, busErr) {
		t.Errorf("OutputAll() error = %v, want %v", err, busErr)
	}
}

func TestPrint(t *testing.T) {
	d, _, _ := newTestDev(t, &Opts{Positions: []int{0, Unassigned, 1, 2}})

	if err := d.Print("1.2"); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	want := map[Position]byte{Pos1: 0x06 | font7.SegDP, Pos3: 0x5B, Pos4: font7.Blank}
	for pos, w := range want {
		if g, _ := d.Glyph(pos); g != w {
			t.Errorf("Glyph(%d) = 0x%02X, want 0x%02X", pos, g, w)
		}
	}

	if err := d.Print("1234"); err == nil {
		t.Error("Print() with more characters than positions should fail")
	}
	if err := d.Print("1#"); !errors.Is(err, font7.ErrUnknownChar) {
		t.Errorf("Print() error = %v, want %v", err, font7.ErrUnknownChar)
	}
	// Failed prints keep the previous glyphs.
	if g, _ := d.Glyph(Pos3); g != 0x5B {
		t.Errorf("Glyph(Pos3) = 0x%02X, want 0x5B", g)
	}
}
