package sevenseg595

import (
	"fmt"

	"github.com/flavioheleno/sevenseg595/font7"
)

// SetGlyph stores glyph for pos. It is shown by OutputAll.
func (d *Dev) SetGlyph(glyph byte, pos Position) error {
	if err := d.usable(); err != nil {
		return err
	}
	if err := d.checkPosition(pos); err != nil {
		return err
	}
	d.glyphs[pos-1] = glyph
	return nil
}

// Glyph returns the glyph stored for pos.
func (d *Dev) Glyph(pos Position) (byte, error) {
	if err := d.usable(); err != nil {
		return 0, err
	}
	if err := d.checkPosition(pos); err != nil {
		return 0, err
	}
	return d.glyphs[pos-1], nil
}

// Clear blanks every stored glyph.
func (d *Dev) Clear() error {
	if err := d.usable(); err != nil {
		return err
	}
	d.glyphs = [MaxPositions]byte{}
	return nil
}

// Print stores the glyphs for s on the active positions, left to right. A '.' lights
// the decimal point of the character before it. Missing characters are blank.
func (d *Dev) Print(s string) error {
	if err := d.usable(); err != nil {
		return err
	}
	gs, err := font7.Encode(s)
	if err != nil {
		return err
	}
	if len(gs) > len(d.active) {
		return fmt.Errorf("sevenseg595: %q needs %d positions, %d available", s, len(gs), len(d.active))
	}
	d.glyphs = [MaxPositions]byte{}
	for i, g := range gs {
		d.glyphs[d.active[i]-1] = g
	}
	return nil
}

// OutputAll offers the stored glyph of every active position to Output, in ascending
// order. Call it from the polling loop; retention decides which position actually
// changes. It stops at the first error.
func (d *Dev) OutputAll() error {
	if err := d.usable(); err != nil {
		return err
	}
	for _, p := range d.active {
		if _, err := d.Output(d.glyphs[p-1], p); err != nil {
			return err
		}
	}
	return nil
}
