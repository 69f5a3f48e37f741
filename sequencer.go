package sevenseg595

import (
	"fmt"
	"time"

	"github.com/flavioheleno/sevenseg595/retention"
)

// Result tells what an output call did.
type Result int

const (
	// Failed is returned together with a non-nil error.
	Failed Result = iota
	// Advanced means the glyph was latched on the requested position.
	Advanced
	// Retaining means the previous glyph is still being held. Nothing was sent; call
	// again with the same arguments.
	Retaining
)

func (r Result) String() string {
	switch r {
	case Failed:
		return "Failed"
	case Advanced:
		return "Advanced"
	case Retaining:
		return "Retaining"
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// Output shows glyph on pos once the configured retention allows it.
func (d *Dev) Output(glyph byte, pos Position) (Result, error) {
	return d.OutputFor(glyph, pos, d.hold)
}

// OutputFor shows glyph on pos, holding the previous output for at least hold.
//
// Positions must be requested in ascending order of the active positions, wrapping
// around after the last one. A request for any other position, or one made before
// hold has elapsed, returns Retaining without touching the hardware. The first call
// after Configure always goes through. It never blocks.
func (d *Dev) OutputFor(glyph byte, pos Position, hold time.Duration) (Result, error) {
	if err := d.usable(); err != nil {
		return Failed, err
	}
	if err := d.checkPosition(pos); err != nil {
		return Failed, err
	}
	if hold < 0 || hold > retention.MaxDuration {
		return Failed, fmt.Errorf("%w: %v", ErrInvalidRetention, hold)
	}

	if !d.first && hold > 0 {
		if pos != d.next() {
			return Retaining, nil
		}
		if !d.timer.Elapsed(hold) {
			return Retaining, nil
		}
	}

	if err := d.latch(glyph, pos); err != nil {
		return Failed, err
	}
	d.retained = pos
	d.timer.Restart()
	d.first = false
	return Advanced, nil
}

func (d *Dev) checkPosition(pos Position) error {
	if pos < Pos1 || pos > MaxPositions {
		return fmt.Errorf("%w: %d", ErrPositionOutOfRange, int(pos))
	}
	i := int(pos) - 1
	if (d.single && d.pins[i] == nil) || (!d.single && d.bits[i] == Unassigned) {
		return fmt.Errorf("%w: %d", ErrPositionUnassigned, int(pos))
	}
	return nil
}

// next returns the active position that follows the retained one.
func (d *Dev) next() Position {
	for _, p := range d.active {
		if p > d.retained {
			return p
		}
	}
	return d.active[0]
}

// Next returns the position the next output is expected on. Before the first output
// any active position is accepted and Pos1 is returned.
func (d *Dev) Next() Position {
	if d.first || len(d.active) == 0 {
		return Pos1
	}
	return d.next()
}

// Compose returns the two bytes shifted out for glyph on the position selected by bit,
// in transmission order.
func Compose(glyph byte, bit int, order ByteOrder, sw SwitchType) (first, second byte) {
	sel := byte(1) << uint(bit)
	if sw == ActiveLow {
		sel = ^sel
	}
	if order == SegmentByteFirst {
		return glyph, sel
	}
	return sel, glyph
}

func (d *Dev) payloadLen() int {
	if d.single {
		return 1
	}
	return 2
}

// latch sends a blank frame, then the real one. The blank frame keeps the previous
// glyph from flashing on the new position while the registers settle.
func (d *Dev) latch(glyph byte, pos Position) error {
	i := int(pos) - 1
	blank := make([]byte, d.payloadLen())

	if d.single {
		if err := d.positionsOff(); err != nil {
			return err
		}
		if err := d.send(blank); err != nil {
			return err
		}
		if err := d.send([]byte{glyph}); err != nil {
			return err
		}
		if err := d.pins[i].Out(d.onLevel()); err != nil {
			return fmt.Errorf("sevenseg595: failed to turn on position %d: %w", pos, err)
		}
		return nil
	}

	if err := d.send(blank); err != nil {
		return err
	}
	first, second := Compose(glyph, d.bits[i], d.order, d.sw)
	return d.send([]byte{first, second})
}

func (d *Dev) send(p []byte) error {
	d.debugf("sevenseg595: send % x", p)
	if err := d.sink.Send(p); err != nil {
		return fmt.Errorf("sevenseg595: transfer failed: %w", err)
	}
	return nil
}
