// Package sevenseg595 drives a multiplexed 7-segment display through 74HC595 shift
// registers.
//
// Two wirings are supported. With two daisy-chained registers one byte selects the
// character position and the other lights the segments. With a single register the
// segments come from the register and every position has its own GPIO control line.
//
// See doc.go for details and the examples for how to use this package.
package sevenseg595

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/flavioheleno/sevenseg595/retention"
	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
)

// MaxPositions is the number of character positions the driver can multiplex.
const MaxPositions = 4

// Unassigned marks a position without a selector bit.
const Unassigned = -1

// DefaultRetention is how long a glyph is held on its position before the next
// position may be turned on.
const DefaultRetention = 300 * time.Microsecond

var (
	ErrNotConfigured        = errors.New("sevenseg595: not configured")
	ErrNoTransport          = errors.New("sevenseg595: transport not specified")
	ErrInvalidByteOrder     = errors.New("sevenseg595: invalid byte order")
	ErrInvalidSwitchType    = errors.New("sevenseg595: invalid position switch type")
	ErrTooManyPositions     = errors.New("sevenseg595: too many positions")
	ErrMissingFirstPosition = errors.New("sevenseg595: position 1 must be assigned")
	ErrInvalidPositionBit   = errors.New("sevenseg595: position bit out of range")
	ErrDuplicatePosition    = errors.New("sevenseg595: position assigned twice")
	ErrInvalidRetention     = errors.New("sevenseg595: invalid retention duration")
	ErrPositionOutOfRange   = errors.New("sevenseg595: position out of range")
	ErrPositionUnassigned   = errors.New("sevenseg595: position not assigned")
	ErrHalted               = errors.New("sevenseg595: halted")
)

// ByteOrder selects which byte is shifted out first with two daisy-chained registers.
type ByteOrder int

const (
	PositionByteFirst ByteOrder = 0
	SegmentByteFirst  ByteOrder = 1
)

func (o ByteOrder) String() string {
	switch o {
	case PositionByteFirst:
		return "PositionByteFirst"
	case SegmentByteFirst:
		return "SegmentByteFirst"
	}
	return fmt.Sprintf("ByteOrder(%d)", int(o))
}

// SwitchType tells whether a position is turned on by a high or a low level.
type SwitchType int

const (
	ActiveLow  SwitchType = 0
	ActiveHigh SwitchType = 1
)

func (s SwitchType) String() string {
	switch s {
	case ActiveLow:
		return "ActiveLow"
	case ActiveHigh:
		return "ActiveHigh"
	}
	return fmt.Sprintf("SwitchType(%d)", int(s))
}

// Position is a character position (digit), counted from 1.
type Position int

const (
	Pos1 Position = 1
	Pos2 Position = 2
	Pos3 Position = 3
	Pos4 Position = 4
)

// Opts is the configuration for the display.
type Opts struct {
	Order  ByteOrder  // Two registers only
	Switch SwitchType // Level that turns a position on

	// Selector bit (0-7) for each position, starting at position 1. Missing entries
	// and Unassigned leave the position unused. Position 1 is required.
	Positions []int

	// Dedicated control lines for the single register wiring. When any entry is set,
	// Positions and Order are ignored. A nil entry leaves the position unused.
	PositionPins []gpio.PinOut

	// How long each glyph is held before the next position is turned on. Zero
	// disables anti-ghosting retention.
	Retention time.Duration

	// Time source for retention, nil means the wall clock.
	Clock clockwork.Clock
}

// DefaultOpts is used when nil Opts are passed.
var DefaultOpts = Opts{
	Order:     PositionByteFirst,
	Switch:    ActiveHigh,
	Positions: []int{0, 1, 2, 3},
	Retention: DefaultRetention,
}

// Dev is a handle to a 74HC595 driven 7-segment display.
//
// Dev is not safe for concurrent use.
type Dev struct {
	sink Sink

	// Configuration
	err    error
	order  ByteOrder
	sw     SwitchType
	bits   [MaxPositions]int
	pins   [MaxPositions]gpio.PinOut
	single bool
	active []Position
	hold   time.Duration

	// Retention state
	timer    *retention.Timer
	retained Position
	first    bool

	glyphs [MaxPositions]byte
	halted bool
	dump   bool
}

// New returns a display that sends data through s.
//
// opts can be nil to use DefaultOpts.
func New(s Sink, opts *Opts) (*Dev, error) {
	d := &Dev{sink: s}
	if err := d.Configure(opts); err != nil {
		return nil, err
	}
	return d, nil
}

// NewBitBang returns a display whose registers are clocked manually through three
// GPIO lines.
func NewBitBang(data, clock, latch gpio.PinOut, opts *Opts) (*Dev, error) {
	return New(BitBang(data, clock, latch), opts)
}

// Configure validates opts and, when valid, replaces the current configuration and
// restarts output sequencing from scratch.
//
// When opts are invalid the device is left unconfigured: every later operation returns
// the same error until Configure succeeds.
func (d *Dev) Configure(opts *Opts) error {
	if opts == nil {
		def := DefaultOpts
		opts = &def
	}
	d.err = d.configure(opts)
	if d.err != nil {
		d.active = nil
	}
	return d.err
}

func (d *Dev) configure(opts *Opts) error {
	if d.sink == nil {
		return ErrNoTransport
	}
	if opts.Order != PositionByteFirst && opts.Order != SegmentByteFirst {
		return fmt.Errorf("%w: %d", ErrInvalidByteOrder, int(opts.Order))
	}
	if opts.Switch != ActiveLow && opts.Switch != ActiveHigh {
		return fmt.Errorf("%w: %d", ErrInvalidSwitchType, int(opts.Switch))
	}
	if opts.Retention < 0 || opts.Retention > retention.MaxDuration {
		return fmt.Errorf("%w: %v", ErrInvalidRetention, opts.Retention)
	}

	var bits [MaxPositions]int
	var pins [MaxPositions]gpio.PinOut
	single := false
	for _, p := range opts.PositionPins {
		if p != nil {
			single = true
		}
	}
	var err error
	if single {
		pins, err = checkPins(opts.PositionPins)
	} else {
		bits, err = checkBits(opts.Positions)
	}
	if err != nil {
		return err
	}

	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	// Commit.
	d.order = opts.Order
	d.sw = opts.Switch
	d.bits = bits
	d.pins = pins
	d.single = single
	d.hold = opts.Retention
	d.active = d.active[:0]
	for i := 0; i < MaxPositions; i++ {
		if (single && pins[i] != nil) || (!single && bits[i] != Unassigned) {
			d.active = append(d.active, Position(i+1))
		}
	}
	d.timer = retention.New(retention.FromClock(clock))
	d.retained = Pos1
	d.first = true
	d.glyphs = [MaxPositions]byte{}
	d.halted = false

	return d.setup()
}

func checkBits(in []int) ([MaxPositions]int, error) {
	bits := [MaxPositions]int{Unassigned, Unassigned, Unassigned, Unassigned}
	if len(in) > MaxPositions {
		return bits, fmt.Errorf("%w: %d", ErrTooManyPositions, len(in))
	}
	copy(bits[:], in)
	if bits[0] == Unassigned {
		return bits, ErrMissingFirstPosition
	}
	for i, b := range bits {
		if b == Unassigned {
			continue
		}
		if b < 0 || b > 7 {
			return bits, fmt.Errorf("%w: position %d bit %d", ErrInvalidPositionBit, i+1, b)
		}
		for j := i + 1; j < MaxPositions; j++ {
			if bits[j] == b {
				return bits, fmt.Errorf("%w: positions %d and %d use bit %d", ErrDuplicatePosition, i+1, j+1, b)
			}
		}
	}
	return bits, nil
}

func checkPins(in []gpio.PinOut) ([MaxPositions]gpio.PinOut, error) {
	var pins [MaxPositions]gpio.PinOut
	if len(in) > MaxPositions {
		return pins, fmt.Errorf("%w: %d", ErrTooManyPositions, len(in))
	}
	copy(pins[:], in)
	if pins[0] == nil {
		return pins, ErrMissingFirstPosition
	}
	for i, p := range pins {
		if p == nil {
			continue
		}
		for j := i + 1; j < MaxPositions; j++ {
			if pins[j] != nil && (pins[j] == p || pins[j].Name() == p.Name()) {
				return pins, fmt.Errorf("%w: positions %d and %d use pin %s", ErrDuplicatePosition, i+1, j+1, p.Name())
			}
		}
	}
	return pins, nil
}

// setup drives every line to its idle level.
func (d *Dev) setup() error {
	if err := d.sink.Setup(); err != nil {
		return fmt.Errorf("sevenseg595: setup failed: %w", err)
	}
	return d.positionsOff()
}

func (d *Dev) positionsOff() error {
	if !d.single {
		return nil
	}
	for i, p := range d.pins {
		if p == nil {
			continue
		}
		if err := p.Out(!d.onLevel()); err != nil {
			return fmt.Errorf("sevenseg595: failed to turn off position %d: %w", i+1, err)
		}
	}
	return nil
}

func (d *Dev) onLevel() gpio.Level {
	return gpio.Level(d.sw == ActiveHigh)
}

// Err returns the result of the last configuration: nil when the device is ready,
// the validation error otherwise.
func (d *Dev) Err() error {
	if d.err == nil && d.timer == nil {
		return ErrNotConfigured
	}
	return d.err
}

// usable returns the error any operation must fail with, if any.
func (d *Dev) usable() error {
	if err := d.Err(); err != nil {
		return err
	}
	if d.halted {
		return ErrHalted
	}
	return nil
}

// ActivePositions returns the assigned positions in ascending order.
func (d *Dev) ActivePositions() []Position {
	out := make([]Position, len(d.active))
	copy(out, d.active)
	return out
}

// Retention returns the configured retention duration.
func (d *Dev) Retention() time.Duration {
	return d.hold
}

// SetRetention changes the duration a glyph is held before the next position is
// turned on. Zero disables retention.
func (d *Dev) SetRetention(hold time.Duration) error {
	if err := d.usable(); err != nil {
		return err
	}
	if hold < 0 || hold > retention.MaxDuration {
		return fmt.Errorf("%w: %v", ErrInvalidRetention, hold)
	}
	d.hold = hold
	return nil
}

// DebugDump logs every latched payload when on.
func (d *Dev) DebugDump(on bool) {
	d.dump = on
}

func (d *Dev) debugf(format string, args ...interface{}) {
	if !d.dump {
		return
	}
	log.Printf(format, args...)
}

// Halt blanks the display and releases the transport.
// After calling Halt, the display will not respond to further commands until it is
// configured again.
func (d *Dev) Halt() error {
	if err := d.usable(); err != nil {
		return err
	}
	d.halted = true
	if err := d.positionsOff(); err != nil {
		return err
	}
	if err := d.sink.Send(make([]byte, d.payloadLen())); err != nil {
		return fmt.Errorf("sevenseg595: failed to blank display: %w", err)
	}
	return d.sink.Halt()
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	wiring := "2x595"
	if d.single {
		wiring = "1x595"
	}
	return fmt.Sprintf("sevenseg595.Dev{%s, %d positions, %v}", wiring, len(d.active), d.sink)
}
