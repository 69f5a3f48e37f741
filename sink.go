package sevenseg595

import (
	"fmt"
	"io"
	"log"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// Sink moves bytes into the shift registers.
type Sink interface {
	// Setup drives the control lines to their idle level.
	Setup() error
	// Send shifts p out MSB first, first byte first, then pulses the latch so the
	// register outputs show the new data.
	Send(p []byte) error
	// Halt releases the transport.
	Halt() error
	String() string
}

// bitBang clocks the registers manually.
type bitBang struct {
	data, clock, latch gpio.PinOut
}

// BitBang returns a Sink that shifts bits out through three GPIO lines.
func BitBang(data, clock, latch gpio.PinOut) Sink {
	return &bitBang{data: data, clock: clock, latch: latch}
}

func (b *bitBang) Setup() error {
	for _, p := range []gpio.PinOut{b.data, b.clock, b.latch} {
		if p == nil {
			return ErrNoTransport
		}
		if err := p.Out(gpio.Low); err != nil {
			return err
		}
	}
	return nil
}

func (b *bitBang) Send(p []byte) error {
	if err := b.latch.Out(gpio.Low); err != nil {
		return err
	}
	for _, v := range p {
		if err := b.shiftOut(v); err != nil {
			return err
		}
	}
	return b.latch.Out(gpio.High)
}

// shiftOut pulls the clock low before the first bit, so the first rising edge is
// not lost when the line was left high.
func (b *bitBang) shiftOut(v byte) error {
	if err := b.clock.Out(gpio.Low); err != nil {
		return err
	}
	for i := 7; i >= 0; i-- {
		if err := b.data.Out(gpio.Level(v&(1<<uint(i)) != 0)); err != nil {
			return err
		}
		if err := b.clock.Out(gpio.High); err != nil {
			return err
		}
		if err := b.clock.Out(gpio.Low); err != nil {
			return err
		}
	}
	return nil
}

func (b *bitBang) Halt() error {
	return b.latch.Out(gpio.Low)
}

func (b *bitBang) String() string {
	return fmt.Sprintf("BitBang{data=%s, clock=%s, latch=%s}", b.data, b.clock, b.latch)
}

// spiSink shifts through a hardware SPI port. The latch line stays a GPIO.
type spiSink struct {
	c      conn.Conn
	latch  gpio.PinOut
	closer io.Closer
}

// SPI returns a Sink that shifts bytes through c.
func SPI(c conn.Conn, latch gpio.PinOut) Sink {
	return &spiSink{c: c, latch: latch}
}

// NewSPI returns a display connected through an SPI port.
//
// The port is configured for 10MHz, Mode0 (CPOL=0, CPHA=0), 8-bit transfers.
func NewSPI(p spi.Port, latch gpio.PinOut, opts *Opts) (*Dev, error) {
	c, err := p.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("sevenseg595: failed to connect SPI: %w", err)
	}
	return New(SPI(c, latch), opts)
}

// OpenSPI opens the SPI bus registered as name (empty for the first one) and returns
// a display connected through it. The bus is closed by Halt.
func OpenSPI(name string, latch gpio.PinOut, opts *Opts) (*Dev, error) {
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("sevenseg595: failed to open SPI bus %q: %w", name, err)
	}
	c, err := p.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("sevenseg595: failed to connect SPI: %w", err)
	}
	d, err := New(&spiSink{c: c, latch: latch, closer: p}, opts)
	if err != nil {
		p.Close()
		return nil, err
	}
	return d, nil
}

func (s *spiSink) Setup() error {
	if s.c == nil || s.latch == nil {
		return ErrNoTransport
	}
	return s.latch.Out(gpio.Low)
}

func (s *spiSink) Send(p []byte) error {
	if err := s.latch.Out(gpio.Low); err != nil {
		return err
	}
	if err := s.c.Tx(p, nil); err != nil {
		return err
	}
	return s.latch.Out(gpio.High)
}

func (s *spiSink) Halt() error {
	if err := s.latch.Out(gpio.Low); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

func (s *spiSink) String() string {
	return fmt.Sprintf("SPI{%s, latch=%s}", s.c, s.latch)
}

// simSink logs payloads instead of driving hardware.
type simSink struct {
	l *log.Logger
}

// Sim returns a Sink that logs every payload to l, for hosts without the display.
// A nil l logs through the standard logger.
func Sim(l *log.Logger) Sink {
	if l == nil {
		l = log.Default()
	}
	return &simSink{l: l}
}

func (s *simSink) Setup() error {
	s.l.Printf("setup")
	return nil
}

func (s *simSink) Send(p []byte) error {
	s.l.Printf("send % x", p)
	return nil
}

func (s *simSink) Halt() error {
	s.l.Printf("halt")
	return nil
}

func (s *simSink) String() string {
	return "Sim"
}
