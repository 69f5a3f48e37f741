// Package sevenseg595 drives a multiplexed 7-segment display through 74HC595 shift
// registers, over bit-banged GPIO or a hardware SPI port.
//
// # Display Characteristics
//
// - 1 to 4 character positions (digits)
// - One position is lit at a time; the caller cycles through them fast enough for
// persistence of vision to show them all
// - Anti-ghosting retention keeps each glyph stable for a configurable duration
// (300µs by default) before the next position may be lit
// - Active-high or active-low position switches (transistors)
//
// # Hardware Connection
//
// Two daisy-chained registers: one register drives the segments, the other drives
// the position switches. Each position is assigned a bit (0-7) of the position byte:
//
//	Register Pin → System Pin
//	SER (14)     → SPI MOSI or any GPIO (data)
//	SRCLK (11)   → SPI SCLK or any GPIO (clock)
//	RCLK (12)    → any GPIO (latch)
//	QH' (9)      → SER of the second register
//
// A single register: the register drives the segments and each position switch has
// its own GPIO line, passed through Opts.PositionPins.
//
// # Basic Usage
//
//	package main
//
//	import (
//		"log"
//
//		"github.com/flavioheleno/sevenseg595"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		if _, err := host.Init(); err != nil {
//			log.Fatal(err)
//		}
//
//		// Open the default SPI bus, latch on GPIO25
//		dev, err := sevenseg595.OpenSPI("", gpioreg.ByName("GPIO25"), &sevenseg595.Opts{
//			Order:     sevenseg595.PositionByteFirst,
//			Switch:    sevenseg595.ActiveHigh,
//			Positions: []int{0, 1, 2, 3},
//			Retention: sevenseg595.DefaultRetention,
//		})
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer dev.Halt()
//
//		dev.Print("12.34")
//		for {
//			// Never blocks: declines with Retaining until the next position is due.
//			if err := dev.OutputAll(); err != nil {
//				log.Fatal(err)
//			}
//		}
//	}
//
// # Retention
//
// Every output first latches a blank frame, then the real one. After that the glyph
// is retained: Output returns Retaining for any request that is not for the next
// active position (ascending, wrapping around, unassigned positions skipped) or that
// comes before the retention duration has elapsed. Retaining is not an error, keep
// calling with the same arguments. The first output after Configure always goes
// through.
//
// Retention is measured with a 32-bit microsecond counter which is allowed to wrap;
// durations are limited to retention.MaxDuration.
//
// # Configuration Errors
//
// Configure validates all options before touching the hardware. If they are
// invalid, the error is remembered and returned by every later call until a valid
// configuration is applied. Use Err to check the state before entering the polling
// loop.
//
// # Concurrency
//
// A Dev must not be used from several goroutines at once. Separate Dev values are
// fully independent.
package sevenseg595
