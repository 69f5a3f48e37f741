package sevenseg595_test

import (
	"log"
	"os"

	"github.com/flavioheleno/sevenseg595"
)

func Example() {
	// Log payloads instead of driving hardware.
	sink := sevenseg595.Sim(log.New(os.Stdout, "", 0))

	dev, err := sevenseg595.New(sink, &sevenseg595.Opts{
		Order:     sevenseg595.PositionByteFirst,
		Switch:    sevenseg595.ActiveHigh,
		Positions: []int{0, 1},
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := dev.Print("4.2"); err != nil {
		log.Fatal(err)
	}
	// Without retention every position is latched on the first sweep.
	if err := dev.OutputAll(); err != nil {
		log.Fatal(err)
	}
	// Output:
	// setup
	// send 00 00
	// send 01 e6
	// send 00 00
	// send 02 5b
}
