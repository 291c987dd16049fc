package design_test

import (
	"fmt"

	"github.com/cwbudde/algo-eqfilter/dsp/filter/design"
)

func ExampleEqualizerBand() {
	c := design.EqualizerBand(1000, 100, 10, 48000)

	fmt.Printf("20 Hz:   %.2f\n", c.Magnitude(20, 48000))
	fmt.Printf("1000 Hz: %.2f\n", c.Magnitude(1000, 48000))
	fmt.Printf("Q:       %.1f\n", design.BandwidthToQ(1000, 100))
	// Output:
	// 20 Hz:   1.00
	// 1000 Hz: 10.00
	// Q:       10.0
}
