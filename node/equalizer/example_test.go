package equalizer_test

import (
	"fmt"

	"github.com/cwbudde/algo-eqfilter/audiounit"
	"github.com/cwbudde/algo-eqfilter/dispatch"
	"github.com/cwbudde/algo-eqfilter/engine"
	"github.com/cwbudde/algo-eqfilter/node/equalizer"
)

func ExampleFilter() {
	q := dispatch.NewQueue()
	_ = q.Start()
	defer q.Stop()

	tone := engine.NewToneSource(1000, 0.05)
	eq := equalizer.New(tone,
		equalizer.WithCenterFrequency(1000),
		equalizer.WithBandwidth(100),
		equalizer.WithGain(10),
		equalizer.WithQueue(q),
	)
	defer eq.Close()
	eq.Start()

	eng, _ := engine.New(audiounit.Format{SampleRate: 48000, Channels: 1})
	_ = eng.Connect(tone, eq)
	_ = eng.SetOutput(eq)
	_ = eng.Start()
	defer eng.Stop()

	var peak float32
	for range 20 {
		out, _ := eng.Render(480)
		peak = 0
		for _, v := range out[0] {
			peak = max(peak, v)
		}
	}
	fmt.Printf("peak %.2f\n", peak)
	// Output: peak 0.50
}
