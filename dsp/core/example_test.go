package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-eqfilter/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(48000),
		core.WithBlockSize(256),
		core.WithChannels(1),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d channels=%d\n", cfg.SampleRate, cfg.BlockSize, cfg.Channels)

	// Output:
	// sampleRate=48000 blockSize=256 channels=1
}

func ExampleDeinterleave() {
	bufs := core.Deinterleave([]float32{1, 10, 2, 20, 3, 30}, 2)
	fmt.Println(bufs[0], bufs[1])
	fmt.Println(core.Interleave(bufs))

	// Output:
	// [1 2 3] [10 20 30]
	// [1 10 2 20 3 30]
}
