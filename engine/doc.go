// Package engine hosts a pull-based audio graph.
//
// Nodes are connected upstream-to-downstream with Engine.Connect and pulled
// from the output node once per render cycle: every node renders its inputs
// into the buffers it is handed and then processes them in place. Nodes are
// identified by pointer, so values passed to the engine must be comparable.
//
// Typical use:
//
//	eng, _ := engine.New(audiounit.Format{SampleRate: 48000, Channels: 2})
//	src := engine.NewToneSource(1000, 0.5)
//	mix := engine.NewMixer()
//	_ = eng.Connect(src, mix)
//	eng.SetOutput(mix)
//	_ = eng.Start()
//	out, _ := eng.Render(512)
package engine
