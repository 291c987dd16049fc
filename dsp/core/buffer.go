package core

// NewChannels allocates a de-interleaved buffer with one slice per channel.
func NewChannels(channels, frames int) [][]float32 {
	if channels <= 0 {
		return nil
	}
	if frames < 0 {
		frames = 0
	}

	backing := make([]float32, channels*frames)
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = backing[ch*frames : (ch+1)*frames : (ch+1)*frames]
	}
	return out
}

// EnsureChannels returns a buffer with the requested shape, reusing bufs
// when its channel count matches and every channel has enough capacity.
func EnsureChannels(bufs [][]float32, channels, frames int) [][]float32 {
	if len(bufs) != channels {
		return NewChannels(channels, frames)
	}
	for _, ch := range bufs {
		if cap(ch) < frames {
			return NewChannels(channels, frames)
		}
	}
	for i := range bufs {
		bufs[i] = bufs[i][:frames]
	}
	return bufs
}

// ZeroChannels clears the first frames samples of every channel.
func ZeroChannels(bufs [][]float32, frames int) {
	for _, ch := range bufs {
		n := min(frames, len(ch))
		clear(ch[:n])
	}
}

// Deinterleave splits interleaved samples into per-channel slices.
// A trailing partial frame is dropped.
func Deinterleave(interleaved []float32, channels int) [][]float32 {
	if channels <= 0 {
		return nil
	}

	frames := len(interleaved) / channels
	out := NewChannels(channels, frames)
	for i := range frames {
		base := i * channels
		for ch := range channels {
			out[ch][i] = interleaved[base+ch]
		}
	}
	return out
}

// Interleave merges per-channel slices into one interleaved slice. The
// shortest channel determines the frame count.
func Interleave(bufs [][]float32) []float32 {
	if len(bufs) == 0 {
		return nil
	}

	frames := len(bufs[0])
	for _, ch := range bufs[1:] {
		frames = min(frames, len(ch))
	}

	channels := len(bufs)
	out := make([]float32, frames*channels)
	for i := range frames {
		for ch := range channels {
			out[i*channels+ch] = bufs[ch][i]
		}
	}
	return out
}
