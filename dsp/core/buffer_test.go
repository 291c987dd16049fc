package core

import "testing"

func TestNewChannelsShape(t *testing.T) {
	bufs := NewChannels(2, 16)
	if len(bufs) != 2 {
		t.Fatalf("channels = %d, want 2", len(bufs))
	}
	for ch, b := range bufs {
		if len(b) != 16 || cap(b) != 16 {
			t.Fatalf("channel %d: len=%d cap=%d, want 16/16", ch, len(b), cap(b))
		}
	}

	bufs[0] = append(bufs[0], 1)
	if bufs[1][0] != 0 {
		t.Fatal("append on channel 0 clobbered channel 1")
	}
}

func TestNewChannelsInvalid(t *testing.T) {
	if got := NewChannels(0, 8); got != nil {
		t.Fatalf("NewChannels(0, 8) = %v, want nil", got)
	}
	if got := NewChannels(1, -4); len(got[0]) != 0 {
		t.Fatalf("negative frames: len = %d, want 0", len(got[0]))
	}
}

func TestEnsureChannelsReuse(t *testing.T) {
	bufs := NewChannels(2, 32)
	bufs[0][0] = 1

	out := EnsureChannels(bufs, 2, 8)
	if len(out[0]) != 8 {
		t.Fatalf("len = %d, want 8", len(out[0]))
	}
	if out[0][0] != 1 {
		t.Fatal("expected backing storage to be reused")
	}

	grown := EnsureChannels(out, 2, 64)
	if len(grown[1]) != 64 {
		t.Fatalf("len = %d, want 64", len(grown[1]))
	}

	reshaped := EnsureChannels(out, 3, 8)
	if len(reshaped) != 3 {
		t.Fatalf("channels = %d, want 3", len(reshaped))
	}
}

func TestZeroChannels(t *testing.T) {
	dst := [][]float32{{1, 2, 3}, {4, 5, 6}}

	ZeroChannels(dst, 2)
	if dst[0][0] != 0 || dst[1][1] != 0 || dst[1][2] != 6 {
		t.Fatalf("unexpected dst after ZeroChannels: %v", dst)
	}
}

func TestInterleaveRoundTrip(t *testing.T) {
	interleaved := []float32{1, -1, 2, -2, 3, -3, 9}

	bufs := Deinterleave(interleaved, 2)
	if len(bufs[0]) != 3 {
		t.Fatalf("frames = %d, want 3 (partial frame dropped)", len(bufs[0]))
	}
	if bufs[1][2] != -3 {
		t.Fatalf("bufs[1][2] = %v, want -3", bufs[1][2])
	}

	back := Interleave(bufs)
	for i, v := range back {
		if v != interleaved[i] {
			t.Fatalf("index %d: got %v, want %v", i, v, interleaved[i])
		}
	}
}
