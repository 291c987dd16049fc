// Command eqfilter applies a peak/notch equalizer band to an audio file.
//
// Usage:
//
//	eqfilter [flags] -in input.wav -out output.wav
//	eqfilter [flags] -response
//
// Input may be WAV, AIFF, MP3 or Ogg Vorbis; output is PCM WAV. Gain is a
// linear factor: 4 boosts the band by 12 dB, 0.25 cuts it by 12 dB.
//
// Examples:
//
//	eqfilter -in voice.wav -out bright.wav -freq 3000 -bw 1500 -gain 2
//	eqfilter -in hum.wav -out clean.wav -presets eq.yaml -preset hum
//	eqfilter -response -freq 1000 -bw 200 -gain 0.1
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/cwbudde/algo-eqfilter/audiounit"
	"github.com/cwbudde/algo-eqfilter/dispatch"
	"github.com/cwbudde/algo-eqfilter/dsp/core"
	"github.com/cwbudde/algo-eqfilter/engine"
	"github.com/cwbudde/algo-eqfilter/internal/codec"
	"github.com/cwbudde/algo-eqfilter/measure/response"
	"github.com/cwbudde/algo-eqfilter/node/equalizer"
)

type options struct {
	in, out     string
	presets     string
	preset      string
	block       int
	bits        int
	rate        float64
	fftSize     int
	points      int
	showResp    bool
	logLevel    string
	settings    equalizer.Settings
	explicitSet map[string]bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "eqfilter: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	level, err := logrus.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	settings, err := resolveSettings(opts)
	if err != nil {
		return err
	}

	queue := dispatch.NewQueue(dispatch.WithLogger(logger))
	if err := queue.Start(); err != nil {
		return err
	}
	defer queue.Stop()

	if opts.showResp {
		return printResponse(stdout, opts, settings, queue, logger)
	}
	return render(opts, settings, queue, logger)
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("eqfilter", flag.ContinueOnError)
	fs.SetOutput(stderr)

	defaults := equalizer.DefaultSettings()
	opts := options{explicitSet: map[string]bool{}}

	fs.StringVar(&opts.in, "in", "", "input audio file (wav, aiff, mp3, ogg)")
	fs.StringVar(&opts.out, "out", "", "output WAV file")
	fs.Float64Var(&opts.settings.CenterFrequency, "freq", defaults.CenterFrequency, "center frequency in Hz")
	fs.Float64Var(&opts.settings.Bandwidth, "bw", defaults.Bandwidth, "bandwidth in Hz")
	fs.Float64Var(&opts.settings.Gain, "gain", defaults.Gain, "linear gain at the center frequency")
	fs.Float64Var(&opts.settings.RampDuration, "ramp", defaults.RampDuration, "parameter ramp duration in seconds")
	fs.StringVar(&opts.presets, "presets", "", "YAML preset file")
	fs.StringVar(&opts.preset, "preset", "", "preset name from -presets")
	fs.IntVar(&opts.block, "block", 512, "render block size in frames")
	fs.IntVar(&opts.bits, "bits", 16, "output bit depth (16 or 24)")
	fs.BoolVar(&opts.showResp, "response", false, "print the measured magnitude response instead of rendering")
	fs.Float64Var(&opts.rate, "rate", 48000, "sample rate for -response")
	fs.IntVar(&opts.fftSize, "fft", 1<<15, "FFT size for -response")
	fs.IntVar(&opts.points, "points", 31, "number of table rows for -response")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: eqfilter [flags] -in input -out output.wav\n\n")
		fmt.Fprintf(stderr, "Applies a peak/notch equalizer band. Supported inputs: %s\n\n",
			strings.Join(codec.Default.Extensions(), " "))
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	fs.Visit(func(f *flag.Flag) { opts.explicitSet[f.Name] = true })

	if opts.block <= 0 {
		return options{}, fmt.Errorf("-block must be > 0, got %d", opts.block)
	}
	if opts.preset != "" && opts.presets == "" {
		return options{}, errors.New("-preset requires -presets")
	}
	if !opts.showResp && (opts.in == "" || opts.out == "") {
		fs.Usage()
		return options{}, errors.New("-in and -out are required unless -response is set")
	}

	return opts, nil
}

// resolveSettings layers explicit flags over the selected preset over the
// defaults.
func resolveSettings(opts options) (equalizer.Settings, error) {
	s := equalizer.DefaultSettings()

	if opts.presets != "" {
		f, err := os.Open(opts.presets)
		if err != nil {
			return s, err
		}
		presets, err := equalizer.LoadPresets(f)
		err = multierr.Append(err, f.Close())
		if err != nil {
			return s, err
		}

		if opts.preset != "" {
			p, ok := presets[opts.preset]
			if !ok {
				return s, fmt.Errorf("preset %q not found in %s", opts.preset, opts.presets)
			}
			s = p
		}
	}

	if opts.explicitSet["freq"] {
		s.CenterFrequency = opts.settings.CenterFrequency
	}
	if opts.explicitSet["bw"] {
		s.Bandwidth = opts.settings.Bandwidth
	}
	if opts.explicitSet["gain"] {
		s.Gain = opts.settings.Gain
	}
	if opts.explicitSet["ramp"] {
		s.RampDuration = opts.settings.RampDuration
	}

	return s, s.Validate()
}

func newFilter(input engine.Node, s equalizer.Settings, q *dispatch.Queue, logger logrus.FieldLogger) (*equalizer.Filter, error) {
	f := equalizer.New(input,
		equalizer.WithSettings(s),
		equalizer.WithQueue(q),
		equalizer.WithLogger(logger),
	)
	if !f.Configured() {
		return nil, fmt.Errorf("equalizer component %s is not registered", audiounit.Default.Components())
	}
	f.Start()
	return f, nil
}

func render(opts options, s equalizer.Settings, q *dispatch.Queue, logger *logrus.Logger) (err error) {
	in, err := codec.DecodeFile(opts.in)
	if err != nil {
		return err
	}
	if len(in.Channels) == 0 || in.SampleRate <= 0 {
		return fmt.Errorf("%s: no audio", opts.in)
	}

	src := engine.NewBufferSource(in.Channels)
	filter, err := newFilter(src, s, q, logger)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, filter.Close()) }()

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(float64(in.SampleRate)),
		core.WithChannels(len(in.Channels)),
		core.WithBlockSize(opts.block),
	)

	reg := prometheus.NewRegistry()
	eng, err := engine.New(
		audiounit.Format{SampleRate: cfg.SampleRate, Channels: cfg.Channels},
		engine.WithLogger(logger),
		engine.WithRegisterer(reg),
	)
	if err != nil {
		return err
	}
	if err := eng.Connect(src, filter); err != nil {
		return err
	}
	if err := eng.SetOutput(filter); err != nil {
		return err
	}
	if err := eng.Start(); err != nil {
		return err
	}
	defer eng.Stop()

	frames := in.Frames()
	out := &codec.Audio{SampleRate: in.SampleRate, Channels: make([][]float32, len(in.Channels))}
	for ch := range out.Channels {
		out.Channels[ch] = make([]float32, frames)
	}

	for pos := 0; pos < frames; {
		n := min(cfg.BlockSize, frames-pos)
		bufs, err := eng.Render(n)
		if err != nil {
			return err
		}
		for ch := range out.Channels {
			copy(out.Channels[ch][pos:pos+n], bufs[ch][:n])
		}
		pos += n
	}

	if err := codec.WriteWAVFile(opts.out, out, opts.bits); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"in":       opts.in,
		"out":      opts.out,
		"frames":   frames,
		"cycles":   counterValue(reg, "eqfilter_engine_render_cycles_total"),
		"settings": fmt.Sprintf("%+v", s),
	}).Info("rendered")

	return nil
}

func printResponse(w io.Writer, opts options, s equalizer.Settings, q *dispatch.Queue, logger logrus.FieldLogger) (err error) {
	filter, err := newFilter(nil, s, q, logger)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, filter.Close()) }()

	if err := filter.Prepare(audiounit.Format{SampleRate: opts.rate, Channels: 1}); err != nil {
		return err
	}
	defer filter.Release()

	curve, err := response.Measure(filter, opts.rate, opts.fftSize)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "freq (Hz)\tgain (dB)\t")
	for _, p := range curve.Table(response.LogFrequencies(20, min(20000, opts.rate/2), opts.points)) {
		fmt.Fprintf(tw, "%.1f\t%.2f\t\n", p.Frequency, p.MagnitudeDB)
	}
	return tw.Flush()
}

func counterValue(g prometheus.Gatherer, name string) float64 {
	mfs, err := g.Gather()
	if err != nil {
		return 0
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			return m.GetCounter().GetValue()
		}
	}
	return 0
}
