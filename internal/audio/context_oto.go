//go:build !nocgo
// +build !nocgo

package audio

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// OtoContext implements Context on top of the oto audio library.
type OtoContext struct {
	context *oto.Context
	ready   bool
}

// NewOtoContext opens the audio device for synthesized-narration playback
// (24000 Hz mono, signed 16-bit little-endian) and waits for it to become
// ready.
func NewOtoContext() (*OtoContext, error) {
	options := &oto.NewContextOptions{
		SampleRate:   SynthSampleRate,
		ChannelCount: SynthChannels,
		Format:       oto.FormatSignedInt16LE,
	}

	log.Debug("initializing audio context",
		"sample_rate", options.SampleRate,
		"channels", options.ChannelCount)

	context, readyChan, err := oto.NewContext(options)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio context: %w", err)
	}

	select {
	case <-readyChan:
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("audio context initialization timeout")
	}

	return &OtoContext{context: context, ready: true}, nil
}

// NewPlayer creates a playback handle reading PCM from r.
func (oc *OtoContext) NewPlayer(r io.Reader) (Player, error) {
	if !oc.ready || oc.context == nil {
		return nil, ErrContextNotReady
	}
	return oc.context.NewPlayer(r), nil
}

// Suspend pauses the output device.
func (oc *OtoContext) Suspend() error {
	if !oc.ready {
		return ErrContextNotReady
	}
	return oc.context.Suspend()
}

// Resume resumes the output device if it was suspended.
func (oc *OtoContext) Resume() error {
	if !oc.ready {
		return ErrContextNotReady
	}
	return oc.context.Resume()
}

// IsReady reports whether the device accepts new players.
func (oc *OtoContext) IsReady() bool { return oc.ready }

// SampleRate returns the device sample rate.
func (oc *OtoContext) SampleRate() int { return SynthSampleRate }

// ChannelCount returns the device channel count.
func (oc *OtoContext) ChannelCount() int { return SynthChannels }

// Close marks the context as unusable. oto contexts have no close of their
// own; the device handle is reclaimed when garbage collected.
func (oc *OtoContext) Close() error {
	oc.ready = false
	oc.context = nil
	return nil
}
