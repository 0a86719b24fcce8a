//go:build nocgo
// +build nocgo

package audio

import (
	"io"
)

// Stub implementation for static analysis and builds without CGO.

// OtoContext stub for nocgo builds.
type OtoContext struct{}

// NewOtoContext always fails without CGO; playback needs the real device.
func NewOtoContext() (*OtoContext, error) {
	return nil, ErrUnsupported
}

func (oc *OtoContext) NewPlayer(io.Reader) (Player, error) {
	return nil, ErrContextNotReady
}

func (oc *OtoContext) Suspend() error { return ErrContextNotReady }

func (oc *OtoContext) Resume() error { return ErrContextNotReady }

func (oc *OtoContext) IsReady() bool { return false }

func (oc *OtoContext) SampleRate() int { return SynthSampleRate }

func (oc *OtoContext) ChannelCount() int { return SynthChannels }

func (oc *OtoContext) Close() error { return nil }
