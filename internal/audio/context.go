package audio

import (
	"io"
)

// Context abstracts the process-wide audio output device. It allows the
// playback controller to run against real hardware in production and a mock
// implementation in tests.
type Context interface {
	// NewPlayer creates a player that consumes raw PCM from r in the
	// context's sample format.
	NewPlayer(r io.Reader) (Player, error)

	// Suspend pauses the underlying output device.
	Suspend() error

	// Resume resumes the underlying output device if suspended.
	Resume() error

	// IsReady reports whether the context can create players.
	IsReady() bool

	// SampleRate returns the sample rate of the output device.
	SampleRate() int

	// ChannelCount returns the channel count of the output device.
	ChannelCount() int

	// Close releases the context. Players created from it become invalid.
	Close() error
}

// Player is a single playback handle created by a Context.
type Player interface {
	Play()
	Pause()
	IsPlaying() bool
	Close() error
}
