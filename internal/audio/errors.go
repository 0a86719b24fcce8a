package audio

import "errors"

// Common errors for the audio subsystem.
var (
	// Codec errors
	ErrDecode        = errors.New("malformed base64 audio payload")
	ErrFormat        = errors.New("invalid PCM format")
	ErrEmptyAudio    = errors.New("empty audio data")
	ErrUnsupported   = errors.New("unsupported audio container")
	ErrInvalidRate   = errors.New("invalid sample rate")
	ErrInvalidChans  = errors.New("invalid number of channels")

	// Playback errors
	ErrContextNotReady = errors.New("audio context is not ready")
	ErrContextClosed   = errors.New("audio context has been closed")
)
