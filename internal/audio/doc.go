// Package audio provides the narration audio pipeline: base64/PCM decoding,
// WAV encoding, container decoding for user recordings, and single-slot
// playback on top of the oto/v3 library.
package audio
