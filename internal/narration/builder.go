package narration

import (
	"fmt"
	"strings"
)

// Mode selects between single-voice and multi-voice narration.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// Request is a validated narration request ready for dispatch to the
// generation service. The service answers with base64-encoded raw PCM that
// must go through the audio codec before playback or export.
type Request struct {
	Mode Mode   `json:"mode"`
	Text string `json:"text"`

	// Single-voice fields
	Voice Voice  `json:"voice,omitempty"`
	Tone  string `json:"tone,omitempty"`

	// Multi-voice fields
	Speakers []SpeakerConfig `json:"speakers,omitempty"`
}

// BuildSingle assembles a single-voice request. Only non-empty text is
// required; the tone label is free-form.
func BuildSingle(text string, voice Voice, tone string) (Request, error) {
	if strings.TrimSpace(text) == "" {
		return Request{}, fmt.Errorf("%w: %w", ErrValidation, ErrEmptyText)
	}
	if !IsValidVoice(voice) {
		return Request{}, fmt.Errorf("%w: %w: %q", ErrValidation, ErrUnknownVoice, voice)
	}
	return Request{Mode: ModeSingle, Text: text, Voice: voice, Tone: tone}, nil
}

// BuildMulti assembles a multi-voice request mapping every roster entry to
// its voice. A roster with fewer than 2 speakers is rejected: multi-voice
// narration is meaningless with only one voice.
func BuildMulti(text string, roster *Roster) (Request, error) {
	if strings.TrimSpace(text) == "" {
		return Request{}, fmt.Errorf("%w: %w", ErrValidation, ErrEmptyText)
	}
	if roster == nil || roster.Len() < 2 {
		return Request{}, fmt.Errorf("%w: %w", ErrValidation, ErrTooFewSpeakers)
	}
	return Request{Mode: ModeMulti, Text: text, Speakers: roster.Speakers()}, nil
}
