package narration

import (
	"errors"
	"fmt"
	"strings"
)

// Roster errors.
var (
	ErrValidation     = errors.New("invalid narration input")
	ErrEmptyName      = errors.New("speaker name must not be empty")
	ErrDuplicateName  = errors.New("speaker name already in roster")
	ErrUnknownVoice   = errors.New("unknown voice id")
	ErrTooFewSpeakers = errors.New("multi-voice narration requires at least 2 speakers")
	ErrEmptyText      = errors.New("narration text must not be empty")
)

// SpeakerConfig assigns a vendor voice to a named speaker. Names are
// case-sensitive and unique within a roster.
type SpeakerConfig struct {
	Name  string `json:"name"`
	Voice Voice  `json:"voice"`
}

// Roster is the ordered set of voice assignments used for multi-voice
// narration.
type Roster struct {
	speakers []SpeakerConfig
}

// SeedRoster builds the initial roster for a book: one entry per character
// with voices assigned round-robin in character order, with the default
// narrator entry prepended unless a character already carries that name
// (case-insensitive match).
func SeedRoster(characterNames []string) *Roster {
	speakers := make([]SpeakerConfig, 0, len(characterNames)+1)
	for i, name := range characterNames {
		speakers = append(speakers, SpeakerConfig{
			Name:  name,
			Voice: Voices[i%len(Voices)],
		})
	}

	hasNarrator := false
	for _, s := range speakers {
		if strings.EqualFold(s.Name, DefaultSpeakerName) {
			hasNarrator = true
			break
		}
	}
	if !hasNarrator {
		speakers = append([]SpeakerConfig{{Name: DefaultSpeakerName, Voice: Voices[0]}}, speakers...)
	}

	return &Roster{speakers: speakers}
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{}
}

// Add appends a speaker. The name must be non-empty and not already present
// (case-sensitive), and the voice must be one of the vendor voices.
func (r *Roster) Add(name string, voice Voice) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyName)
	}
	for _, s := range r.speakers {
		if s.Name == name {
			return fmt.Errorf("%w: %w: %q", ErrValidation, ErrDuplicateName, name)
		}
	}
	if !IsValidVoice(voice) {
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrUnknownVoice, voice)
	}
	r.speakers = append(r.speakers, SpeakerConfig{Name: name, Voice: voice})
	return nil
}

// Remove deletes the entry with the exact given name. Removing an absent
// name is a no-op.
func (r *Roster) Remove(name string) {
	for i, s := range r.speakers {
		if s.Name == name {
			r.speakers = append(r.speakers[:i], r.speakers[i+1:]...)
			return
		}
	}
}

// Len returns the number of speakers in the roster.
func (r *Roster) Len() int { return len(r.speakers) }

// Speakers returns a copy of the roster entries in order.
func (r *Roster) Speakers() []SpeakerConfig {
	out := make([]SpeakerConfig, len(r.speakers))
	copy(out, r.speakers)
	return out
}
