package book

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Chapter errors.
var (
	ErrChapterIndex = errors.New("chapter index out of range")
)

// AudioData is the narration payload attached to a chapter. It is a sealed
// variant: either SynthesizedAudio (raw vendor PCM) or RecordedAudio (a
// user recording in a named container). The variant decides which decode
// path plays the audio.
type AudioData interface {
	audioData()
	// Bytes returns the raw payload.
	Bytes() []byte
}

// SynthesizedAudio is AI-generated narration: raw 16-bit PCM at 24000 Hz
// mono, no container.
type SynthesizedAudio struct {
	Data []byte
}

func (SynthesizedAudio) audioData()      {}
func (a SynthesizedAudio) Bytes() []byte { return a.Data }

// RecordedAudio is a user recording with an explicit container mime type.
type RecordedAudio struct {
	Data     []byte
	MimeType string
}

func (RecordedAudio) audioData()      {}
func (a RecordedAudio) Bytes() []byte { return a.Data }

// Chapter is one ordered unit of a book's manuscript. Chapters are
// identified by their position in the book's chapter list.
type Chapter struct {
	Title           string    `json:"title"`
	Summary         string    `json:"summary"`
	Content         string    `json:"content"`
	TargetWordCount int       `json:"targetWordCount,omitempty"`
	Audio           AudioData `json:"-"`
}

// audioEnvelope is the persisted wire shape of AudioData: a present mime
// type means a user recording, its absence means vendor PCM.
type audioEnvelope struct {
	Data     []byte `json:"data"`
	MimeType string `json:"mimeType,omitempty"`
}

type chapterJSON struct {
	Title           string         `json:"title"`
	Summary         string         `json:"summary"`
	Content         string         `json:"content"`
	TargetWordCount int            `json:"targetWordCount,omitempty"`
	AudioData       *audioEnvelope `json:"audioData,omitempty"`
}

// MarshalJSON encodes the audio variant into the mime-presence envelope.
func (c Chapter) MarshalJSON() ([]byte, error) {
	out := chapterJSON{
		Title:           c.Title,
		Summary:         c.Summary,
		Content:         c.Content,
		TargetWordCount: c.TargetWordCount,
	}
	switch a := c.Audio.(type) {
	case nil:
	case SynthesizedAudio:
		out.AudioData = &audioEnvelope{Data: a.Data}
	case RecordedAudio:
		out.AudioData = &audioEnvelope{Data: a.Data, MimeType: a.MimeType}
	default:
		return nil, fmt.Errorf("unknown audio variant %T", c.Audio)
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the audio variant from the envelope.
func (c *Chapter) UnmarshalJSON(data []byte) error {
	var in chapterJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	c.Title = in.Title
	c.Summary = in.Summary
	c.Content = in.Content
	c.TargetWordCount = in.TargetWordCount
	c.Audio = nil
	if in.AudioData != nil {
		if in.AudioData.MimeType != "" {
			c.Audio = RecordedAudio{Data: in.AudioData.Data, MimeType: in.AudioData.MimeType}
		} else {
			c.Audio = SynthesizedAudio{Data: in.AudioData.Data}
		}
	}
	return nil
}

// ChapterEdit is a command describing the chapter fields to change. Nil
// fields are left untouched.
type ChapterEdit struct {
	Title           *string
	Summary         *string
	Content         *string
	TargetWordCount *int
}

// ApplyChapterEdit applies an edit command to the chapter at index i.
// Editing Content always invalidates any previously generated narration in
// the same update: narration is derived from text and goes stale on edit.
func (b *Book) ApplyChapterEdit(i int, edit ChapterEdit) error {
	if i < 0 || i >= len(b.Chapters) {
		return fmt.Errorf("%w: %d of %d", ErrChapterIndex, i, len(b.Chapters))
	}
	ch := &b.Chapters[i]
	if edit.Title != nil {
		ch.Title = *edit.Title
	}
	if edit.Summary != nil {
		ch.Summary = *edit.Summary
	}
	if edit.Content != nil {
		ch.Content = *edit.Content
		ch.Audio = nil
	}
	if edit.TargetWordCount != nil {
		ch.TargetWordCount = *edit.TargetWordCount
	}
	return nil
}

// SetChapterAudio attaches a narration payload to the chapter at index i.
func (b *Book) SetChapterAudio(i int, audio AudioData) error {
	if i < 0 || i >= len(b.Chapters) {
		return fmt.Errorf("%w: %d of %d", ErrChapterIndex, i, len(b.Chapters))
	}
	b.Chapters[i].Audio = audio
	return nil
}

// AppendChapter adds a chapter to the end of the manuscript.
func (b *Book) AppendChapter(ch Chapter) {
	b.Chapters = append(b.Chapters, ch)
}
