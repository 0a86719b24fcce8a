// Package studio is the application service: it drives the entity store,
// narration builder, generation client and playback controller the way the
// editing surface does, and owns the per-chapter narration busy flags.
package studio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"storystudio/internal/audio"
	"storystudio/internal/book"
	"storystudio/internal/export"
	"storystudio/internal/generation"
	"storystudio/internal/narration"
	"storystudio/internal/store"
)

var (
	ErrNoActiveBook        = errors.New("no active book")
	ErrNarrationBusy       = errors.New("narration already generating for chapter")
	ErrNoNarration         = errors.New("chapter has no narration audio")
	ErrNotSynthesized      = errors.New("chapter audio is a user recording")
	ErrPlaybackUnavailable = errors.New("playback unavailable")
)

// Studio coordinates one user session worth of editing state.
type Studio struct {
	store      *store.Store
	gen        generation.Service
	controller *audio.Controller
	logger     *log.Logger

	mu       sync.Mutex
	busy     map[chapterKey]bool
	playlist *playlist
}

type chapterKey struct {
	bookID  string
	chapter int
}

// New wires a studio over an opened store. controller may be nil for
// headless use; generation and export still work, playback does not.
func New(st *store.Store, gen generation.Service, controller *audio.Controller, logger *log.Logger) *Studio {
	if logger == nil {
		logger = log.Default()
	}
	return &Studio{
		store:      st,
		gen:        gen,
		controller: controller,
		logger:     logger,
		busy:       make(map[chapterKey]bool),
	}
}

// NewDraft creates a fresh draft book and adds it to the collection.
func (s *Studio) NewDraft(description string) (*book.Book, error) {
	b := book.NewDraft(description)
	if err := s.store.Add(b); err != nil {
		return nil, err
	}
	return b, nil
}

// EditChapterContent rewrites a chapter's prose. Any existing narration for
// that chapter is discarded with the edit.
func (s *Studio) EditChapterContent(chapterIdx int, content string) error {
	b := s.store.ActiveBook()
	if b == nil {
		return ErrNoActiveBook
	}
	if err := b.ApplyChapterEdit(chapterIdx, book.ChapterEdit{Content: &content}); err != nil {
		return err
	}
	return s.store.Update(b)
}

// GenerateSingleNarration narrates a chapter with one voice.
func (s *Studio) GenerateSingleNarration(ctx context.Context, chapterIdx int, voice narration.Voice, tone string) error {
	b := s.store.ActiveBook()
	if b == nil {
		return ErrNoActiveBook
	}
	if chapterIdx < 0 || chapterIdx >= len(b.Chapters) {
		return book.ErrChapterIndex
	}
	req, err := narration.BuildSingle(b.Chapters[chapterIdx].Content, voice, tone)
	if err != nil {
		return err
	}
	return s.generate(ctx, b, chapterIdx, req)
}

// GenerateMultiNarration narrates a chapter as a multi-speaker performance.
func (s *Studio) GenerateMultiNarration(ctx context.Context, chapterIdx int, roster *narration.Roster) error {
	b := s.store.ActiveBook()
	if b == nil {
		return ErrNoActiveBook
	}
	if chapterIdx < 0 || chapterIdx >= len(b.Chapters) {
		return book.ErrChapterIndex
	}
	req, err := narration.BuildMulti(b.Chapters[chapterIdx].Content, roster)
	if err != nil {
		return err
	}
	return s.generate(ctx, b, chapterIdx, req)
}

// generate runs the narration pipeline for one chapter. A second call for
// the same chapter while one is in flight is rejected; nothing is committed
// on failure.
func (s *Studio) generate(ctx context.Context, b *book.Book, chapterIdx int, req narration.Request) error {
	key := chapterKey{bookID: b.ID, chapter: chapterIdx}

	s.mu.Lock()
	if s.busy[key] {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrNarrationBusy, chapterIdx)
	}
	s.busy[key] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.busy, key)
		s.mu.Unlock()
	}()

	encoded, err := s.gen.GenerateNarration(ctx, req)
	if err != nil {
		s.logger.Error("narration generation failed", "book", b.ID, "chapter", chapterIdx, "err", err)
		return err
	}
	pcm, err := audio.DecodeBase64(encoded)
	if err != nil {
		return err
	}
	if err := audio.ValidatePCM(pcm, audio.SynthChannels); err != nil {
		return err
	}

	if err := b.SetChapterAudio(chapterIdx, book.SynthesizedAudio{Data: pcm}); err != nil {
		return err
	}
	return s.store.Update(b)
}

// IsGenerating reports whether a narration request is in flight for the
// chapter of the active book.
func (s *Studio) IsGenerating(chapterIdx int) bool {
	b := s.store.ActiveBook()
	if b == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy[chapterKey{bookID: b.ID, chapter: chapterIdx}]
}

// PlayChapter starts playback of whatever audio the chapter holds, either
// synthesized PCM or a user recording.
func (s *Studio) PlayChapter(chapterIdx int, onEnded func()) error {
	b := s.store.ActiveBook()
	if b == nil {
		return ErrNoActiveBook
	}
	if chapterIdx < 0 || chapterIdx >= len(b.Chapters) {
		return book.ErrChapterIndex
	}
	if s.controller == nil {
		return ErrPlaybackUnavailable
	}

	switch a := b.Chapters[chapterIdx].Audio.(type) {
	case nil:
		return ErrNoNarration
	case book.SynthesizedAudio:
		return s.controller.Play(a.Data, onEnded, "")
	case book.RecordedAudio:
		return s.controller.Play(a.Data, onEnded, a.MimeType)
	default:
		return ErrNoNarration
	}
}

// StopPlayback halts any current playback, including a running book
// playlist. Safe to call at any time.
func (s *Studio) StopPlayback() {
	s.mu.Lock()
	if s.playlist != nil {
		s.playlist.stopped = true
		s.playlist = nil
	}
	s.mu.Unlock()
	if s.controller != nil {
		s.controller.Stop()
	}
}

// ExportChapterNarration writes the chapter's synthesized narration as a
// WAV file under dir and returns the written path. User recordings are not
// exportable this way.
func (s *Studio) ExportChapterNarration(chapterIdx int, dir string) (string, error) {
	b := s.store.ActiveBook()
	if b == nil {
		return "", ErrNoActiveBook
	}
	if chapterIdx < 0 || chapterIdx >= len(b.Chapters) {
		return "", book.ErrChapterIndex
	}

	ch := b.Chapters[chapterIdx]
	switch a := ch.Audio.(type) {
	case nil:
		return "", ErrNoNarration
	case book.SynthesizedAudio:
		return export.WriteNarration(dir, a.Data, b.Title, chapterIdx+1, ch.Title)
	default:
		return "", ErrNotSynthesized
	}
}

// AttachRecording stores a user-recorded narration on the chapter.
func (s *Studio) AttachRecording(chapterIdx int, data []byte, mimeType string) error {
	b := s.store.ActiveBook()
	if b == nil {
		return ErrNoActiveBook
	}
	if err := b.SetChapterAudio(chapterIdx, book.RecordedAudio{Data: data, MimeType: mimeType}); err != nil {
		return err
	}
	return s.store.Update(b)
}
