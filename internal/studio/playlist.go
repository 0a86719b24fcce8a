package studio

import (
	"storystudio/internal/book"
)

// playlist tracks one sequential playback run. Starting a new run or
// stopping playback detaches the old one so stale onEnded callbacks cannot
// advance it.
type playlist struct {
	stopped bool
}

// PlayBook plays every narrated chapter from fromIdx to the end of the
// active book, in order, skipping chapters without audio. onChapter is
// called as each chapter starts, onDone once after the last one finishes.
func (s *Studio) PlayBook(fromIdx int, onChapter func(int), onDone func()) error {
	b := s.store.ActiveBook()
	if b == nil {
		return ErrNoActiveBook
	}
	if fromIdx < 0 || fromIdx >= len(b.Chapters) {
		return book.ErrChapterIndex
	}

	narrated := false
	for i := fromIdx; i < len(b.Chapters); i++ {
		if b.Chapters[i].Audio != nil {
			narrated = true
			break
		}
	}
	if !narrated {
		return ErrNoNarration
	}

	pl := &playlist{}
	s.mu.Lock()
	s.playlist = pl
	s.mu.Unlock()

	return s.playFrom(pl, fromIdx, onChapter, onDone)
}

func (s *Studio) playFrom(pl *playlist, idx int, onChapter func(int), onDone func()) error {
	b := s.store.ActiveBook()
	if b == nil {
		return ErrNoActiveBook
	}

	for ; idx < len(b.Chapters); idx++ {
		if b.Chapters[idx].Audio == nil {
			continue
		}
		if onChapter != nil {
			onChapter(idx)
		}
		next := idx + 1
		return s.PlayChapter(idx, func() {
			s.mu.Lock()
			detached := pl.stopped || s.playlist != pl
			s.mu.Unlock()
			if detached {
				return
			}
			if err := s.playFrom(pl, next, onChapter, onDone); err != nil {
				s.logger.Error("book playback stopped", "chapter", next, "err", err)
			}
		})
	}

	s.mu.Lock()
	if s.playlist == pl {
		s.playlist = nil
	}
	s.mu.Unlock()
	if onDone != nil {
		onDone()
	}
	return nil
}
