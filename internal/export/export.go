// Package export writes chapter narrations out as WAV files.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"storystudio/internal/audio"
)

var ErrNoAudio = errors.New("chapter has no synthesized narration")

// SanitizeTitle folds a display title into a filename-safe slug: every run
// character outside [a-z0-9] becomes an underscore, then lowercased.
func SanitizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// NarrationFilename names a chapter narration download. chapterNum is
// 1-based.
func NarrationFilename(bookTitle string, chapterNum int, chapterTitle string) string {
	return fmt.Sprintf("%s_cap%d_%s.wav", SanitizeTitle(bookTitle), chapterNum, SanitizeTitle(chapterTitle))
}

// WriteNarration wraps raw synthesized PCM in a WAV container and writes it
// under dir, returning the full path. The PCM must already be in the
// synthesis format (24000 Hz mono s16le).
func WriteNarration(dir string, pcm []byte, bookTitle string, chapterNum int, chapterTitle string) (string, error) {
	if len(pcm) == 0 {
		return "", ErrNoAudio
	}
	if err := audio.ValidatePCM(pcm, audio.SynthChannels); err != nil {
		return "", err
	}

	samples := audio.BytesToSamples(pcm)
	wav := audio.EncodeWAV(samples, audio.SynthChannels, audio.SynthSampleRate)

	path := filepath.Join(dir, NarrationFilename(bookTitle, chapterNum, chapterTitle))
	if err := os.WriteFile(path, wav, 0o644); err != nil {
		return "", fmt.Errorf("writing narration: %w", err)
	}
	return path, nil
}
