package audio

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// ContainerDecoder decodes user-recorded audio containers into raw s16le
// mono PCM at SynthSampleRate, the format the playback context speaks.
type ContainerDecoder interface {
	Decode(data []byte, mimeType string) ([]byte, error)
}

// BeepDecoder implements ContainerDecoder using the beep codec packages.
type BeepDecoder struct{}

// Decode picks a codec by mime type, downmixes to mono and resamples to the
// synthesized-narration rate.
func (BeepDecoder) Decode(data []byte, mimeType string) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyAudio
	}

	rc := io.NopCloser(bytes.NewReader(data))

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	switch normalizeMime(mimeType) {
	case "audio/wav", "audio/x-wav", "audio/wave":
		streamer, format, err = wav.Decode(rc)
	case "audio/mpeg", "audio/mp3":
		streamer, format, err = mp3.Decode(rc)
	case "audio/ogg", "application/ogg", "audio/vorbis":
		streamer, format, err = vorbis.Decode(rc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, mimeType)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != beep.SampleRate(SynthSampleRate) {
		src = beep.Resample(4, format.SampleRate, beep.SampleRate(SynthSampleRate), streamer)
	}

	var out []byte
	frames := make([][2]float64, 512)
	for {
		n, ok := src.Stream(frames)
		for _, frame := range frames[:n] {
			// Downmix the stereo pair and quantize to s16le.
			v := (frame[0] + frame[1]) / 2
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			s := int16(v * 32767)
			out = append(out, byte(uint16(s)), byte(uint16(s)>>8))
		}
		if !ok {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: container held no samples", ErrDecode)
	}
	return out, nil
}

// normalizeMime lowercases a mime type and drops codec parameters, e.g.
// "audio/OGG;codecs=vorbis" -> "audio/ogg".
func normalizeMime(mimeType string) string {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = strings.TrimSpace(m[:i])
	}
	return m
}
