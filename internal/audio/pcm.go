package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"
)

// Audio format constants for synthesized narration.
// The generation vendor returns raw signed 16-bit little-endian PCM at a
// fixed rate, with no container around it.
const (
	// SynthSampleRate is the sample rate of vendor-synthesized narration in Hz.
	SynthSampleRate = 24000
	// SynthChannels is the channel count of synthesized narration (mono).
	SynthChannels = 1
	// BitDepth is the bit depth per sample (16-bit).
	BitDepth = 16
	// BytesPerSample is the number of bytes per single-channel sample.
	BytesPerSample = BitDepth / 8
)

// DecodeBase64 decodes a base64 transport payload into raw bytes.
func DecodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return data, nil
}

// ValidatePCM checks that raw PCM data is aligned to whole 16-bit frames
// for the given channel count.
func ValidatePCM(data []byte, channels int) error {
	if channels < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidChans, channels)
	}
	if len(data) == 0 {
		return ErrEmptyAudio
	}
	frameSize := BytesPerSample * channels
	if len(data)%frameSize != 0 {
		return fmt.Errorf("%w: length %d is not aligned to %d-byte frames",
			ErrFormat, len(data), frameSize)
	}
	return nil
}

// Buffer holds de-interleaved floating-point samples ready for playback,
// one slice per channel, each sample normalized to [-1.0, 1.0].
type Buffer struct {
	Channels   [][]float64
	SampleRate int
}

// FrameCount returns the number of frames per channel.
func (b *Buffer) FrameCount() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the playback duration of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate == 0 {
		return 0
	}
	return time.Duration(b.FrameCount()) * time.Second / time.Duration(b.SampleRate)
}

// PCMToBuffer reinterprets raw bytes as signed 16-bit little-endian samples,
// de-interleaves them by channel and normalizes each sample by 1/32768.
func PCMToBuffer(data []byte, sampleRate, channels int) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRate, sampleRate)
	}
	if err := ValidatePCM(data, channels); err != nil {
		return nil, err
	}

	samples := BytesToSamples(data)
	frameCount := len(samples) / channels

	buf := &Buffer{
		Channels:   make([][]float64, channels),
		SampleRate: sampleRate,
	}
	for ch := 0; ch < channels; ch++ {
		channelData := make([]float64, frameCount)
		for i := 0; i < frameCount; i++ {
			channelData[i] = float64(samples[i*channels+ch]) / 32768.0
		}
		buf.Channels[ch] = channelData
	}
	return buf, nil
}

// BytesToSamples converts little-endian PCM bytes into int16 samples.
// Trailing odd bytes are ignored; callers wanting strict alignment should
// run ValidatePCM first.
func BytesToSamples(data []byte) []int16 {
	samples := make([]int16, len(data)/BytesPerSample)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*BytesPerSample:]))
	}
	return samples
}

// SamplesToBytes converts int16 samples into little-endian PCM bytes.
func SamplesToBytes(samples []int16) []byte {
	data := make([]byte, len(samples)*BytesPerSample)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*BytesPerSample:], uint16(s))
	}
	return data
}

// Duration calculates the duration of raw PCM data.
func Duration(dataLen, sampleRate, channels int) time.Duration {
	if sampleRate <= 0 || channels <= 0 {
		return 0
	}
	frames := dataLen / (BytesPerSample * channels)
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}
