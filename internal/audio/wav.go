package audio

import "encoding/binary"

// WAV container constants.
const (
	// WavHeaderSize is the size of a canonical PCM WAV header in bytes.
	WavHeaderSize = 44
	// wavFormatPCM is the fmt-chunk audio format code for uncompressed PCM.
	wavFormatPCM = 1
)

// EncodeWAV wraps 16-bit PCM samples in a canonical 44-byte RIFF/WAVE
// container. The output is byte-exact with the standard PCM WAV layout so
// any audio tool can open it.
func EncodeWAV(samples []int16, channels, sampleRate int) []byte {
	dataSize := len(samples) * BytesPerSample
	byteRate := sampleRate * channels * BytesPerSample
	blockAlign := channels * BytesPerSample

	out := make([]byte, WavHeaderSize+dataSize)

	// RIFF chunk
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataSize))
	copy(out[8:12], "WAVE")

	// fmt sub-chunk
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], wavFormatPCM)
	binary.LittleEndian.PutUint16(out[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], uint16(BitDepth))

	// data sub-chunk
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataSize))

	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[WavHeaderSize+i*BytesPerSample:], uint16(s))
	}
	return out
}
