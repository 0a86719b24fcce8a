// Package narration assembles and validates narration requests before they
// are dispatched to the generation service.
package narration

// Voice is a vendor prebuilt voice identifier.
type Voice string

// The fixed set of vendor voices available for narration.
const (
	VoicePuck   Voice = "Puck"
	VoiceKore   Voice = "Kore"
	VoiceCharon Voice = "Charon"
	VoiceFenrir Voice = "Fenrir"
	VoiceZephyr Voice = "Zephyr"
)

// Voices lists every available voice in presentation order. Round-robin
// roster seeding walks this slice.
var Voices = []Voice{VoicePuck, VoiceKore, VoiceCharon, VoiceFenrir, VoiceZephyr}

// IsValidVoice reports whether v is one of the vendor voices.
func IsValidVoice(v Voice) bool {
	for _, known := range Voices {
		if v == known {
			return true
		}
	}
	return false
}

// Tones lists the free-form tone labels offered for single-voice narration.
var Tones = []string{
	"Neutro", "Alegre", "Triste", "Emocional", "Épico", "Sussurrante",
	"Energético", "Calmo", "Misterioso", "Moderno", "Formal", "Antigo",
}

// DefaultSpeakerName is the name of the narrator entry every multi-voice
// roster must contain.
const DefaultSpeakerName = "Narrador"
