package narration

import (
	"errors"
	"testing"
)

func TestSeedRoster_PrependsDefaultNarrator(t *testing.T) {
	roster := SeedRoster([]string{"Ana", "Beto"})

	speakers := roster.Speakers()
	if len(speakers) != 3 {
		t.Fatalf("roster length: got %d, want 3", len(speakers))
	}
	if speakers[0].Name != "Narrador" {
		t.Errorf("first speaker: got %q, want Narrador", speakers[0].Name)
	}
	if speakers[1].Name != "Ana" || speakers[2].Name != "Beto" {
		t.Errorf("character order not preserved: %v", speakers)
	}
}

func TestSeedRoster_RoundRobinVoices(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E", "F", "G"}
	roster := SeedRoster(names)

	speakers := roster.Speakers()
	// speakers[0] is the prepended narrator; characters start at index 1.
	for i := range names {
		want := Voices[i%len(Voices)]
		if got := speakers[i+1].Voice; got != want {
			t.Errorf("character %d voice: got %q, want %q", i, got, want)
		}
	}
}

func TestSeedRoster_ExistingNarratorNotDuplicated(t *testing.T) {
	tests := []string{"Narrador", "narrador", "NARRADOR", "NaRrAdOr"}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			roster := SeedRoster([]string{"Ana", name})
			speakers := roster.Speakers()
			if len(speakers) != 2 {
				t.Fatalf("roster length: got %d, want 2", len(speakers))
			}
			if speakers[0].Name != "Ana" {
				t.Errorf("seeded order changed: %v", speakers)
			}
		})
	}
}

func TestSeedRoster_NoCharacters(t *testing.T) {
	roster := SeedRoster(nil)
	if roster.Len() != 1 {
		t.Fatalf("roster length: got %d, want 1", roster.Len())
	}
	if roster.Speakers()[0].Name != "Narrador" {
		t.Errorf("lone entry should be the default narrator")
	}
}

func TestRoster_AddRejectsDuplicates(t *testing.T) {
	roster := SeedRoster([]string{"Ana"})
	before := roster.Len()

	err := roster.Add("Ana", VoiceKore)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
	if roster.Len() != before {
		t.Errorf("roster length changed on rejected add: %d -> %d", before, roster.Len())
	}
}

func TestRoster_AddIsCaseSensitive(t *testing.T) {
	roster := NewRoster()
	if err := roster.Add("Ana", VoiceKore); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	// Different case is a different speaker.
	if err := roster.Add("ana", VoicePuck); err != nil {
		t.Fatalf("case-variant add rejected: %v", err)
	}
	if roster.Len() != 2 {
		t.Errorf("roster length: got %d, want 2", roster.Len())
	}
}

func TestRoster_AddValidation(t *testing.T) {
	roster := NewRoster()

	if err := roster.Add("", VoiceKore); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	if err := roster.Add("   ", VoiceKore); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName for blank name, got %v", err)
	}
	if err := roster.Add("Ana", Voice("Sauron")); !errors.Is(err, ErrUnknownVoice) {
		t.Errorf("expected ErrUnknownVoice, got %v", err)
	}
}

func TestRoster_Remove(t *testing.T) {
	roster := SeedRoster([]string{"Ana", "Beto"})

	roster.Remove("Ana")
	if roster.Len() != 2 {
		t.Errorf("roster length after remove: got %d, want 2", roster.Len())
	}
	for _, s := range roster.Speakers() {
		if s.Name == "Ana" {
			t.Error("removed speaker still present")
		}
	}

	// Removing an absent or case-mismatched name is a no-op.
	roster.Remove("beto")
	roster.Remove("nobody")
	if roster.Len() != 2 {
		t.Errorf("no-op removes changed length: got %d, want 2", roster.Len())
	}
}

func TestBuildMulti_RequiresTwoSpeakers(t *testing.T) {
	roster := NewRoster()
	_ = roster.Add("Narrador", VoicePuck)

	_, err := BuildMulti("Era uma vez...", roster)
	if !errors.Is(err, ErrTooFewSpeakers) {
		t.Fatalf("expected ErrTooFewSpeakers, got %v", err)
	}

	_ = roster.Add("Ana", VoiceKore)
	req, err := BuildMulti("Era uma vez...", roster)
	if err != nil {
		t.Fatalf("BuildMulti failed with 2 speakers: %v", err)
	}
	if req.Mode != ModeMulti || len(req.Speakers) != 2 {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestBuildMulti_EmptyText(t *testing.T) {
	roster := SeedRoster([]string{"Ana", "Beto"})
	if _, err := BuildMulti("  ", roster); !errors.Is(err, ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}

func TestBuildSingle(t *testing.T) {
	req, err := BuildSingle("Era uma vez...", VoiceZephyr, "Misterioso")
	if err != nil {
		t.Fatalf("BuildSingle failed: %v", err)
	}
	if req.Mode != ModeSingle || req.Voice != VoiceZephyr || req.Tone != "Misterioso" {
		t.Errorf("unexpected request: %+v", req)
	}

	if _, err := BuildSingle("", VoiceZephyr, "Neutro"); !errors.Is(err, ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
	if _, err := BuildSingle("texto", Voice("Gollum"), "Neutro"); !errors.Is(err, ErrUnknownVoice) {
		t.Errorf("expected ErrUnknownVoice, got %v", err)
	}
}
