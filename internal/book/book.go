// Package book defines the author-project entities and the command-style
// mutations that keep them consistent.
package book

import "github.com/google/uuid"

// Character is a named cast member of a book.
type Character struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// World holds the setting a book takes place in.
type World struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ConceptArt is one generated concept-art entry.
type ConceptArt struct {
	ID        string `json:"id"`
	Prompt    string `json:"prompt"`
	ImageData string `json:"imageData"` // base64
}

// MusicTrack is one generated soundtrack entry.
type MusicTrack struct {
	ID                string `json:"id"`
	Prompt            string `json:"prompt"`
	Genre             string `json:"genre"`
	DurationInSeconds int    `json:"durationInSeconds"`
}

// SoundEffect is one generated sound-effect entry.
type SoundEffect struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
}

// ImageLayer is image bytes plus their container type, used for uploaded
// cover layers.
type ImageLayer struct {
	Data     string `json:"data"` // base64
	MimeType string `json:"mimeType"`
}

// Book is an author's in-progress literary project and all its generated
// assets. Books are owned exclusively by the user that created them and are
// persisted as a whole collection per user.
type Book struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Author        string      `json:"author"`
	Genre         string      `json:"genre"`
	CoverArtStyle string      `json:"coverArtStyle"`
	Description   string      `json:"description"`
	Tags          []string    `json:"tags"`
	Characters    []Character `json:"characters"`
	World         World       `json:"world"`
	Chapters      []Chapter   `json:"chapters"`

	CoverImage      string      `json:"coverImage,omitempty"` // base64
	CoverBackground string      `json:"coverBackground,omitempty"`
	CoverForeground *ImageLayer `json:"coverForeground,omitempty"`
	LogoImage       string      `json:"logoImage,omitempty"`

	ConceptArt             []ConceptArt  `json:"conceptArt"`
	VideoURL               string        `json:"videoUrl,omitempty"`
	ConversationalVideoURL string        `json:"conversationalVideoUrl,omitempty"`
	MusicTracks            []MusicTrack  `json:"musicTracks"`
	SoundEffects           []SoundEffect `json:"soundEffects"`
	BrandVoice             string        `json:"brandVoice,omitempty"`
}

// NewDraft creates a fresh draft book around a story idea, with the same
// defaults a new project starts from.
func NewDraft(description string) *Book {
	return &Book{
		ID:            uuid.NewString(),
		Title:         "Novo Rascunho",
		Author:        "Autor",
		Genre:         "Fantasia",
		CoverArtStyle: "Fotografia cinematográfica, iluminação dramática, alta definição, 4k",
		Description:   description,
		Tags:          []string{},
		Characters:    []Character{},
		World:         World{Name: "Novo Mundo", Description: "Descreva seu mundo aqui..."},
		Chapters:      []Chapter{},
		ConceptArt:    []ConceptArt{},
		MusicTracks:   []MusicTrack{},
		SoundEffects:  []SoundEffect{},
	}
}

// CharacterNames returns the cast names in order, for roster seeding.
func (b *Book) CharacterNames() []string {
	names := make([]string, len(b.Characters))
	for i, c := range b.Characters {
		names[i] = c.Name
	}
	return names
}

// AddTag appends a tag if not already present. Matching is exact; insertion
// order is preserved for display.
func (b *Book) AddTag(tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return false
		}
	}
	b.Tags = append(b.Tags, tag)
	return true
}

// RemoveTag deletes a tag; absent tags are a no-op.
func (b *Book) RemoveTag(tag string) {
	for i, t := range b.Tags {
		if t == tag {
			b.Tags = append(b.Tags[:i], b.Tags[i+1:]...)
			return
		}
	}
}
