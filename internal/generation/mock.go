package generation

import (
	"context"

	"storystudio/internal/narration"
)

// MockService is a canned Service for tests.
type MockService struct {
	TextResult      string
	ImageResult     []byte
	NarrationResult string
	Err             error

	TextCalls      int
	ImageCalls     int
	NarrationCalls int

	// LastNarration records the most recent narration request.
	LastNarration narration.Request
}

func (m *MockService) GenerateText(_ context.Context, _ string) (string, error) {
	m.TextCalls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.TextResult, nil
}

func (m *MockService) GenerateImage(_ context.Context, _ string) ([]byte, error) {
	m.ImageCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.ImageResult, nil
}

func (m *MockService) GenerateNarration(_ context.Context, req narration.Request) (string, error) {
	m.NarrationCalls++
	m.LastNarration = req
	if m.Err != nil {
		return "", m.Err
	}
	return m.NarrationResult, nil
}
