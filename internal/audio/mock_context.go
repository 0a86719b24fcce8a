package audio

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// MockContext implements Context for tests without touching real audio
// hardware. Players created from it "finish" after PlaybackDelay.
type MockContext struct {
	mu      sync.Mutex
	ready   bool
	players []*MockPlayer

	// PlaybackDelay is how long a mock player reports IsPlaying after Play.
	PlaybackDelay time.Duration

	// Test counters
	PlayersCreated int
	Suspended      bool
	Resumed        int
}

// NewMockContext creates a ready mock context.
func NewMockContext() *MockContext {
	return &MockContext{
		ready:         true,
		PlaybackDelay: 10 * time.Millisecond,
	}
}

// NewPlayer creates a mock player that consumes r fully on creation.
func (mc *MockContext) NewPlayer(r io.Reader) (Player, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if !mc.ready {
		return nil, fmt.Errorf("mock context: %w", ErrContextNotReady)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	player := &MockPlayer{data: data, delay: mc.PlaybackDelay}
	mc.players = append(mc.players, player)
	mc.PlayersCreated++
	return player, nil
}

// Suspend marks the device suspended.
func (mc *MockContext) Suspend() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.Suspended = true
	return nil
}

// Resume clears the suspended flag.
func (mc *MockContext) Resume() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.Suspended = false
	mc.Resumed++
	return nil
}

// IsReady reports whether the mock accepts players.
func (mc *MockContext) IsReady() bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.ready
}

// SampleRate returns the synthesized-narration rate.
func (mc *MockContext) SampleRate() int { return SynthSampleRate }

// ChannelCount returns mono.
func (mc *MockContext) ChannelCount() int { return SynthChannels }

// Close closes all players and marks the context unusable.
func (mc *MockContext) Close() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for _, p := range mc.players {
		_ = p.Close()
	}
	mc.ready = false
	mc.players = nil
	return nil
}

// MockPlayer implements Player for tests.
type MockPlayer struct {
	mu       sync.Mutex
	data     []byte
	delay    time.Duration
	playing  bool
	closed   bool
	started  time.Time
	PauseCnt int
}

// Play starts the simulated playback window.
func (mp *MockPlayer) Play() {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	if mp.closed {
		return
	}
	mp.playing = true
	mp.started = time.Now()
}

// Pause halts the simulated playback.
func (mp *MockPlayer) Pause() {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.playing = false
	mp.PauseCnt++
}

// IsPlaying reports whether the playback window is still open.
func (mp *MockPlayer) IsPlaying() bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	if !mp.playing || mp.closed {
		return false
	}
	if time.Since(mp.started) >= mp.delay {
		mp.playing = false
	}
	return mp.playing
}

// Close releases the handle.
func (mp *MockPlayer) Close() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.playing = false
	mp.closed = true
	return nil
}

// Data exposes the consumed PCM bytes for assertions.
func (mp *MockPlayer) Data() []byte {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.data
}
