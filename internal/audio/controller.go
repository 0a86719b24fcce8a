package audio

import (
	"bytes"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Controller is the process-wide single-slot narration player. It owns at
// most one active playback handle at a time: starting a new playback always
// stops the previous one first, so two narrations never overlap.
type Controller struct {
	mu      sync.Mutex
	ctx     Context
	decoder ContainerDecoder
	current Player
	gen     uint64
}

// NewController creates a controller on top of the given audio context.
// A nil decoder defaults to the beep-backed container decoder.
func NewController(ctx Context, decoder ContainerDecoder) *Controller {
	if decoder == nil {
		decoder = BeepDecoder{}
	}
	return &Controller{ctx: ctx, decoder: decoder}
}

// Play starts playback of the given audio, stopping any current playback
// first. A non-empty mimeType selects the container decode path used for
// user recordings; otherwise data is treated as raw synthesized PCM
// (24000 Hz mono s16le). onEnded fires once on natural completion, never
// after Stop or a superseding Play.
func (c *Controller) Play(data []byte, onEnded func(), mimeType string) error {
	c.mu.Lock()
	c.stopLocked()

	if !c.ctx.IsReady() {
		c.mu.Unlock()
		return ErrContextNotReady
	}
	if err := c.ctx.Resume(); err != nil {
		log.Warn("failed to resume audio context", "err", err)
	}

	pcm := data
	if mimeType != "" {
		decoded, err := c.decoder.Decode(data, mimeType)
		if err != nil {
			c.mu.Unlock()
			return err
		}
		pcm = decoded
	} else if err := ValidatePCM(pcm, SynthChannels); err != nil {
		c.mu.Unlock()
		return err
	}

	player, err := c.ctx.NewPlayer(bytes.NewReader(pcm))
	if err != nil {
		c.mu.Unlock()
		return err
	}

	c.gen++
	gen := c.gen
	c.current = player
	player.Play()
	c.mu.Unlock()

	log.Debug("playback started",
		"bytes", len(pcm),
		"duration", Duration(len(pcm), SynthSampleRate, SynthChannels))

	go c.watch(player, gen, onEnded)
	return nil
}

// Stop halts playback and releases the handle. It is safe to call at any
// time, including when nothing is playing.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.stopLocked()
	c.mu.Unlock()
}

// IsPlaying reports whether a playback handle is currently active.
func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// stopLocked releases the active handle and invalidates its watcher.
// Caller must hold c.mu.
func (c *Controller) stopLocked() {
	if c.current == nil {
		return
	}
	c.gen++
	c.current.Pause()
	if err := c.current.Close(); err != nil {
		log.Warn("failed to close playback handle", "err", err)
	}
	c.current = nil
}

// watch waits for the handle to drain and fires onEnded if this playback
// was not stopped or superseded in the meantime.
func (c *Controller) watch(player Player, gen uint64, onEnded func()) {
	for player.IsPlaying() {
		time.Sleep(20 * time.Millisecond)

		c.mu.Lock()
		stale := c.gen != gen
		c.mu.Unlock()
		if stale {
			return
		}
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	c.current = nil
	c.mu.Unlock()

	_ = player.Close()
	if onEnded != nil {
		onEnded()
	}
}
