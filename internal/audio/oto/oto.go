package oto

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"

	"metronome/internal/audio"
)

// OtoContext owns the process-wide oto audio context.
type OtoContext struct {
	context *oto.Context
}

// NewOtoContext opens the audio device. oto allows one context per process.
func NewOtoContext() (*OtoContext, error) {
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   audio.SampleRate,
		ChannelCount: audio.ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &OtoContext{context: context}, nil
}

// OtoClicker plays a pre-rendered tone through a single reused player.
type OtoClicker struct {
	mu     sync.Mutex
	player *oto.Player
}

// NewClicker renders tone once and prepares a player for it.
func (c *OtoContext) NewClicker(tone audio.Tone) *OtoClicker {
	pcm := FloatBufferTo16BitLE(audio.Render(tone, audio.SampleRate, audio.ChannelCount), nil)
	return &OtoClicker{player: c.context.NewPlayer(bytes.NewReader(pcm))}
}

// Click restarts the tone from the beginning, cutting off a click still playing.
func (o *OtoClicker) Click() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return fmt.Errorf("cannot play click: player closed")
	}
	if err := o.player.Err(); err != nil {
		return fmt.Errorf("cannot play click: %w", err)
	}
	o.player.Pause()
	if _, err := o.player.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("cannot rewind click: %w", err)
	}
	o.player.Play()
	return nil
}

// Close disposes of the player.
func (o *OtoClicker) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	if err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}
