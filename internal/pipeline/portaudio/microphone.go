// Package portaudio captures microphone input through the PortAudio C library.
package portaudio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/yoockh/voicetranslate/internal/pipeline"
)

// Microphone captures mono 16-bit PCM from the default input device.
type Microphone struct {
	SampleRate      int
	FramesPerBuffer int
}

var _ pipeline.Microphone = (*Microphone)(nil)

func (m *Microphone) Open(ctx context.Context) (pipeline.Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.SampleRate <= 0 {
		m.SampleRate = 16000
	}
	if m.FramesPerBuffer <= 0 {
		m.FramesPerBuffer = 1024
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: initialize: %w", err)
	}

	buf := make([]int16, m.FramesPerBuffer)
	s, err := portaudio.OpenDefaultStream(1, 0, float64(m.SampleRate), len(buf), buf)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("portaudio: opening default stream: %w", err)
	}
	if err := s.Start(); err != nil {
		_ = s.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("portaudio: starting stream: %w", err)
	}
	return &capture{s: s, buf: buf}, nil
}

type capture struct {
	mu     sync.Mutex
	s      *portaudio.Stream
	buf    []int16
	closed bool
}

// ReadChunk holds the lock for one buffer period so Close never races a Read.
func (c *capture) ReadChunk() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, io.EOF
	}
	if err := c.s.Read(); err != nil && !errors.Is(err, portaudio.InputOverflowed) {
		return nil, fmt.Errorf("portaudio: reading: %w", err)
	}
	return pipeline.EncodePCM16(c.buf), nil
}

func (c *capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	err := errors.Join(c.s.Stop(), c.s.Close())
	if terr := portaudio.Terminate(); terr != nil {
		err = errors.Join(err, terr)
	}
	return err
}
