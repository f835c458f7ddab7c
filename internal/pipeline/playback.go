package pipeline

import (
	"bufio"
	"context"
	"io"
	"mime"
	"strings"
	"sync"

	"github.com/yoockh/voicetranslate/internal/utils"
)

// Output is an audio output device.
type Output interface {
	Open(ctx context.Context, audio *Audio) (Handle, error)
}

// Handle is one live output resource. Wait returns when playback ends on its own;
// Close stops playback and releases the device.
type Handle interface {
	Wait() error
	Close() error
}

type playback struct {
	h    Handle
	body io.Closer
	once sync.Once
}

// release closes the body first so a writer blocked on the network lets go of the device.
func (p *playback) release() {
	p.once.Do(func() {
		_ = p.body.Close()
		_ = p.h.Close()
	})
}

// Player holds at most one live output handle.
type Player struct {
	out Output

	mu  sync.Mutex
	cur *playback
}

func NewPlayer(out Output) *Player {
	return &Player{out: out}
}

// Play releases the previous handle, then opens a new one for audio. done is called
// once if playback ends on its own; it is not called after Stop or Release.
func (p *Player) Play(ctx context.Context, audio *Audio, done func(error)) error {
	const op = "Player.Play"

	p.Release()

	h, err := p.out.Open(ctx, audio)
	if err != nil {
		_ = audio.Body.Close()
		return utils.E(utils.CodePlayback, op, "Audio playback failed", err)
	}

	pb := &playback{h: h, body: audio.Body}
	p.mu.Lock()
	prev := p.cur
	p.cur = pb
	p.mu.Unlock()
	if prev != nil {
		prev.release()
	}

	go func() {
		werr := h.Wait()
		if !p.detach(pb) {
			return
		}
		pb.release()
		if done != nil {
			if werr != nil {
				werr = utils.E(utils.CodePlayback, op, "Audio playback failed", werr)
			}
			done(werr)
		}
	}()
	return nil
}

// Stop halts playback and releases the handle immediately.
func (p *Player) Stop() { p.Release() }

// Release frees the current handle, if any. It reports whether one was released.
func (p *Player) Release() bool {
	p.mu.Lock()
	pb := p.cur
	p.cur = nil
	p.mu.Unlock()

	if pb == nil {
		return false
	}
	pb.release()
	return true
}

func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cur != nil
}

func (p *Player) detach(pb *playback) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cur != pb {
		return false
	}
	p.cur = nil
	return true
}

type peekedBody struct {
	*bufio.Reader
	io.Closer
}

// validateAudio checks that a synthesis result is tagged audio/* and carries at least
// one byte, without buffering the stream.
func validateAudio(a *Audio) (*Audio, error) {
	const op = "validateAudio"

	if a == nil || a.Body == nil {
		return nil, utils.E(utils.CodeInvalidAudio, op, "Received empty or invalid audio blob", nil)
	}

	mediaType, _, _ := mime.ParseMediaType(a.ContentType)
	if !strings.HasPrefix(mediaType, "audio/") {
		_ = a.Body.Close()
		return nil, utils.E(utils.CodeInvalidAudio, op, "Received empty or invalid audio blob", nil)
	}

	br := bufio.NewReader(a.Body)
	if _, err := br.Peek(1); err != nil {
		_ = a.Body.Close()
		return nil, utils.E(utils.CodeInvalidAudio, op, "Received empty or invalid audio blob", err)
	}
	return &Audio{Body: peekedBody{Reader: br, Closer: a.Body}, ContentType: a.ContentType}, nil
}
