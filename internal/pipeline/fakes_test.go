package pipeline

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
)

type fakeCapture struct {
	chunks chan []byte
	closed chan struct{}
	once   sync.Once
	closes atomic.Int32
}

func newFakeCapture(chunks ...[]byte) *fakeCapture {
	c := &fakeCapture{chunks: make(chan []byte, len(chunks)), closed: make(chan struct{})}
	for _, ch := range chunks {
		c.chunks <- ch
	}
	return c
}

func (c *fakeCapture) ReadChunk() ([]byte, error) {
	select {
	case <-c.closed:
		return nil, io.EOF
	default:
	}
	select {
	case b := <-c.chunks:
		return b, nil
	case <-c.closed:
		return nil, io.EOF
	}
}

func (c *fakeCapture) Close() error {
	c.closes.Add(1)
	c.once.Do(func() { close(c.closed) })
	return nil
}

type fakeMic struct {
	chunks [][]byte
	err    error

	mu   sync.Mutex
	caps []*fakeCapture
}

func (m *fakeMic) Open(ctx context.Context) (Capture, error) {
	if m.err != nil {
		return nil, m.err
	}
	c := newFakeCapture(m.chunks...)
	m.mu.Lock()
	m.caps = append(m.caps, c)
	m.mu.Unlock()
	return c, nil
}

func (m *fakeMic) last() *fakeCapture {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.caps) == 0 {
		return nil
	}
	return m.caps[len(m.caps)-1]
}

type fakeHandle struct {
	finish  chan error
	stopped chan struct{}
	once    sync.Once
	closes  atomic.Int32
	data    []byte
}

func (h *fakeHandle) Wait() error {
	select {
	case err := <-h.finish:
		return err
	case <-h.stopped:
		return nil
	}
}

func (h *fakeHandle) Close() error {
	h.closes.Add(1)
	h.once.Do(func() { close(h.stopped) })
	return nil
}

type fakeOutput struct {
	err error

	mu      sync.Mutex
	handles []*fakeHandle
}

func (o *fakeOutput) Open(ctx context.Context, a *Audio) (Handle, error) {
	if o.err != nil {
		return nil, o.err
	}
	data, err := io.ReadAll(a.Body)
	if err != nil {
		return nil, err
	}
	h := &fakeHandle{finish: make(chan error, 1), stopped: make(chan struct{}), data: data}
	o.mu.Lock()
	o.handles = append(o.handles, h)
	o.mu.Unlock()
	return h, nil
}

func (o *fakeOutput) opened() []*fakeHandle {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*fakeHandle(nil), o.handles...)
}

type countingBody struct {
	io.Reader
	closes atomic.Int32
}

func (b *countingBody) Close() error {
	b.closes.Add(1)
	return nil
}
